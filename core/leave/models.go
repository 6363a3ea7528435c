package leave

import (
	"time"

	"github.com/trezcool/makazi/core"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Leave struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Reason    string    `json:"reason"`
	FromDate  time.Time `json:"from_date"`
	ToDate    time.Time `json:"to_date"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewLeave contains information needed to request a Leave.
type NewLeave struct {
	Reason   string    `json:"reason" validate:"required,max=1000"`
	FromDate time.Time `json:"from_date" validate:"required"`
	ToDate   time.Time `json:"to_date" validate:"required,gtefield=FromDate"`
}

func (nl *NewLeave) Validate() error {
	nl.Reason = core.CleanString(nl.Reason)
	return core.Validate.Struct(nl)
}

// Filter narrows down a Leave list query. Fields are ANDed together.
type Filter struct {
	StudentID    string
	Statuses     []Status
	CreatedAfter time.Time
	UpdatedAfter time.Time
}
