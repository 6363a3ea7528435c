package maintenance

import (
	"time"

	"github.com/trezcool/makazi/core"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

// Request is a room-service / maintenance request (repairs, cleaning, etc).
// Its notification type on the wire is "service" for historical reasons.
type Request struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Kind      string    `json:"kind"` // eg. "electrical", "plumbing", "cleaning"
	Detail    string    `json:"detail"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewRequest contains information needed to file a maintenance Request.
type NewRequest struct {
	Kind   string `json:"kind" validate:"required"`
	Detail string `json:"detail" validate:"required,max=2000"`
}

func (nr *NewRequest) Validate() error {
	nr.Kind = core.CleanString(nr.Kind, true /* lower */)
	nr.Detail = core.CleanString(nr.Detail)
	return core.Validate.Struct(nr)
}

// Filter narrows down a Request list query. Fields are ANDed together.
type Filter struct {
	StudentID    string
	Statuses     []Status
	CreatedAfter time.Time
	UpdatedAfter time.Time
}
