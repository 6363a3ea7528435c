package laundry

import (
	"time"

	"github.com/trezcool/makazi/core"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCollected Status = "collected"
	StatusDelivered Status = "delivered"
)

type Request struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Items     string    `json:"items"` // free-form list, eg. "3 shirts, 2 trousers"
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewRequest contains information needed to place a laundry Request.
type NewRequest struct {
	Items string `json:"items" validate:"required,max=500"`
}

func (nr *NewRequest) Validate() error {
	nr.Items = core.CleanString(nr.Items)
	return core.Validate.Struct(nr)
}

// Filter narrows down a Request list query. Fields are ANDed together.
type Filter struct {
	StudentID    string
	Statuses     []Status
	CreatedAfter time.Time
}
