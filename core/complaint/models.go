package complaint

import (
	"time"

	"github.com/trezcool/makazi/core"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
)

// validTransitions maps a Status to the statuses it may move to.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusResolved},
	StatusInProgress: {StatusResolved},
	StatusResolved:   {},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Complaint struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewComplaint contains information needed to file a Complaint.
type NewComplaint struct {
	Category    string `json:"category" validate:"required"`
	Description string `json:"description" validate:"required,max=2000"`
}

func (nc *NewComplaint) Validate() error {
	nc.Category = core.CleanString(nc.Category, true /* lower */)
	nc.Description = core.CleanString(nc.Description)
	return core.Validate.Struct(nc)
}

// Filter narrows down a Complaint list query. Fields are ANDed together.
type Filter struct {
	StudentID    string
	Statuses     []Status
	CreatedAfter time.Time
	UpdatedAfter time.Time
}
