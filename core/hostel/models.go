package hostel

import (
	"time"

	"github.com/trezcool/makazi/core"
)

// BusTiming is one entry of the hostel shuttle timetable.
type BusTiming struct {
	ID        string    `json:"id"`
	Route     string    `json:"route"`
	Departs   string    `json:"departs"` // "HH:MM", local hostel time
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// EmergencyContact is a phone number students can reach in an emergency.
type EmergencyContact struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"` // eg. "Warden", "Campus security"
	Phone     string    `json:"phone"`
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// UpsertBusTiming contains information needed to create or update a BusTiming.
type UpsertBusTiming struct {
	ID      string `json:"id"` // empty on create
	Route   string `json:"route" validate:"required,max=200"`
	Departs string `json:"departs" validate:"required,len=5"`
}

func (ub *UpsertBusTiming) Validate() error {
	ub.Route = core.CleanString(ub.Route)
	ub.Departs = core.CleanString(ub.Departs)
	return core.Validate.Struct(ub)
}

// UpsertEmergencyContact contains information needed to create or update an
// EmergencyContact.
type UpsertEmergencyContact struct {
	ID    string `json:"id"` // empty on create
	Label string `json:"label" validate:"required,max=100"`
	Phone string `json:"phone" validate:"required,max=20"`
}

func (uc *UpsertEmergencyContact) Validate() error {
	uc.Label = core.CleanString(uc.Label)
	uc.Phone = core.CleanString(uc.Phone)
	return core.Validate.Struct(uc)
}
