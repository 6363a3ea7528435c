package notification

import "time"

// Type tags an Event with the domain it originates from. The set is closed:
// clients route taps on an Event to the matching screen by switching on it.
type Type string

const (
	TypeMessage   Type = "message"
	TypeComplaint Type = "complaint"
	TypeService   Type = "service"
	TypeLaundry   Type = "laundry"
	TypeLeave     Type = "leave"
	TypeNotice    Type = "notice"
	TypeBus       Type = "bus"
	TypeEmergency Type = "emergency-contact"
)

// Event is a single entry in a user's notification feed. Events are computed
// on the fly from the domain tables; they are never stored. Presence in the
// feed IS the unread signal, hence Read is always false.
type Event struct {
	ID       string                 `json:"id"` // "{type}-{sourceKey}", eg. "complaint-42"
	Type     Type                   `json:"type"`
	Title    string                 `json:"title"`
	Subtitle string                 `json:"subtitle"`
	Time     time.Time              `json:"time"` // display & sort key
	Data     map[string]interface{} `json:"data"` // routing payload; opaque to the aggregator
	Read     bool                   `json:"read"`
}

// EventID builds the canonical Event.ID for a source entity key.
func EventID(typ Type, key string) string {
	prefix := string(typ)
	if typ == TypeMessage {
		prefix = "msg"
	}
	return prefix + "-" + key
}
