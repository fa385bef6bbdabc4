package event

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/fms-tools/calendly-insights/internal/calendly"
)

// Event is the canonical event record. Both freshly fetched API events and
// stored rows are normalized into it before any processing; the adapter
// below is the only place that knows the API shape.
type Event struct {
	EventURI        string         `gorm:"column:event_uri;primaryKey" json:"event_uri"`
	EventName       string         `gorm:"column:event_name" json:"event_name"`
	Status          string         `gorm:"column:status;index" json:"status"`
	StartTime       time.Time      `gorm:"column:start_time;index" json:"start_time"`
	EndTime         time.Time      `gorm:"column:end_time" json:"end_time"`
	DurationMinutes int            `gorm:"column:duration_minutes" json:"duration_minutes"`
	HostName        string         `gorm:"column:host_name" json:"host_name"`
	HostEmail       string         `gorm:"column:host_email;index" json:"host_email"`
	LocationType    string         `gorm:"column:location_type" json:"location_type"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime:false" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime:false" json:"updated_at"`
	RawData         datatypes.JSON `gorm:"column:raw_data" json:"raw_data,omitempty"`

	Invitees []Invitee `gorm:"foreignKey:EventURI;references:EventURI" json:"invitees"`
}

// TableName overrides table name for Event
func (Event) TableName() string {
	return "events"
}

// Invitee is owned by its parent event and only meaningful through it.
type Invitee struct {
	InviteeURI string    `gorm:"column:invitee_uri;primaryKey" json:"invitee_uri"`
	EventURI   string    `gorm:"column:event_uri;index" json:"event_uri"`
	Name       string    `gorm:"column:name" json:"name"`
	Email      string    `gorm:"column:email" json:"email"`
	Status     string    `gorm:"column:status" json:"status"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime:false" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updated_at"`
}

// TableName overrides table name for Invitee
func (Invitee) TableName() string {
	return "invitees"
}

const unknown = "Unknown"

// FromAPI normalizes a fetched API event into the canonical record.
func FromAPI(ev calendly.ScheduledEvent) Event {
	raw := ev.Raw
	if len(raw) == 0 {
		// Ad hoc constructed events (tests) still get a raw copy.
		raw, _ = json.Marshal(ev)
	}

	out := Event{
		EventURI:        ev.URI,
		EventName:       ev.Name,
		Status:          ev.Status,
		StartTime:       ev.StartTime,
		EndTime:         ev.EndTime,
		DurationMinutes: int(ev.EndTime.Sub(ev.StartTime).Minutes()),
		HostName:        orUnknown(ev.HostName),
		HostEmail:       orUnknown(ev.HostEmail),
		LocationType:    orUnknown(ev.Location.Type),
		CreatedAt:       ev.CreatedAt,
		UpdatedAt:       ev.UpdatedAt,
		RawData:         datatypes.JSON(raw),
	}

	out.Invitees = make([]Invitee, 0, len(ev.Invitees))
	for _, inv := range ev.Invitees {
		out.Invitees = append(out.Invitees, Invitee{
			InviteeURI: inv.URI,
			EventURI:   ev.URI,
			Name:       orUnknown(inv.Name),
			Email:      orUnknown(inv.Email),
			Status:     inv.Status,
			CreatedAt:  inv.CreatedAt,
			UpdatedAt:  inv.UpdatedAt,
		})
	}
	return out
}

// FromAPIBatch normalizes a whole fetch result.
func FromAPIBatch(events []calendly.ScheduledEvent) []Event {
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		out = append(out, FromAPI(ev))
	}
	return out
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}
