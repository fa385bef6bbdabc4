package calendly

import (
	"encoding/json"
	"time"
)

// User is the authenticated Calendly user (GET /users/me).
type User struct {
	URI                 string `json:"uri"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	CurrentOrganization string `json:"current_organization"`
}

// Membership is one organization membership record.
type Membership struct {
	URI  string `json:"uri"`
	Role string `json:"role"`
	User User   `json:"user"`
}

// Location describes where an event takes place (zoom, phone, ...).
type Location struct {
	Type     string `json:"type"`
	Location string `json:"location"`
}

// ScheduledEvent is one booked event as returned by the API, plus the host
// identity stamped in by the fetcher and the invitee list attached to it.
type ScheduledEvent struct {
	URI       string    `json:"uri"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Location  Location  `json:"location"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Stamped per member scope by FetchAll, not part of the API record.
	HostName  string `json:"host_name,omitempty"`
	HostEmail string `json:"host_email,omitempty"`

	Invitees []Invitee `json:"invitees,omitempty"`

	// Raw preserves the original API record verbatim so fields this tool
	// does not model survive a round trip through the store.
	Raw json.RawMessage `json:"-"`
}

// Invitee is one participant of a scheduled event.
type Invitee struct {
	URI       string    `json:"uri"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// All Calendly list endpoints share the same response envelope; the
// next_page cursor URL is absent on the final page.
type pagination struct {
	Count    int    `json:"count"`
	NextPage string `json:"next_page"`
}

type listEnvelope struct {
	Collection []json.RawMessage `json:"collection"`
	Pagination pagination        `json:"pagination"`
}

type resourceEnvelope struct {
	Resource json.RawMessage `json:"resource"`
}
