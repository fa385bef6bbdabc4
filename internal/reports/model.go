package reports

import "time"

// Supported export formats
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
	FormatJSON  = "json"
)

// Row is one line of the events report. Field names mirror the German
// dashboard column headings the exports carry.
type Row struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	EventName string `json:"event_name"`
	HostName  string `json:"host_name"`
	Invitees  string `json:"invitees"`
	Status    string `json:"status"`
	Duration  int    `json:"duration_minutes"`
	Location  string `json:"location"`
}

var columnHeaders = []string{"Datum", "Uhrzeit", "Termintyp", "Berater", "Kunde", "Status", "Dauer (Min)", "Location"}

// DateCount is the number of events on one calendar day.
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// LabelCount is a generic labeled counter.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// HourCount is the number of events starting in one hour of day.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// HostStats aggregates one host's events.
type HostStats struct {
	HostName           string  `json:"host_name"`
	TotalEvents        int     `json:"total_events"`
	CanceledEvents     int     `json:"canceled_events"`
	CancelRate         float64 `json:"cancel_rate"`
	AvgDurationMinutes float64 `json:"avg_duration_minutes"`
	UniqueInvitees     int     `json:"unique_invitees"`
}

// TypeStats aggregates one event type.
type TypeStats struct {
	EventName      string `json:"event_name"`
	TotalEvents    int    `json:"total_events"`
	ActiveEvents   int    `json:"active_events"`
	CanceledEvents int    `json:"canceled_events"`
}

// Summary carries the dashboard KPIs and breakdowns for one filter window.
type Summary struct {
	TotalEvents        int          `json:"total_events"`
	ActiveEvents       int          `json:"active_events"`
	CanceledEvents     int          `json:"canceled_events"`
	CancelRate         float64      `json:"cancel_rate"`
	UniqueInvitees     int          `json:"unique_invitees"`
	AvgDurationMinutes float64      `json:"avg_duration_minutes"`
	EventsPerDay       []DateCount  `json:"events_per_day"`
	EventsPerWeekday   []LabelCount `json:"events_per_weekday"`
	EventsPerHour      []HourCount  `json:"events_per_hour"`
	HostBreakdown      []HostStats  `json:"host_breakdown"`
	TypeBreakdown      []TypeStats  `json:"type_breakdown"`
	GeneratedAt        time.Time    `json:"generated_at"`
}

var weekdayLabels = []string{"Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag", "Sonntag"}
