package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fms-tools/calendly-insights/internal/event"
)

func summaryFixture() []event.Event {
	// Monday 10:00, Monday 14:00, Tuesday 10:00
	monday := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	return []event.Event{
		{
			EventURI: "e1", EventName: "Erstberatung", Status: "active",
			StartTime: monday, DurationMinutes: 60,
			HostName: "Alice",
			Invitees: []event.Invitee{{InviteeURI: "i1", Email: "k1@example.com"}},
		},
		{
			EventURI: "e2", EventName: "Erstberatung", Status: "canceled",
			StartTime: monday.Add(4 * time.Hour), DurationMinutes: 30,
			HostName: "Alice",
			Invitees: []event.Invitee{{InviteeURI: "i2", Email: "k2@example.com"}},
		},
		{
			EventURI: "e3", EventName: "Folgetermin", Status: "active",
			StartTime: monday.Add(24 * time.Hour), DurationMinutes: 30,
			HostName: "Bob",
			Invitees: []event.Invitee{{InviteeURI: "i3", Email: "k1@example.com"}},
		},
	}
}

func TestBuildSummaryKPIs(t *testing.T) {
	s := BuildSummary(summaryFixture())

	assert.Equal(t, 3, s.TotalEvents)
	assert.Equal(t, 2, s.ActiveEvents)
	assert.Equal(t, 1, s.CanceledEvents)
	assert.InDelta(t, 33.3, s.CancelRate, 0.01)
	assert.Equal(t, 2, s.UniqueInvitees)
	assert.InDelta(t, 40.0, s.AvgDurationMinutes, 0.01)
}

func TestBuildSummaryBreakdowns(t *testing.T) {
	s := BuildSummary(summaryFixture())

	require.Len(t, s.EventsPerDay, 2)
	assert.Equal(t, DateCount{Date: "2024-03-04", Count: 2}, s.EventsPerDay[0])
	assert.Equal(t, DateCount{Date: "2024-03-05", Count: 1}, s.EventsPerDay[1])

	require.Len(t, s.EventsPerWeekday, 7)
	assert.Equal(t, LabelCount{Label: "Montag", Count: 2}, s.EventsPerWeekday[0])
	assert.Equal(t, LabelCount{Label: "Dienstag", Count: 1}, s.EventsPerWeekday[1])
	assert.Equal(t, LabelCount{Label: "Sonntag", Count: 0}, s.EventsPerWeekday[6])

	require.Len(t, s.EventsPerHour, 2)
	assert.Equal(t, HourCount{Hour: 10, Count: 2}, s.EventsPerHour[0])
	assert.Equal(t, HourCount{Hour: 14, Count: 1}, s.EventsPerHour[1])

	require.Len(t, s.HostBreakdown, 2)
	alice := s.HostBreakdown[0]
	assert.Equal(t, "Alice", alice.HostName)
	assert.Equal(t, 2, alice.TotalEvents)
	assert.Equal(t, 1, alice.CanceledEvents)
	assert.InDelta(t, 50.0, alice.CancelRate, 0.01)
	assert.InDelta(t, 45.0, alice.AvgDurationMinutes, 0.01)
	assert.Equal(t, 2, alice.UniqueInvitees)

	require.Len(t, s.TypeBreakdown, 2)
	assert.Equal(t, "Erstberatung", s.TypeBreakdown[0].EventName)
	assert.Equal(t, 2, s.TypeBreakdown[0].TotalEvents)
	assert.Equal(t, 1, s.TypeBreakdown[0].CanceledEvents)
}

func TestBuildSummaryEmptyInput(t *testing.T) {
	s := BuildSummary(nil)

	assert.Zero(t, s.TotalEvents)
	assert.Zero(t, s.CancelRate)
	assert.Zero(t, s.AvgDurationMinutes)
	assert.Empty(t, s.EventsPerDay)
	assert.Empty(t, s.EventsPerHour)
	assert.Len(t, s.EventsPerWeekday, 7)
}

func TestBuildRowsJoinsInviteeNames(t *testing.T) {
	events := summaryFixture()
	events[0].Invitees = []event.Invitee{
		{InviteeURI: "i1", Name: "Kunde Eins"},
		{InviteeURI: "i2", Name: "Kunde Zwei"},
	}

	rows := BuildRows(events)
	require.Len(t, rows, 3)
	assert.Equal(t, "Kunde Eins, Kunde Zwei", rows[0].Invitees)
	assert.Equal(t, "04.03.2024", rows[0].Date)
	assert.Equal(t, "10:00", rows[0].Time)
}
