package event

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fms-tools/calendly-insights/internal/synclog"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Event{}, &Invitee{}, &synclog.Entry{}))
	return db
}

func makeEvent(uri string, start time.Time, status, hostEmail string) Event {
	return Event{
		EventURI:        uri,
		EventName:       "Beratung",
		Status:          status,
		StartTime:       start,
		EndTime:         start.Add(30 * time.Minute),
		DurationMinutes: 30,
		HostName:        "Alice",
		HostEmail:       hostEmail,
		LocationType:    "zoom",
		CreatedAt:       start.Add(-48 * time.Hour),
		UpdatedAt:       start.Add(-48 * time.Hour),
	}
}

func TestUpsertBatchInsertsThenNoops(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	batch := []Event{
		makeEvent("https://api.calendly.com/scheduled_events/e1", base, "active", "alice@example.com"),
		makeEvent("https://api.calendly.com/scheduled_events/e2", base.Add(time.Hour), "canceled", "bob@example.com"),
	}

	newCount, updated, err := repo.UpsertBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, newCount)
	assert.Equal(t, 0, updated)

	newCount, updated, err = repo.UpsertBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 0, newCount)
	assert.Equal(t, 0, updated)
}

func TestUpsertBatchOnlyStrictlyNewerWins(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	ev := makeEvent("https://api.calendly.com/scheduled_events/e1", base, "active", "alice@example.com")
	_, _, err := repo.UpsertBatch(ctx, []Event{ev})
	require.NoError(t, err)

	stale := ev
	stale.Status = "canceled"
	stale.UpdatedAt = ev.UpdatedAt.Add(-time.Hour)
	newCount, updated, err := repo.UpsertBatch(ctx, []Event{stale})
	require.NoError(t, err)
	assert.Equal(t, 0, newCount)
	assert.Equal(t, 0, updated)

	got, err := repo.Query(ctx, QueryFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "active", got[0].Status)

	fresh := ev
	fresh.Status = "canceled"
	fresh.UpdatedAt = ev.UpdatedAt.Add(time.Hour)
	newCount, updated, err = repo.UpsertBatch(ctx, []Event{fresh})
	require.NoError(t, err)
	assert.Equal(t, 0, newCount)
	assert.Equal(t, 1, updated)

	got, err = repo.Query(ctx, QueryFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "canceled", got[0].Status)
}

func TestQueryFiltersAndOrdering(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	events := []Event{
		makeEvent("https://api.calendly.com/scheduled_events/e1", base, "active", "alice@example.com"),
		makeEvent("https://api.calendly.com/scheduled_events/e2", base.Add(2*time.Hour), "canceled", "alice@example.com"),
		makeEvent("https://api.calendly.com/scheduled_events/e3", base.Add(4*time.Hour), "active", "bob@example.com"),
	}
	_, _, err := repo.UpsertBatch(ctx, events)
	require.NoError(t, err)

	got, err := repo.Query(ctx, QueryFilter{Status: "active"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "https://api.calendly.com/scheduled_events/e3", got[0].EventURI)
	assert.Equal(t, "https://api.calendly.com/scheduled_events/e1", got[1].EventURI)
	assert.True(t, got[0].StartTime.After(got[1].StartTime))

	got, err = repo.Query(ctx, QueryFilter{HostEmail: "bob@example.com"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://api.calendly.com/scheduled_events/e3", got[0].EventURI)

	windowStart := base.Add(time.Hour)
	windowEnd := base.Add(3 * time.Hour)
	got, err = repo.Query(ctx, QueryFilter{Start: &windowStart, End: &windowEnd})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://api.calendly.com/scheduled_events/e2", got[0].EventURI)
}

func TestQueryAttachesInvitees(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	ev := makeEvent("https://api.calendly.com/scheduled_events/e1", base, "active", "alice@example.com")
	ev.Invitees = []Invitee{
		{InviteeURI: ev.EventURI + "/invitees/i1", Name: "Kunde Eins", Email: "k1@example.com", Status: "active"},
		{InviteeURI: ev.EventURI + "/invitees/i2", Name: "Kunde Zwei", Email: "k2@example.com", Status: "active"},
	}
	require.NoError(t, repo.UpsertEvent(ctx, &ev))

	got, err := repo.Query(ctx, QueryFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Invitees, 2)
	assert.Equal(t, ev.EventURI, got[0].Invitees[0].EventURI)
}

func TestUpsertEventReplacesStoredVersion(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	ev := makeEvent("https://api.calendly.com/scheduled_events/e1", base, "active", "alice@example.com")
	ev.Invitees = []Invitee{
		{InviteeURI: ev.EventURI + "/invitees/i1", Name: "Kunde Eins", Email: "k1@example.com", Status: "active"},
	}
	require.NoError(t, repo.UpsertEvent(ctx, &ev))

	ev.Status = "canceled"
	ev.Invitees[0].Status = "canceled"
	require.NoError(t, repo.UpsertEvent(ctx, &ev))

	got, err := repo.Query(ctx, QueryFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "canceled", got[0].Status)
	require.Len(t, got[0].Invitees, 1)
	assert.Equal(t, "canceled", got[0].Invitees[0].Status)
}

func TestStatsOnFreshStore(t *testing.T) {
	db := testDB(t)
	svc := NewService(NewRepository(db), synclog.NewRepository(db))

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalEvents)
	assert.Zero(t, stats.ActiveEvents)
	assert.Zero(t, stats.CanceledEvents)
	assert.Nil(t, stats.LastSync)
}

func TestStatsAfterSync(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)
	logs := synclog.NewRepository(db)
	svc := NewService(repo, logs)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	_, _, err := repo.UpsertBatch(ctx, []Event{
		makeEvent("https://api.calendly.com/scheduled_events/e1", base, "active", "alice@example.com"),
		makeEvent("https://api.calendly.com/scheduled_events/e2", base.Add(time.Hour), "canceled", "alice@example.com"),
	})
	require.NoError(t, err)
	require.NoError(t, logs.Record(ctx, &synclog.Entry{
		SyncDate:      time.Now().UTC(),
		EventsFetched: 2,
		EventsNew:     2,
		Success:       true,
	}))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalEvents)
	assert.Equal(t, int64(1), stats.ActiveEvents)
	assert.Equal(t, int64(1), stats.CanceledEvents)
	require.NotNil(t, stats.LastSync)
	assert.Equal(t, 2, stats.LastSync.EventsFetched)
	assert.True(t, stats.LastSync.Success)
}
