package calendly

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&testWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testWriter struct{}

func (*testWriter) Write(p []byte) (int, error) { return len(p), nil }

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("failed to encode response: %v", err)
	}
}

func userMeHandler(t *testing.T, orgURI string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"resource": map[string]any{
				"uri":                  "https://api.calendly.test/users/u1",
				"name":                 "Ada Admin",
				"email":                "ada@example.com",
				"current_organization": orgURI,
			},
		})
	}
}

func TestListEventsPaginationExhaustion(t *testing.T) {
	const orgURI = "https://api.calendly.test/organizations/org1"
	requests := 0

	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/users/me", userMeHandler(t, orgURI))
	mux.HandleFunc("/scheduled_events", func(w http.ResponseWriter, r *http.Request) {
		requests++
		page := r.URL.Query().Get("page")
		if page == "" {
			page = "1"
		}

		collection := make([]map[string]any, 0, 100)
		for i := 0; i < 100; i++ {
			collection = append(collection, map[string]any{
				"uri":        fmt.Sprintf("https://api.calendly.test/scheduled_events/p%s-%d", page, i),
				"name":       "Intro Call",
				"status":     "active",
				"start_time": "2024-01-10T10:00:00Z",
				"end_time":   "2024-01-10T10:30:00Z",
				"created_at": "2024-01-01T00:00:00Z",
				"updated_at": "2024-01-02T00:00:00Z",
			})
		}

		nextPage := ""
		if page != "3" {
			next := "2"
			if page == "2" {
				next = "3"
			}
			nextPage = server.URL + "/scheduled_events?page=" + next
		}
		writeJSON(t, w, map[string]any{
			"collection": collection,
			"pagination": map[string]any{"count": 100, "next_page": nextPage},
		})
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.URL, "token", testLogger())
	events, err := client.ListEvents(context.Background(), time.Time{}, time.Time{}, "")
	require.NoError(t, err)

	assert.Len(t, events, 300)
	assert.Equal(t, 3, requests)
	assert.NotEmpty(t, events[0].Raw, "raw API record must be preserved")
}

func TestListEventsRejectsInvertedWindow(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", "token", testLogger())

	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := client.ListEvents(context.Background(), start, end, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid window")
}

func TestResolveOrganizationMemoized(t *testing.T) {
	const orgURI = "https://api.calendly.test/organizations/org1"
	hits := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		hits++
		userMeHandler(t, orgURI)(w, r)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.URL, "token", testLogger())
	for i := 0; i < 3; i++ {
		got, err := client.ResolveOrganization(context.Background())
		require.NoError(t, err)
		assert.Equal(t, orgURI, got)
	}
	assert.Equal(t, 1, hits, "organization URI must be resolved once per client lifetime")
}

func TestInvalidTokenSurfacesAuthError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"title":"Unauthenticated"}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.URL, "bad-token", testLogger())
	_, err := client.ResolveOrganization(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuth)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestListInviteesUsesEventUUID(t *testing.T) {
	var gotPath string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(t, w, map[string]any{
			"collection": []map[string]any{{
				"uri":        "https://api.calendly.test/scheduled_events/ev1/invitees/inv1",
				"name":       "Carla Client",
				"email":      "carla@example.com",
				"status":     "active",
				"created_at": "2024-01-01T00:00:00Z",
				"updated_at": "2024-01-01T00:00:00Z",
			}},
			"pagination": map[string]any{"count": 1},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.URL, "token", testLogger())
	invitees, err := client.ListInvitees(context.Background(), "https://api.calendly.test/scheduled_events/ev1")
	require.NoError(t, err)

	assert.Equal(t, "/scheduled_events/ev1/invitees", gotPath)
	require.Len(t, invitees, 1)
	assert.Equal(t, "carla@example.com", invitees[0].Email)
}
