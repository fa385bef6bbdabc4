package calendly

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

const pageSize = 100

// Client talks to the Calendly v2 REST API with a bearer token. All list
// calls walk the next_page cursor until the source reports no further page.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger

	orgURI string // memoized by ResolveOrganization
}

// NewClient creates an API client. baseURL is the production endpoint in
// normal use and a test server in tests.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &APIError{StatusCode: resp.StatusCode, URL: rawURL, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", rawURL, err)
	}
	return nil
}

// listPages walks cursor pagination starting at firstURL and returns the
// concatenated collection items. It must not assume a bounded page count.
func (c *Client) listPages(ctx context.Context, firstURL string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	next := firstURL
	for next != "" {
		var env listEnvelope
		if err := c.get(ctx, next, &env); err != nil {
			return nil, err
		}
		items = append(items, env.Collection...)
		// next_page is a complete URL with the cursor embedded.
		next = env.Pagination.NextPage
	}
	return items, nil
}

// CurrentUser returns the profile of the token's owner.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var env resourceEnvelope
	if err := c.get(ctx, c.baseURL+"/users/me", &env); err != nil {
		return nil, err
	}
	var u User
	if err := json.Unmarshal(env.Resource, &u); err != nil {
		return nil, fmt.Errorf("failed to decode current user: %w", err)
	}
	return &u, nil
}

// ResolveOrganization derives the organization URI from the authenticated
// user. The result is memoized for the client's lifetime; it does not
// change mid-run.
func (c *Client) ResolveOrganization(ctx context.Context) (string, error) {
	if c.orgURI != "" {
		return c.orgURI, nil
	}
	user, err := c.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	if user.CurrentOrganization == "" {
		return "", fmt.Errorf("user %s has no current organization", user.Email)
	}
	c.orgURI = user.CurrentOrganization
	return c.orgURI, nil
}

// ListMembers retrieves every member of the resolved organization.
func (c *Client) ListMembers(ctx context.Context) ([]Membership, error) {
	orgURI, err := c.ResolveOrganization(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("organization", orgURI)
	params.Set("count", fmt.Sprint(pageSize))

	raws, err := c.listPages(ctx, c.baseURL+"/organization_memberships?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to list organization members: %w", err)
	}

	members := make([]Membership, 0, len(raws))
	for _, raw := range raws {
		var m Membership
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("failed to decode membership: %w", err)
		}
		members = append(members, m)
	}
	return members, nil
}

// ListEvents retrieves every scheduled event whose start time falls in
// [start, end], optionally scoped to one member's user URI. Zero start/end
// default to a trailing 12-month window ending now.
func (c *Client) ListEvents(ctx context.Context, start, end time.Time, userURI string) ([]ScheduledEvent, error) {
	if end.IsZero() {
		end = time.Now().UTC()
	}
	if start.IsZero() {
		start = end.AddDate(-1, 0, 0)
	}
	if start.After(end) {
		return nil, fmt.Errorf("invalid window: start %s is after end %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	orgURI, err := c.ResolveOrganization(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("organization", orgURI)
	params.Set("min_start_time", start.UTC().Format(time.RFC3339))
	params.Set("max_start_time", end.UTC().Format(time.RFC3339))
	params.Set("count", fmt.Sprint(pageSize))
	if userURI != "" {
		params.Set("user", userURI)
	}

	raws, err := c.listPages(ctx, c.baseURL+"/scheduled_events?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled events: %w", err)
	}

	events := make([]ScheduledEvent, 0, len(raws))
	for _, raw := range raws {
		var ev ScheduledEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("failed to decode scheduled event: %w", err)
		}
		ev.Raw = raw
		events = append(events, ev)
	}
	return events, nil
}

// ListInvitees retrieves every invitee for one event.
func (c *Client) ListInvitees(ctx context.Context, eventURI string) ([]Invitee, error) {
	// The event UUID is the last path segment of its URI.
	uuid := path.Base(eventURI)
	params := url.Values{}
	params.Set("count", fmt.Sprint(pageSize))

	raws, err := c.listPages(ctx, c.baseURL+"/scheduled_events/"+uuid+"/invitees?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to list invitees for %s: %w", eventURI, err)
	}

	invitees := make([]Invitee, 0, len(raws))
	for _, raw := range raws {
		var inv Invitee
		if err := json.Unmarshal(raw, &inv); err != nil {
			return nil, fmt.Errorf("failed to decode invitee: %w", err)
		}
		invitees = append(invitees, inv)
	}
	return invitees, nil
}
