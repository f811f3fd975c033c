package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/filter"
	"github.com/dmitrymomot/notifykit/pkg/httpapi"
	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/scheduler"
)

type fixture struct {
	api       *httpapi.API
	scheduler *scheduler.Scheduler
	filters   *filter.Engine
	server    *httptest.Server
}

func newFixture(t *testing.T, rules ...filter.Rule) *fixture {
	t.Helper()
	ctx := context.Background()

	sched, err := scheduler.New(ctx, scheduler.NoOpDeliverer{})
	require.NoError(t, err)

	filters, err := filter.NewEngine(ctx, filter.WithRules(rules...))
	require.NoError(t, err)

	api, err := httpapi.New(sched, filters)
	require.NoError(t, err)

	srv := httptest.NewServer(api.Router())
	t.Cleanup(srv.Close)

	return &fixture{api: api, scheduler: sched, filters: filters, server: srv}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestNewValidatesDependencies(t *testing.T) {
	t.Parallel()

	_, err := httpapi.New(nil, nil)
	assert.ErrorIs(t, err, httpapi.ErrNilScheduler)

	sched, err := scheduler.New(context.Background(), nil)
	require.NoError(t, err)
	_, err = httpapi.New(sched, nil)
	assert.ErrorIs(t, err, httpapi.ErrNilFilterEngine)
}

func TestIngest(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/notifications", map[string]any{
		"payload":  map[string]any{"title": "Security alert", "body": "suspicious login detected"},
		"owner_id": "user-1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.False(t, body["blocked"].(bool))
	id, err := uuid.Parse(body["id"].(string))
	require.NoError(t, err)

	entries := f.scheduler.GetScheduledForUser(context.Background(), "user-1")
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)

	// The classifier filled in category and priority.
	payload := body["payload"].(map[string]any)
	assert.Equal(t, "security", payload["category"])
	assert.NotEmpty(t, payload["priority"])
}

func TestIngestMissingOwner(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/notifications", map[string]any{
		"payload": map[string]any{"title": "hi"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIngestInvalidDelay(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/notifications", map[string]any{
		"payload":  map[string]any{"title": "hi"},
		"owner_id": "user-1",
		"delay":    "soon",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Empty(t, f.scheduler.GetScheduledForUser(context.Background(), "user-1"))
}

func TestIngestBlocked(t *testing.T) {
	t.Parallel()

	f := newFixture(t, filter.Rule{
		Name:    "mute marketing",
		Enabled: true,
		Conditions: []filter.Condition{
			{Field: "channel", Operator: filter.OperatorEquals, Value: "ideas"},
		},
		Actions: []filter.Action{{Type: filter.ActionBlock}},
	})

	resp := f.do(t, http.MethodPost, "/notifications", map[string]any{
		"payload":  map[string]any{"title": "new feature idea", "channel": "ideas"},
		"owner_id": "user-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.True(t, body["blocked"].(bool))
	assert.Empty(t, f.scheduler.GetScheduledForUser(context.Background(), "user-1"))
}

func TestIngestDelayActionDefersEntry(t *testing.T) {
	t.Parallel()

	f := newFixture(t, filter.Rule{
		Name:    "defer ideas",
		Enabled: true,
		Conditions: []filter.Condition{
			{Field: "channel", Operator: filter.OperatorEquals, Value: "ideas"},
		},
		Actions: []filter.Action{{Type: filter.ActionDelay, Delay: time.Hour}},
	})

	before := time.Now()
	resp := f.do(t, http.MethodPost, "/notifications", map[string]any{
		"payload":  map[string]any{"title": "later please", "channel": "ideas"},
		"owner_id": "user-1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	entries := f.scheduler.GetScheduledForUser(context.Background(), "user-1")
	require.Len(t, entries, 1)
	assert.True(t, entries[0].ScheduledAt.After(before.Add(59*time.Minute)))
}

func TestRecurring(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/notifications/recurring", map[string]any{
		"payload":         map[string]any{"title": "weekly digest", "tag": "digest"},
		"owner_id":        "user-1",
		"interval":        "168h",
		"max_occurrences": 3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Len(t, body["ids"], 3)
	assert.Len(t, f.scheduler.GetScheduledForUser(context.Background(), "user-1"), 3)
}

func TestRecurringInvalidInterval(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/notifications/recurring", map[string]any{
		"payload":  map[string]any{"title": "x"},
		"owner_id": "user-1",
		"interval": "weekly",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCancel(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	id, err := f.scheduler.ScheduleWithDelay(context.Background(), notification.Payload{Title: "x"}, "user-1", time.Hour)
	require.NoError(t, err)

	resp := f.do(t, http.MethodDelete, "/notifications/"+id.String(), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Already terminal now.
	resp = f.do(t, http.MethodDelete, "/notifications/"+id.String(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(t, http.MethodDelete, "/notifications/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListForOwnerWithStatusFilter(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.scheduler.ScheduleWithDelay(ctx, notification.Payload{Title: "a"}, "user-1", time.Hour)
	require.NoError(t, err)
	cancelled, err := f.scheduler.ScheduleWithDelay(ctx, notification.Payload{Title: "b"}, "user-1", time.Hour)
	require.NoError(t, err)
	f.scheduler.Cancel(ctx, cancelled)

	resp := f.do(t, http.MethodGet, "/users/user-1/notifications", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	all := decode[[]scheduler.Entry](t, resp)
	assert.Len(t, all, 2)

	resp = f.do(t, http.MethodGet, "/users/user-1/notifications?status=pending", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pending := decode[[]scheduler.Entry](t, resp)
	require.Len(t, pending, 1)
	assert.Equal(t, id, pending[0].ID)
}

func TestCancelAllForOwner(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	for range 2 {
		_, err := f.scheduler.ScheduleWithDelay(ctx, notification.Payload{}, "user-1", time.Hour)
		require.NoError(t, err)
	}

	resp := f.do(t, http.MethodDelete, "/users/user-1/notifications", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]int](t, resp)
	assert.Equal(t, 2, body["cancelled"])
}

func TestPendingAndStats(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.scheduler.ScheduleWithDelay(ctx, notification.Payload{Title: "x"}, "user-1", time.Hour)
	require.NoError(t, err)

	resp := f.do(t, http.MethodGet, "/notifications/pending", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pending := decode[[]scheduler.Entry](t, resp)
	assert.Len(t, pending, 1)

	resp = f.do(t, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[scheduler.Stats](t, resp)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Pending)
}

func TestClassifyEndpoint(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/classify", map[string]any{
		"title": "Спешна авария",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, "urgent", body["priority"])
}
