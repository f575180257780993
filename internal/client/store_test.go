package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-activity-go/internal/domain/activity"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/slot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listCall struct {
	filter activity.ActivityFilter
	reply  chan listReply
}

type listReply struct {
	resp activity.ListActivityResponse
	err  error
}

// fakeAPI lets a test decide when and how each request is answered.
type fakeAPI struct {
	mu       sync.Mutex
	lists    chan listCall
	createFn func(activity.CreateActivityRequest) (activity.ActivityResponse, error)
	updateFn func(activity.UpdateActivityRequest) (activity.ActivityResponse, error)
	deleteFn func(string) error
	searches []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{lists: make(chan listCall, 8)}
}

func (f *fakeAPI) ListMyActivities(ctx context.Context, filter activity.ActivityFilter) (activity.ListActivityResponse, error) {
	f.mu.Lock()
	if filter.Search != nil {
		f.searches = append(f.searches, *filter.Search)
	}
	f.mu.Unlock()

	call := listCall{filter: filter, reply: make(chan listReply, 1)}
	f.lists <- call
	select {
	case r := <-call.reply:
		return r.resp, r.err
	case <-ctx.Done():
		return activity.ListActivityResponse{}, ctx.Err()
	}
}

func (f *fakeAPI) CreateActivity(_ context.Context, req activity.CreateActivityRequest) (activity.ActivityResponse, error) {
	return f.createFn(req)
}

func (f *fakeAPI) UpdateActivity(_ context.Context, req activity.UpdateActivityRequest) (activity.ActivityResponse, error) {
	return f.updateFn(req)
}

func (f *fakeAPI) DeleteActivity(_ context.Context, id string) error {
	return f.deleteFn(id)
}

func (f *fakeAPI) recordedSearches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searches...)
}

func wire(id, interval, description string) activity.ActivityResponse {
	return activity.ActivityResponse{
		ID:           id,
		EmployeeID:   "emp-1",
		Date:         "2025-01-15",
		TimeInterval: interval,
		Description:  description,
		Status:       "ongoing",
		CreatedAt:    "2025-01-15T09:00:00Z",
		UpdatedAt:    "2025-01-15T09:00:00Z",
	}
}

func newTestStore(t *testing.T, api API, opts ...StoreOption) (*Store, time.Time) {
	t.Helper()

	loc, err := time.LoadLocation(clock.DefaultTimezone)
	require.NoError(t, err)
	now := time.Date(2025, 1, 15, 14, 15, 0, 0, loc)

	clk, err := clock.New(clock.DefaultTimezone, clock.WithNow(func() time.Time { return now }))
	require.NoError(t, err)

	s := NewStore(api, clk, slot.DefaultWindow, opts...)
	t.Cleanup(s.Close)
	return s, now
}

// seed loads records through a reload answered immediately.
func seed(t *testing.T, s *Store, api *fakeAPI, records ...activity.ActivityResponse) {
	t.Helper()

	done := make(chan error, 1)
	go func() { done <- s.Reload(context.Background(), "") }()

	call := <-api.lists
	call.reply <- listReply{resp: activity.ListActivityResponse{Activities: records}}
	require.NoError(t, <-done)
}

func ids(records []activity.Activity) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestStore_ReloadQueriesCurrentDate(t *testing.T) {
	api := newFakeAPI()
	s, _ := newTestStore(t, api)

	assert.Equal(t, "2025-01-15", s.Date())

	done := make(chan error, 1)
	go func() { done <- s.Reload(context.Background(), "") }()

	call := <-api.lists
	require.NotNil(t, call.filter.Date)
	assert.Equal(t, "2025-01-15", *call.filter.Date)
	assert.Equal(t, reloadLimit, call.filter.Limit)
	assert.Nil(t, call.filter.Search)

	call.reply <- listReply{resp: activity.ListActivityResponse{
		Activities: []activity.ActivityResponse{wire("a1", "14:00 - 14:30", "Standup")},
	}}
	require.NoError(t, <-done)
	assert.Equal(t, []string{"a1"}, ids(s.Records()))
}

func TestStore_StaleReloadDiscarded(t *testing.T) {
	api := newFakeAPI()
	s, _ := newTestStore(t, api)

	first := make(chan error, 1)
	go func() { first <- s.Reload(context.Background(), "2025-01-14") }()
	older := <-api.lists

	second := make(chan error, 1)
	go func() { second <- s.Reload(context.Background(), "2025-01-15") }()
	newer := <-api.lists

	// The newer request answers first.
	newer.reply <- listReply{resp: activity.ListActivityResponse{
		Activities: []activity.ActivityResponse{wire("new", "10:00 - 10:30", "Planning")},
	}}
	require.NoError(t, <-second)

	older.reply <- listReply{resp: activity.ListActivityResponse{
		Activities: []activity.ActivityResponse{wire("old", "09:00 - 09:30", "Yesterday")},
	}}
	require.NoError(t, <-first)

	assert.Equal(t, []string{"new"}, ids(s.Records()))
	assert.Equal(t, "2025-01-15", s.Date())
}

func TestStore_ReloadErrorKeepsState(t *testing.T) {
	api := newFakeAPI()
	s, _ := newTestStore(t, api)
	seed(t, s, api, wire("a1", "14:00 - 14:30", "Standup"))

	done := make(chan error, 1)
	go func() { done <- s.Reload(context.Background(), "") }()
	call := <-api.lists
	call.reply <- listReply{err: errors.New("network down")}

	err := <-done
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network down")
	assert.Equal(t, []string{"a1"}, ids(s.Records()))
}

func TestStore_CreateOptimisticThenConfirmed(t *testing.T) {
	api := newFakeAPI()
	s, now := newTestStore(t, api)
	seed(t, s, api)

	var seenDuringRequest []activity.Activity
	api.createFn = func(req activity.CreateActivityRequest) (activity.ActivityResponse, error) {
		seenDuringRequest = s.Records()
		return wire("srv-1", req.TimeInterval, req.Description), nil
	}

	created, err := s.Create(context.Background(), activity.CreateActivityRequest{
		TimeInterval: "14:00 - 14:30",
		Description:  "Code review",
	})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", created.ID)

	require.Len(t, seenDuringRequest, 1)
	assert.Equal(t, "pending-1", seenDuringRequest[0].ID)
	assert.Equal(t, activity.StatusOngoing, seenDuringRequest[0].Status)

	assert.Equal(t, []string{"srv-1"}, ids(s.Records()))

	table := s.SlotTable(now)
	assert.Equal(t, 1, table.TotalActivities)
	assert.Equal(t, activity.SlotPresent, table.Slots[28-16].Status)
}

func TestStore_CreateFailureReverts(t *testing.T) {
	api := newFakeAPI()
	s, _ := newTestStore(t, api)
	seed(t, s, api, wire("a1", "14:00 - 14:30", "Standup"))

	api.createFn = func(req activity.CreateActivityRequest) (activity.ActivityResponse, error) {
		assert.Len(t, s.Records(), 2)
		return activity.ActivityResponse{}, &APIError{Status: 409, Code: "CONFLICT"}
	}

	_, err := s.Create(context.Background(), activity.CreateActivityRequest{
		TimeInterval: "14:00 - 14:30",
		Description:  "Standup",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, activity.ErrTimeSlotConflict)
	assert.Equal(t, []string{"a1"}, ids(s.Records()))
}

func TestStore_UpdateOptimisticAndRevert(t *testing.T) {
	api := newFakeAPI()
	s, _ := newTestStore(t, api)
	seed(t, s, api, wire("a1", "14:00 - 14:30", "Standup"))

	calls := 0
	api.updateFn = func(req activity.UpdateActivityRequest) (activity.ActivityResponse, error) {
		calls++
		records := s.Records()
		require.Len(t, records, 1)
		assert.Equal(t, "Standup notes", records[0].Description)
		return activity.ActivityResponse{}, errors.New("timeout")
	}

	desc := "Standup notes"
	_, err := s.Update(context.Background(), activity.UpdateActivityRequest{ID: "a1", Description: &desc})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "Standup", s.Records()[0].Description)

	api.updateFn = func(req activity.UpdateActivityRequest) (activity.ActivityResponse, error) {
		resp := wire("a1", "14:00 - 14:30", *req.Description)
		resp.Status = "completed"
		return resp, nil
	}
	updated, err := s.Update(context.Background(), activity.UpdateActivityRequest{ID: "a1", Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, activity.StatusCompleted, updated.Status)
	assert.Equal(t, activity.StatusCompleted, s.Records()[0].Status)
}

func TestStore_DeleteOptimisticAndRevert(t *testing.T) {
	api := newFakeAPI()
	s, _ := newTestStore(t, api)
	seed(t, s, api, wire("a1", "14:00 - 14:30", "Standup"), wire("a2", "13:00 - 13:30", "Lunch"))

	api.deleteFn = func(id string) error {
		assert.Equal(t, []string{"a2"}, ids(s.Records()))
		return &APIError{Status: 423, Code: "LOCKED"}
	}
	err := s.Delete(context.Background(), "a1")
	assert.ErrorIs(t, err, activity.ErrActivityLocked)
	assert.Equal(t, []string{"a1", "a2"}, ids(s.Records()))

	api.deleteFn = func(id string) error { return nil }
	require.NoError(t, s.Delete(context.Background(), "a1"))
	assert.Equal(t, []string{"a2"}, ids(s.Records()))
}

func TestStore_SetSearchDebounced(t *testing.T) {
	api := newFakeAPI()
	s, _ := newTestStore(t, api, WithSearchDebounce(20*time.Millisecond))

	s.SetSearch("st")
	s.SetSearch("stand")
	s.SetSearch("  standup ")

	select {
	case call := <-api.lists:
		require.NotNil(t, call.filter.Search)
		assert.Equal(t, "standup", *call.filter.Search)
		call.reply <- listReply{}
	case <-time.After(2 * time.Second):
		t.Fatal("debounced reload never ran")
	}

	assert.Eventually(t, func() bool { return s.Search() == "standup" }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"standup"}, api.recordedSearches())
}

func TestStore_SearchReloadErrorReported(t *testing.T) {
	api := newFakeAPI()
	errs := make(chan error, 1)
	s, _ := newTestStore(t, api,
		WithSearchDebounce(10*time.Millisecond),
		WithErrorHandler(func(err error) { errs <- err }),
	)

	s.SetSearch("x")
	call := <-api.lists
	call.reply <- listReply{err: errors.New("boom")}

	select {
	case err := <-errs:
		assert.Contains(t, err.Error(), "boom")
	case <-time.After(2 * time.Second):
		t.Fatal("error handler not called")
	}
}

func TestStore_CreateWithReloadInFlight(t *testing.T) {
	api := newFakeAPI()
	s, now := newTestStore(t, api)
	seed(t, s, api)

	api.createFn = func(req activity.CreateActivityRequest) (activity.ActivityResponse, error) {
		created := wire("act-1", req.TimeInterval, req.Description)
		// The server already committed the record when this reload reads it.
		seed(t, s, api, created)
		return created, nil
	}

	_, err := s.Create(context.Background(), activity.CreateActivityRequest{
		TimeInterval: "14:00 - 14:30",
		Description:  "Code review",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"act-1"}, ids(s.Records()))

	table := s.SlotTable(now)
	assert.Len(t, table.Slots[28-16].Activities, 1)
	assert.Equal(t, 1, table.TotalActivities)

	// The confirmed state holds one copy too, so a later revert cannot resurrect a duplicate.
	api.deleteFn = func(string) error { return errors.New("offline") }
	require.Error(t, s.Delete(context.Background(), "act-1"))
	assert.Equal(t, []string{"act-1"}, ids(s.Records()))
}

func TestStore_DeleteWithReloadInFlight(t *testing.T) {
	api := newFakeAPI()
	s, _ := newTestStore(t, api)
	seed(t, s, api, wire("a1", "14:00 - 14:30", "Standup"), wire("a2", "13:00 - 13:30", "Lunch"))

	api.deleteFn = func(id string) error {
		// The reload reads the row before the server removes it.
		seed(t, s, api, wire("a1", "14:00 - 14:30", "Standup"), wire("a2", "13:00 - 13:30", "Lunch"))
		return nil
	}

	require.NoError(t, s.Delete(context.Background(), "a1"))
	assert.Equal(t, []string{"a2"}, ids(s.Records()))
}

func TestStore_ReloadWalksAllPages(t *testing.T) {
	api := newFakeAPI()
	s, _ := newTestStore(t, api)

	total := reloadLimit + 20
	all := make([]activity.ActivityResponse, 0, total)
	for i := 0; i < total; i++ {
		all = append(all, wire(fmt.Sprintf("a%03d", i), "09:00 - 09:30", fmt.Sprintf("task %d", i)))
	}

	done := make(chan error, 1)
	go func() { done <- s.Reload(context.Background(), "") }()

	first := <-api.lists
	assert.Equal(t, 1, first.filter.Page)
	first.reply <- listReply{resp: activity.ListActivityResponse{TotalCount: int64(total), Activities: all[:reloadLimit]}}

	second := <-api.lists
	assert.Equal(t, 2, second.filter.Page)
	second.reply <- listReply{resp: activity.ListActivityResponse{TotalCount: int64(total), Activities: all[reloadLimit:]}}

	require.NoError(t, <-done)
	records := s.Records()
	require.Len(t, records, total)
	assert.Equal(t, "a000", records[0].ID)
	assert.Equal(t, fmt.Sprintf("a%03d", total-1), records[total-1].ID)
}

func TestStore_ReloadPageErrorKeepsState(t *testing.T) {
	api := newFakeAPI()
	s, _ := newTestStore(t, api)
	seed(t, s, api, wire("a1", "14:00 - 14:30", "Standup"))

	full := make([]activity.ActivityResponse, reloadLimit)
	for i := range full {
		full[i] = wire(fmt.Sprintf("b%03d", i), "10:00 - 10:30", "Batch")
	}

	done := make(chan error, 1)
	go func() { done <- s.Reload(context.Background(), "") }()

	(<-api.lists).reply <- listReply{resp: activity.ListActivityResponse{TotalCount: 150, Activities: full}}
	(<-api.lists).reply <- listReply{err: errors.New("network down")}

	require.Error(t, <-done)
	assert.Equal(t, []string{"a1"}, ids(s.Records()))
}
