package client

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-activity-go/internal/domain/activity"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/slot"
	activityService "github.com/cmlabs-hris/hris-activity-go/internal/service/activity"
)

const (
	// reloadLimit is the largest page the API serves. Reload walks every page.
	reloadLimit = 100
	// maxReloadPages bounds a reload against a server that never runs out of pages.
	maxReloadPages = 50
)

// API is the subset of Client the Store needs.
type API interface {
	ListMyActivities(ctx context.Context, filter activity.ActivityFilter) (activity.ListActivityResponse, error)
	CreateActivity(ctx context.Context, req activity.CreateActivityRequest) (activity.ActivityResponse, error)
	UpdateActivity(ctx context.Context, req activity.UpdateActivityRequest) (activity.ActivityResponse, error)
	DeleteActivity(ctx context.Context, id string) error
}

// Store holds one session's view of a day of activities. The confirmed list
// mirrors the last server state; the view may additionally carry optimistic
// edits that are either confirmed or rolled back once the server answers.
type Store struct {
	api    API
	clock  *clock.Clock
	window slot.Window
	logger *slog.Logger
	onErr  func(error)

	searchDelay time.Duration
	debouncer   *Debouncer

	mu        sync.RWMutex
	date      string
	search    string
	confirmed []activity.Activity
	view      []activity.Activity
	seq       uint64
	applied   uint64
	tempSeq   int
}

type StoreOption func(*Store)

func WithStoreLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = l
	}
}

// WithErrorHandler receives errors from reloads the Store starts on its own,
// such as the one after a debounced search.
func WithErrorHandler(fn func(error)) StoreOption {
	return func(s *Store) {
		s.onErr = fn
	}
}

// WithSearchDebounce overrides DefaultDebounce.
func WithSearchDebounce(d time.Duration) StoreOption {
	return func(s *Store) {
		s.searchDelay = d
	}
}

func NewStore(api API, clk *clock.Clock, window slot.Window, opts ...StoreOption) *Store {
	s := &Store{
		api:         api,
		clock:       clk,
		window:      window,
		logger:      slog.Default(),
		searchDelay: DefaultDebounce,
		date:        clk.Today(clk.Now()),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.onErr == nil {
		s.onErr = func(err error) {
			s.logger.Warn("Activity reload failed", "error", err)
		}
	}
	s.debouncer = NewDebouncer(s.searchDelay, s.commitSearch)
	return s
}

// Close stops any pending debounced search.
func (s *Store) Close() {
	s.debouncer.Stop()
}

func (s *Store) Date() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.date
}

func (s *Store) Search() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.search
}

// Records returns a copy of the current view, optimistic edits included.
func (s *Store) Records() []activity.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneActivities(s.view)
}

// SlotTable reconciles the current view against the work window as of now.
func (s *Store) SlotTable(now time.Time) activity.SlotTable {
	s.mu.RLock()
	date := s.date
	records := cloneActivities(s.view)
	s.mu.RUnlock()

	return activityService.BuildSlotTable(activityService.ReconcileInput{
		Date:    date,
		Window:  s.window,
		Clock:   s.clock,
		Now:     now,
		Records: records,
		Logger:  s.logger,
	})
}

// Reload fetches the records of date ("" keeps the current date). A response
// that arrives after a newer reload has already been applied is discarded.
func (s *Store) Reload(ctx context.Context, date string) error {
	s.mu.Lock()
	if date != "" {
		s.date = date
	}
	s.seq++
	seq := s.seq
	filter := activity.ActivityFilter{
		Date:      ptr(s.date),
		Limit:     reloadLimit,
		SortBy:    "created_at",
		SortOrder: "asc",
	}
	if s.search != "" {
		filter.Search = ptr(s.search)
	}
	s.mu.Unlock()

	var records []activity.Activity
	for page := 1; page <= maxReloadPages; page++ {
		filter.Page = page
		resp, err := s.api.ListMyActivities(ctx, filter)
		if err != nil {
			return fmt.Errorf("reload activities: %w", err)
		}
		for _, r := range resp.Activities {
			records = append(records, r.Entity())
		}
		if len(resp.Activities) < reloadLimit || int64(len(records)) >= resp.TotalCount {
			break
		}
	}
	if records == nil {
		records = []activity.Activity{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.applied {
		s.logger.Debug("Discarding stale activity reload", "seq", seq, "applied", s.applied)
		return nil
	}
	s.applied = seq
	s.confirmed = records
	s.view = cloneActivities(records)
	return nil
}

// SetSearch updates the search text after the debounce delay and reloads.
func (s *Store) SetSearch(text string) {
	s.debouncer.Trigger(strings.TrimSpace(text))
}

func (s *Store) commitSearch(text string) {
	s.mu.Lock()
	s.search = text
	s.mu.Unlock()

	if err := s.Reload(context.Background(), ""); err != nil {
		s.onErr(err)
	}
}

// Create shows the new activity immediately and replaces it with the server's
// record on success. On any error the view returns to the confirmed state.
func (s *Store) Create(ctx context.Context, req activity.CreateActivityRequest) (activity.Activity, error) {
	s.mu.Lock()
	s.tempSeq++
	tempID := fmt.Sprintf("pending-%d", s.tempSeq)
	now := s.clock.Now()
	date := req.Date
	if date == "" {
		date = s.clock.Today(now)
	}
	status := activity.Status(strings.ToLower(strings.TrimSpace(req.Status)))
	if status == "" {
		status = activity.StatusOngoing
	}
	if date == s.date {
		s.view = append(s.view, activity.Activity{
			ID:           tempID,
			Date:         date,
			TimeInterval: req.TimeInterval,
			Description:  req.Description,
			Status:       status,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	s.mu.Unlock()

	resp, err := s.api.CreateActivity(ctx, req)
	if err != nil {
		s.rollback()
		return activity.Activity{}, err
	}

	created := resp.Entity()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = removeByID(s.view, tempID)
	if created.Date == s.date {
		// A reload applied during the request may already hold the record.
		s.confirmed = upsertByID(s.confirmed, created)
		s.view = upsertByID(s.view, created)
	}
	return created, nil
}

// Update applies the change to the view before the server confirms it.
func (s *Store) Update(ctx context.Context, req activity.UpdateActivityRequest) (activity.Activity, error) {
	s.mu.Lock()
	for i := range s.view {
		if s.view[i].ID != req.ID {
			continue
		}
		if req.TimeInterval != nil {
			s.view[i].TimeInterval = *req.TimeInterval
		}
		if req.Description != nil {
			s.view[i].Description = *req.Description
		}
		if req.Status != nil {
			s.view[i].Status = activity.Status(strings.ToLower(*req.Status))
		}
	}
	s.mu.Unlock()

	resp, err := s.api.UpdateActivity(ctx, req)
	if err != nil {
		s.rollback()
		return activity.Activity{}, err
	}

	updated := resp.Entity()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmed = replaceByID(s.confirmed, updated)
	s.view = replaceByID(s.view, updated)
	return updated, nil
}

// Delete hides the activity at once and restores it if the server refuses.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	s.view = removeByID(s.view, id)
	s.mu.Unlock()

	if err := s.api.DeleteActivity(ctx, id); err != nil {
		s.rollback()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmed = removeByID(s.confirmed, id)
	s.view = removeByID(s.view, id)
	return nil
}

func (s *Store) rollback() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = cloneActivities(s.confirmed)
}

func cloneActivities(in []activity.Activity) []activity.Activity {
	out := make([]activity.Activity, len(in))
	copy(out, in)
	return out
}

func removeByID(in []activity.Activity, id string) []activity.Activity {
	out := in[:0:0]
	for _, a := range in {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

func replaceByID(in []activity.Activity, a activity.Activity) []activity.Activity {
	out := cloneActivities(in)
	for i := range out {
		if out[i].ID == a.ID {
			out[i] = a
		}
	}
	return out
}

func upsertByID(in []activity.Activity, a activity.Activity) []activity.Activity {
	for _, existing := range in {
		if existing.ID == a.ID {
			return replaceByID(in, a)
		}
	}
	return append(cloneActivities(in), a)
}

func ptr(s string) *string {
	return &s
}
