package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/slot"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/sse"
)

const (
	EventSlotChanged      = "slot.changed"
	EventActivitiesReload = "activities.reload"

	slotBoundaryInterval = time.Second
	reloadHintInterval   = 5 * time.Minute
)

// Broadcaster delivers an event to every open stream.
type Broadcaster interface {
	Broadcast(event sse.Event)
}

// SlotJobs tells connected clients when the current slot rolls over, so their
// grids re-reconcile, and periodically asks them to reload activity lists.
type SlotJobs struct {
	clock       *clock.Clock
	window      slot.Window
	broadcaster Broadcaster

	mu       sync.Mutex
	lastDate string
	lastSlot slot.Index
}

func NewSlotJobs(clk *clock.Clock, window slot.Window, broadcaster Broadcaster) *SlotJobs {
	return &SlotJobs{
		clock:       clk,
		window:      window,
		broadcaster: broadcaster,
		lastSlot:    -1,
	}
}

func (j *SlotJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("slot_boundary", slotBoundaryInterval, j.SlotBoundary)
	scheduler.AddJob("activities_reload_hint", reloadHintInterval, j.ReloadHint)
}

// SlotBoundary broadcasts a clock snapshot whenever the civil date or current
// slot differs from the previous tick. The first tick only records the position.
func (j *SlotJobs) SlotBoundary(ctx context.Context) error {
	now := j.clock.Now()
	date := j.clock.Today(now)
	current := j.clock.CurrentSlot(now)

	j.mu.Lock()
	first := j.lastSlot < 0
	changed := date != j.lastDate || current != j.lastSlot
	j.lastDate, j.lastSlot = date, current
	j.mu.Unlock()

	if first || !changed {
		return nil
	}

	snapshot := j.clock.Snapshot(now, j.window)
	j.broadcaster.Broadcast(sse.Event{Event: EventSlotChanged, Data: snapshot})
	slog.Info("Slot boundary crossed", "date", date, "current_slot", int(current), "label", snapshot.CurrentLabel)

	return nil
}

// ReloadHint asks clients to refetch lists they may hold stale.
func (j *SlotJobs) ReloadHint(ctx context.Context) error {
	now := j.clock.Now()
	j.broadcaster.Broadcast(sse.Event{
		Event: EventActivitiesReload,
		Data: map[string]string{
			"date": j.clock.Today(now),
			"at":   now.Format(time.RFC3339),
		},
	})
	return nil
}
