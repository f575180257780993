package activity

import (
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-activity-go/internal/domain/activity"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/slot"
)

// ReconcileInput is everything BuildSlotTable depends on. Records may hold any
// dates; only those equal to Date are reconciled. Date must already be a civil
// date in the clock's timezone.
type ReconcileInput struct {
	Date    string
	Window  slot.Window
	Clock   *clock.Clock
	Now     time.Time
	Records []activity.Activity
	Logger  *slog.Logger
}

// BuildSlotTable merges the sparse record list against every slot of the work
// window. It performs no I/O and does not modify Records, so identical input
// always yields an identical table.
func BuildSlotTable(in ReconcileInput) activity.SlotTable {
	logger := in.Logger
	if logger == nil {
		logger = slog.Default()
	}

	today := in.Clock.Today(in.Now)
	current := in.Clock.CurrentSlot(in.Now)
	isToday := in.Date == today
	isPastDate := in.Date < today

	matched := make([]activity.Activity, 0, len(in.Records))
	for _, r := range in.Records {
		if r.Date == in.Date {
			matched = append(matched, r)
		}
	}
	// Ties keep input order.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	table := activity.SlotTable{
		Date:        in.Date,
		Timezone:    in.Clock.Timezone(),
		IsToday:     isToday,
		CurrentSlot: current,
		WorkWindow:  in.Window,
		Slots:       make([]activity.SlotState, 0, in.Window.Len()),
	}

	grouped := make(map[slot.Index][]activity.ActivityResponse, in.Window.Len())
	for _, r := range matched {
		idx, err := slot.FromLabel(r.TimeInterval)
		if err != nil {
			logger.Warn("Excluding activity with unparsable time interval",
				"activity_id", r.ID, "time_interval", r.TimeInterval, "error", err)
			table.Excluded++
			continue
		}
		if !in.Window.Contains(idx) {
			logger.Debug("Excluding activity outside work window",
				"activity_id", r.ID, "slot_index", int(idx), "work_window", in.Window.String())
			table.Excluded++
			continue
		}
		grouped[idx] = append(grouped[idx], activity.NewActivityResponse(r))
	}

	for _, idx := range in.Window.Indexes() {
		state := activity.SlotState{
			SlotIndex:  idx,
			TimeLabel:  slot.Label(idx),
			Status:     activity.SlotEmpty,
			Activities: []activity.ActivityResponse{},
		}

		switch acts := grouped[idx]; {
		case len(acts) > 0:
			state.Status = activity.SlotPresent
			state.Activities = acts
			for _, a := range acts {
				table.StatusCounts.Add(activity.Status(a.Status))
			}
			table.TotalActivities += len(acts)
		case isPastDate:
			state.Status = activity.SlotAbsent
		case isToday && idx < current:
			state.Status = activity.SlotAbsent
			table.MissedSlotCount++
		}

		table.Slots = append(table.Slots, state)
	}

	return table
}

// ComputeStats counts records by status over the full list, independent of any grid.
func ComputeStats(records []activity.Activity) activity.StatsResponse {
	var stats activity.StatsResponse
	for _, r := range records {
		stats.StatusCounts.Add(r.Status)
	}
	stats.TotalActivities = len(records)
	return stats
}
