package activity

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/hris-activity-go/internal/domain/activity"
)

var csvHeader = []string{
	"Date", "Time", "Employee", "ID Card", "Department", "Region",
	"Branch", "Location", "Description", "Status", "Created", "Updated",
}

// WriteCSV writes one row per activity. Fields are quoted as needed, so commas,
// quotes and newlines in descriptions or names survive the round trip.
func WriteCSV(w io.Writer, records []activity.Activity, loc *time.Location) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Date,
			r.TimeInterval,
			deref(r.EmployeeName),
			deref(r.IDCard),
			deref(r.Department),
			deref(r.Region),
			deref(r.Branch),
			deref(r.Location),
			r.Description,
			string(r.Status),
			formatTimestamp(r.CreatedAt, loc),
			formatTimestamp(r.UpdatedAt, loc),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for activity %s: %w", r.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTimestamp(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format("2006-01-02 15:04:05")
}
