package slot

import (
	"fmt"
	"strings"
)

// Window is the configured range of loggable slots, [Start, End).
type Window struct {
	Start Index `json:"start" yaml:"start"`
	End   Index `json:"end" yaml:"end"`
}

// DefaultWindow covers 08:00-17:30.
var DefaultWindow = Window{Start: 16, End: 35}

func (w Window) Validate() error {
	if w.Start < 0 || w.End > SlotsPerDay || w.Start >= w.End {
		return ErrInvalidWindow
	}
	return nil
}

func (w Window) Contains(i Index) bool {
	return i >= w.Start && i < w.End
}

func (w Window) Len() int {
	return int(w.End - w.Start)
}

// Indexes lists every slot in the window in ascending order.
func (w Window) Indexes() []Index {
	out := make([]Index, 0, w.Len())
	for i := w.Start; i < w.End; i++ {
		out = append(out, i)
	}
	return out
}

// String renders the window as "HH:MM-HH:MM".
func (w Window) String() string {
	sh, sm := w.Start.Start()
	eh, em := (w.End - 1).End()
	return fmt.Sprintf("%02d:%02d-%02d:%02d", sh, sm, eh, em)
}

// ParseWindow reads "08:00-17:30". Both bounds must sit on a slot boundary;
// an end of 00:00 means the end of the day.
func ParseWindow(s string) (Window, error) {
	startStr, endStr, ok := strings.Cut(s, "-")
	if !ok {
		return Window{}, ErrInvalidWindow
	}
	sh, sm, err := parseClock(startStr)
	if err != nil {
		return Window{}, fmt.Errorf("window start: %w", err)
	}
	eh, em, err := parseClock(endStr)
	if err != nil {
		return Window{}, fmt.Errorf("window end: %w", err)
	}
	if sm%Minutes != 0 || em%Minutes != 0 {
		return Window{}, ErrInvalidWindow
	}

	w := Window{Start: FromTimeOfDay(sh, sm), End: FromTimeOfDay(eh, em)}
	if w.End == 0 {
		w.End = SlotsPerDay
	}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}
