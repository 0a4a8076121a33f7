package catalog

import (
	"errors"
	"fmt"
	"time"
)

// TimeOfDay is minutes after local midnight.
type TimeOfDay int

func At(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

func TimeOfDayOf(t time.Time) TimeOfDay {
	return At(t.Hour(), t.Minute())
}

// ParseTimeOfDay parses "HH:MM" (24h).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return At(t.Hour(), t.Minute()), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Window is a daily serving window [Start, End).
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

var ErrInvalidWindow = errors.New("window start must be before end")

func (w Window) Validate() error {
	if w.Start < 0 || w.End > At(24, 0) || w.Start >= w.End {
		return ErrInvalidWindow
	}
	return nil
}

// NotStarted reports whether the window has not opened yet on t's day.
// t must already be in the mess location.
func (w Window) NotStarted(t time.Time) bool {
	return TimeOfDayOf(t) < w.Start
}

func (w Window) Contains(t time.Time) bool {
	tod := TimeOfDayOf(t)
	return tod >= w.Start && tod < w.End
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}

// DefaultWindows are the mess's standard serving windows in menu order.
func DefaultWindows() []Category {
	return []Category{
		{Name: "Breakfast", Window: Window{Start: At(7, 0), End: At(11, 0)}},
		{Name: "Lunch", Window: Window{Start: At(12, 0), End: At(15, 0)}},
		{Name: "Snacks", Window: Window{Start: At(16, 0), End: At(18, 0)}},
		{Name: "Dinner", Window: Window{Start: At(19, 0), End: At(21, 0)}},
	}
}
