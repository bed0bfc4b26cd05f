package gantt

import (
	"fmt"
	"time"

	"github.com/nhle/foundry/internal/model"
)

// Granularity selects the timeline axis unit.
type Granularity int

const (
	Months Granularity = iota
	Quarters
)

// windowMonths is the span of the visible window in months. Twelve
// months and four quarters are the same span; the granularity only
// changes the axis columns.
const windowMonths = 12

// minWindowDays guards against a degenerate all-dates-equal input.
const minWindowDays = 30

// Window is the visible calendar range rendered across the timeline's
// horizontal axis.
type Window struct {
	Start       model.Date
	End         model.Date
	Granularity Granularity
}

// Column is one axis label boundary within a window.
type Column struct {
	Label string
	Start model.Date
}

// ComputeWindow derives the visible window from the schedule: it starts
// one unit before the earliest relevant date (today or any task
// boundary) and spans twelve months.
func ComputeWindow(
	tasks []model.Task,
	today model.Date,
	g Granularity,
) Window {
	first := today
	for _, t := range tasks {
		if t.Start.Before(first.Time) {
			first = t.Start
		}
		if t.End.Before(first.Time) {
			first = t.End
		}
	}

	start := floorToUnit(first, g)
	if g == Quarters {
		start = model.Date{Time: start.AddDate(0, -3, 0)}
	} else {
		start = model.Date{Time: start.AddDate(0, -1, 0)}
	}

	end := model.Date{Time: start.AddDate(0, windowMonths, 0)}
	if start.DaysUntil(end) < minWindowDays {
		end = model.Date{Time: start.AddDate(0, 6, 0)}
	}

	return Window{Start: start, End: end, Granularity: g}
}

// TotalDays returns the whole-day span of the window.
func (w Window) TotalDays() int {
	return w.Start.DaysUntil(w.End)
}

// Columns returns evenly spaced month or quarter boundaries across the
// window, used for axis labels.
func (w Window) Columns() []Column {
	step := 1
	if w.Granularity == Quarters {
		step = 3
	}

	var cols []Column
	for t := w.Start.Time; t.Before(w.End.Time); t = t.AddDate(0, step, 0) {
		d := model.Date{Time: t}
		cols = append(cols, Column{
			Label: columnLabel(d, w.Granularity),
			Start: d,
		})
	}
	return cols
}

// Placement computes a task bar's horizontal position as percentages of
// the track. The 0.5% width floor keeps a sub-day bar visible and
// clickable.
func (w Window) Placement(t model.Task) (leftPct, widthPct float64) {
	total := float64(w.TotalDays())

	leftPct = float64(w.Start.DaysUntil(t.Start)) / total * 100
	leftPct = clamp(leftPct, 0, 100)

	widthPct = float64(t.Start.DaysUntil(t.End)) / total * 100
	widthPct = clamp(widthPct, 0.5, 100-leftPct)

	return leftPct, widthPct
}

// TodayPercent returns the horizontal position of the current-date
// marker, clamped to the track.
func (w Window) TodayPercent(today model.Date) float64 {
	pct := float64(w.Start.DaysUntil(today)) / float64(w.TotalDays()) * 100
	return clamp(pct, 0, 100)
}

// floorToUnit truncates a date to the start of its month or quarter.
func floorToUnit(d model.Date, g Granularity) model.Date {
	month := d.Month()
	if g == Quarters {
		month = time.Month((int(month-1)/3)*3 + 1)
	}
	return model.NewDate(d.Year(), month, 1)
}

// columnLabel formats an axis label for a column boundary.
func columnLabel(d model.Date, g Granularity) string {
	if g == Quarters {
		quarter := (int(d.Month())-1)/3 + 1
		return fmt.Sprintf("Q%d %d", quarter, d.Year())
	}
	return d.Format("Jan 2006")
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
