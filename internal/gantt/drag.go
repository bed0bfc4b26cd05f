package gantt

import (
	"math"

	"github.com/nhle/foundry/internal/model"
)

// DragKind is which edge or body of a task bar is being manipulated.
type DragKind int

const (
	DragMove DragKind = iota
	DragResizeStart
	DragResizeEnd
)

// Scale maps horizontal track cells to calendar days for the current
// window.
type Scale struct {
	// TrackWidth is the width of the bar track in cells.
	TrackWidth int

	// TotalDays is the visible window span in days.
	TotalDays int
}

// DeltaDays converts a horizontal cell delta into a whole-day delta.
func (s Scale) DeltaDays(deltaX int) int {
	if s.TrackWidth <= 0 || s.TotalDays <= 0 {
		return 0
	}
	cellsPerDay := float64(s.TrackWidth) / float64(s.TotalDays)
	return int(math.Round(float64(deltaX) / cellsPerDay))
}

// Change is the single committed mutation produced by a drag gesture:
// the task at Section/Index is to be replaced by Task.
type Change struct {
	Section int
	Index   int
	Task    model.Task
}

// Controller is the drag interaction state machine. It never touches
// shared state: pointer movement only updates the local candidate
// window, and at most one Change is produced, on release. Clamping
// happens every frame, so the candidate stays self-consistent even
// under erratic movement.
type Controller struct {
	active  bool
	kind    DragKind
	task    model.Task
	section int
	index   int
	scale   Scale
	originX int

	origStart model.Date
	origEnd   model.Date
	candStart model.Date
	candEnd   model.Date
	lastDelta int
}

// Begin enters the dragging state. It refuses tasks without both dates
// set: an undated bar cannot be dragged.
func (c *Controller) Begin(
	task model.Task,
	section, index int,
	kind DragKind,
	x int,
	scale Scale,
) bool {
	if task.Start.IsZero() || task.End.IsZero() {
		return false
	}

	c.active = true
	c.kind = kind
	c.task = task
	c.section = section
	c.index = index
	c.scale = scale
	c.originX = x
	c.origStart = task.Start
	c.origEnd = task.End
	c.candStart = task.Start
	c.candEnd = task.End
	c.lastDelta = 0
	return true
}

// Dragging reports whether a gesture is in progress.
func (c *Controller) Dragging() bool {
	return c.active
}

// MoveTo recomputes the candidate window from the pointer's current x
// coordinate. An unchanged day delta short-circuits so pointer noise
// does not trigger re-renders.
func (c *Controller) MoveTo(x int) bool {
	if !c.active {
		return false
	}

	delta := c.scale.DeltaDays(x - c.originX)
	if delta == c.lastDelta {
		return false
	}
	c.lastDelta = delta

	switch c.kind {
	case DragMove:
		c.candStart = c.origStart.AddDays(delta)
		c.candEnd = c.origEnd.AddDays(delta)

	case DragResizeStart:
		start := c.origStart.AddDays(delta)
		if start.After(c.origEnd.Time) {
			start = c.origEnd
		}
		c.candStart = start
		c.candEnd = c.origEnd

	case DragResizeEnd:
		end := c.origEnd.AddDays(delta)
		if end.Before(c.origStart.Time) {
			end = c.origStart
		}
		c.candStart = c.origStart
		c.candEnd = end
	}

	return true
}

// Candidate returns the task as it would be committed right now, for
// rendering the in-flight bar.
func (c *Controller) Candidate() (model.Task, bool) {
	if !c.active {
		return model.Task{}, false
	}
	return c.candidateTask(), true
}

// Release leaves the dragging state. It returns the committed change,
// or ok=false when nothing moved or no gesture was active.
func (c *Controller) Release() (Change, bool) {
	if !c.active {
		return Change{}, false
	}
	c.active = false

	if c.candStart.Equal(c.origStart.Time) && c.candEnd.Equal(c.origEnd.Time) {
		return Change{}, false
	}

	return Change{
		Section: c.section,
		Index:   c.index,
		Task:    c.candidateTask(),
	}, true
}

// Cancel abandons the gesture without producing a change.
func (c *Controller) Cancel() {
	c.active = false
}

// candidateTask applies the candidate window to a copy of the dragged
// task. The clamped window may be zero-width (resize dragged past the
// opposite edge); duration still floors at one day.
func (c *Controller) candidateTask() model.Task {
	t := c.task
	t.Start = c.candStart
	t.End = c.candEnd
	t.DurationDays = c.candStart.DaysUntil(c.candEnd)
	if t.DurationDays < 1 {
		t.DurationDays = 1
	}
	return t
}
