// Package timeline renders a roadmap document as an interactive Gantt
// chart. Bars can be rescheduled by dragging with the mouse or nudged
// with the keyboard; every reschedule is reported to the parent model
// as a TaskRescheduledMsg.
package timeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/nhle/foundry/internal/gantt"
	"github.com/nhle/foundry/internal/keys"
	"github.com/nhle/foundry/internal/model"
	"github.com/nhle/foundry/internal/theme"
)

// TaskRescheduledMsg is sent when a bar's window has been committed to
// a new position, by drag release or keyboard nudge.
type TaskRescheduledMsg struct {
	Index int
	Task  model.Task
}

// GranularityChangedMsg is sent when the axis unit is toggled.
type GranularityChangedMsg struct {
	Granularity gantt.Granularity
}

// labelWidth is the fixed width of the task label column.
const labelWidth = 30

// Model is the Gantt timeline view.
type Model struct {
	tasks  []model.Task
	window gantt.Window
	gran   gantt.Granularity
	today  model.Date
	keys   *keys.KeyMap
	drag   gantt.Controller

	cursor  int
	width   int
	height  int
	offsetY int
}

// New creates a timeline model. offsetY is the number of terminal rows
// above the first bar row (application header plus the axis row), used
// to translate mouse coordinates.
func New(k *keys.KeyMap, today model.Date, width, height, offsetY int) Model {
	return Model{
		keys:    k,
		today:   today,
		gran:    gantt.Months,
		width:   width,
		height:  height,
		offsetY: offsetY,
	}
}

// SetTasks replaces the schedule and recomputes the visible window.
func (m *Model) SetTasks(tasks []model.Task) {
	m.tasks = tasks
	m.window = gantt.ComputeWindow(tasks, m.today, m.gran)
	if m.cursor >= len(tasks) {
		m.cursor = 0
	}
}

// Tasks returns the schedule currently displayed.
func (m Model) Tasks() []model.Task {
	return m.tasks
}

// Dragging reports whether a drag gesture is in progress.
func (m Model) Dragging() bool {
	return m.drag.Dragging()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// trackWidth is the width in cells of the bar track.
func (m Model) trackWidth() int {
	w := m.width - labelWidth - 1
	if w < 10 {
		w = 10
	}
	return w
}

func (m Model) scale() gantt.Scale {
	return gantt.Scale{TrackWidth: m.trackWidth(), TotalDays: m.window.TotalDays()}
}

// Update handles messages for the timeline view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKeys(msg)
	}
	return m, nil
}

// handleMouse drives the drag state machine. The candidate window is
// recomputed on every motion frame; the change is committed only on
// release.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		row := msg.Y - m.offsetY
		if row < 0 || row >= len(m.tasks) {
			return m, nil
		}
		tx := msg.X - labelWidth
		if tx < 0 {
			return m, nil
		}

		task := m.tasks[row]
		startCell, endCell := m.barBounds(task)
		kind, ok := hitKind(tx, startCell, endCell)
		if !ok {
			return m, nil
		}

		m.cursor = row
		m.drag.Begin(task, 0, row, kind, msg.X, m.scale())
		return m, nil

	case tea.MouseActionMotion:
		if m.drag.Dragging() {
			m.drag.MoveTo(msg.X)
		}
		return m, nil

	case tea.MouseActionRelease:
		change, ok := m.drag.Release()
		if !ok {
			return m, nil
		}
		m.tasks[change.Index] = change.Task
		return m, func() tea.Msg {
			return TaskRescheduledMsg{Index: change.Index, Task: change.Task}
		}
	}

	return m, nil
}

// handleKeys processes cursor movement and keyboard rescheduling.
func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	if len(m.tasks) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.drag.Dragging() {
			m.drag.Cancel()
		}
		return m, nil

	case key.Matches(msg, m.keys.MoveLeft):
		return m.nudge(-1, -1)

	case key.Matches(msg, m.keys.MoveRight):
		return m.nudge(1, 1)

	case key.Matches(msg, m.keys.GrowLeft):
		return m.nudge(-1, 0)

	case key.Matches(msg, m.keys.GrowRight):
		return m.nudge(0, 1)

	case key.Matches(msg, m.keys.Granularity):
		if m.gran == gantt.Months {
			m.gran = gantt.Quarters
		} else {
			m.gran = gantt.Months
		}
		m.window = gantt.ComputeWindow(m.tasks, m.today, m.gran)
		gran := m.gran
		return m, func() tea.Msg {
			return GranularityChangedMsg{Granularity: gran}
		}
	}

	return m, nil
}

// nudge moves the focused bar's edges by whole days and commits
// immediately. A collapsing window is pushed back out to one day.
func (m Model) nudge(startDelta, endDelta int) (Model, tea.Cmd) {
	task := m.tasks[m.cursor]
	if task.Start.IsZero() || task.End.IsZero() {
		return m, nil
	}

	updated := task.WithDates(
		task.Start.AddDays(startDelta),
		task.End.AddDays(endDelta),
	)
	if updated.Start.Equal(task.Start.Time) && updated.End.Equal(task.End.Time) {
		return m, nil
	}

	m.tasks[m.cursor] = updated
	index := m.cursor
	return m, func() tea.Msg {
		return TaskRescheduledMsg{Index: index, Task: updated}
	}
}

// barBounds returns the first and last track cell of a task's bar.
func (m Model) barBounds(task model.Task) (int, int) {
	track := float64(m.trackWidth())
	leftPct, widthPct := m.window.Placement(task)

	start := int(math.Round(leftPct / 100 * track))
	width := int(math.Round(widthPct / 100 * track))
	if width < 1 {
		width = 1
	}
	end := start + width - 1
	if end >= m.trackWidth() {
		end = m.trackWidth() - 1
	}
	return start, end
}

// hitKind classifies a click within a bar: the first cell grabs the
// start edge, the last cell grabs the end edge, anything between moves
// the whole bar.
func hitKind(tx, startCell, endCell int) (gantt.DragKind, bool) {
	switch {
	case tx < startCell || tx > endCell:
		return 0, false
	case tx == startCell && startCell != endCell:
		return gantt.DragResizeStart, true
	case tx == endCell && startCell != endCell:
		return gantt.DragResizeEnd, true
	default:
		return gantt.DragMove, true
	}
}

// View renders the axis and one bar row per task.
func (m Model) View() string {
	if len(m.tasks) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No scheduled work.\n\nPress 'r' to sync from the tracker.")
	}

	var rows []string
	rows = append(rows, m.renderAxis())

	for i, task := range m.tasks {
		rows = append(rows, m.renderBarRow(i, task))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderAxis draws the column labels and the today marker.
func (m Model) renderAxis() string {
	track := m.trackWidth()
	cells := make([]rune, track)
	for i := range cells {
		cells[i] = ' '
	}

	for _, col := range m.window.Columns() {
		pct := float64(m.window.Start.DaysUntil(col.Start)) /
			float64(m.window.TotalDays())
		pos := int(pct * float64(track))
		for j, r := range col.Label {
			if pos+j >= track {
				break
			}
			cells[pos+j] = r
		}
	}

	todayPos := m.todayCell()
	if todayPos >= 0 && todayPos < track && cells[todayPos] == ' ' {
		cells[todayPos] = '▼'
	}

	label := strings.Repeat(" ", labelWidth) + " "
	return label + theme.AxisStyle.Render(string(cells))
}

// renderBarRow draws one task lane: the label column and the bar.
func (m Model) renderBarRow(index int, task model.Task) string {
	dragging := false
	if cand, ok := m.drag.Candidate(); ok && m.dragIndex() == index {
		task = cand
		dragging = true
	}

	label := ansi.Truncate(task.Label, labelWidth-2, "…")
	labelStyle := theme.ListItemStyle
	if index == m.cursor {
		labelStyle = theme.SelectedItemStyle
	}
	labelCol := labelStyle.Width(labelWidth).Render(label)

	startCell, endCell := m.barBounds(task)
	track := m.trackWidth()

	left := strings.Repeat(" ", startCell)
	width := endCell - startCell + 1

	filled := int(math.Round(task.Progress * float64(width)))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	barStyle := theme.KindStyle(task.Kind)
	if dragging {
		barStyle = theme.DraggingStyle
	}

	right := strings.Repeat(" ", max(0, track-endCell-1))

	todayPos := m.todayCell()
	if todayPos >= 0 && todayPos < startCell {
		left = left[:todayPos] + "┊" + left[todayPos+1:]
	} else if todayPos > endCell && todayPos < track {
		off := todayPos - endCell - 1
		right = right[:off] + "┊" + right[off+1:]
	}

	suffix := ""
	if dragging {
		suffix = theme.HelpStyle.Render(fmt.Sprintf(
			" %s → %s", task.Start, task.End,
		))
	}

	return labelCol + " " +
		theme.AxisStyle.Render(left) +
		barStyle.Render(bar) +
		theme.AxisStyle.Render(right) +
		suffix
}

// todayCell returns the today marker's track cell.
func (m Model) todayCell() int {
	pct := m.window.TodayPercent(m.today)
	return int(pct / 100 * float64(m.trackWidth()))
}

// dragIndex returns the row being dragged, or -1.
func (m Model) dragIndex() int {
	if cand, ok := m.drag.Candidate(); ok {
		for i, t := range m.tasks {
			if t.ID == cand.ID {
				return i
			}
		}
	}
	return -1
}
