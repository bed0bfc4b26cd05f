package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/foundry/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps detail and editor content areas.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// TodayMarkerStyle renders the current-date line on the timeline.
var TodayMarkerStyle = lipgloss.NewStyle().
	Foreground(ColorRed).
	Bold(true)

// AxisStyle renders timeline column labels and grid lines.
var AxisStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// DraggingStyle highlights a bar while it is being rescheduled.
var DraggingStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorMagenta)

// KindStyle returns the bar style for a task kind.
func KindStyle(kind model.TaskKind) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch kind {
	case model.KindProject:
		return base.Foreground(ColorMagenta)
	case model.KindMilestone:
		return base.Foreground(ColorOrange)
	default:
		return base.Foreground(ColorBlue)
	}
}

// ProgressStyle returns a color-coded style for a completion ratio.
func ProgressStyle(progress float64) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch {
	case progress >= 1:
		return base.Foreground(ColorGreen)
	case progress > 0:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGray)
	}
}

// LevelStyle returns a color-coded style for a notification level.
func LevelStyle(level string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch level {
	case model.NotifyError:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorBlue)
	}
}
