package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"boardkit.dev/boardkit/internal/workitem"
)

// TypeColors maps each work item type to its tree color
var TypeColors = map[workitem.Type]lipgloss.Color{
	workitem.Epic:               lipgloss.Color("#9f83e4"), // Purple
	workitem.Feature:            lipgloss.Color("#4ccbf1"), // Light blue
	workitem.ProductBacklogItem: lipgloss.Color("#4dca7d"), // Green
}

// ConfigureColor turns styling off when output is not a terminal
func ConfigureColor(isTTY bool) {
	if !isTTY {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// ColorType renders text in the type's color
func ColorType(t workitem.Type, text string) string {
	return lipgloss.NewStyle().Foreground(TypeColors[t]).Bold(t == workitem.Epic).Render(text)
}

// ColorDim makes text dim/gray
func ColorDim(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Render(text)
}

// ColorFailed colors text red
func ColorFailed(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("1")).
		Render(text)
}
