package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Keyboard Shortcuts")
	sections = append(sections, title)

	navSection := m.renderSection("Navigation", []keyHelp{
		{"1", "Dashboard"},
		{"2", "Race predictions"},
		{"3", "Training plan"},
		{"4", "Race pacing"},
		{"5", "Activities list"},
		{"6 or s", "Sync screen"},
		{"?", "Help (this screen)"},
		{"q", "Quit"},
		{"esc", "Back / close help"},
	})
	sections = append(sections, navSection)

	planSection := m.renderSection("Training Plan", []keyHelp{
		{"n", "Create or edit race goal"},
		{"g", "Regenerate plan"},
		{"e", "Export plan to PDF"},
	})
	sections = append(sections, planSection)

	pacingSection := m.renderSection("Race Pacing", []keyHelp{
		{"tab", "Switch pacing strategy"},
	})
	sections = append(sections, pacingSection)

	actSection := m.renderSection("Activities List", []keyHelp{
		{"j / down", "Move cursor down"},
		{"k / up", "Move cursor up"},
		{"pgdn / pgup", "Next / previous page"},
		{"r", "Refresh list"},
	})
	sections = append(sections, actSection)

	sections = append(sections, m.renderConceptsHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderConceptsHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render("Concepts Explained"))
	lines = append(lines, "")

	concepts := []struct {
		name string
		desc string
	}{
		{"Race predictions", "Estimated finish times from your recent runs, scaled across distances. More runs at similar distances = better estimates."},
		{"Pace zones", "Training pace ranges derived from your average pace. Easy for recovery, tempo and intervals for speed."},
		{"Consistency", "How regularly you ran over the last 4 weeks, out of 100."},
		{"Training phases", "Plans progress base -> build -> peak -> taper, with a cutback every 4th week."},
		{"Pacing strategy", "Negative split starts slightly slower and finishes faster. Most distance PRs are run this way."},
	}

	mutedStyle := lipgloss.NewStyle().Foreground(mutedColor)

	for _, c := range concepts {
		lines = append(lines, "  "+helpKeyStyle.Render(c.name))
		lines = append(lines, "  "+mutedStyle.Render(c.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
