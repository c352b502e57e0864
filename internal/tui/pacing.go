package tui

import (
	"errors"
	"fmt"
	"time"

	"stridecoach/internal/analysis"
	"stridecoach/internal/service"
	"stridecoach/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PacingModel is the race pacing screen model
type PacingModel struct {
	queryService *service.QueryService
	units        Units

	strategy string
	goal     *store.RaceGoal
	plan     *analysis.PacingStrategy

	noGoal  bool
	loading bool
	err     error
}

// NewPacingModel creates a new pacing model. The initial strategy comes
// from the user's configured preference.
func NewPacingModel(qs *service.QueryService, units Units, strategy string) PacingModel {
	if strategy == "" {
		strategy = analysis.PacingNegative
	}
	return PacingModel{
		queryService: qs,
		units:        units,
		strategy:     strategy,
		loading:      true,
	}
}

// Init loads the pacing strategy for the active goal
func (m PacingModel) Init() tea.Cmd {
	return m.loadPacing
}

func (m PacingModel) loadPacing() tea.Msg {
	now := time.Now()

	goal, err := m.queryService.ActiveGoal(now)
	if errors.Is(err, store.ErrNoRaceGoal) {
		return pacingDataMsg{noGoal: true}
	}
	if err != nil {
		return pacingDataMsg{err: err}
	}

	plan, err := m.queryService.GetPacingStrategy(goal, m.strategy, now)
	if err != nil {
		return pacingDataMsg{goal: goal, err: err}
	}
	return pacingDataMsg{goal: goal, plan: plan}
}

type pacingDataMsg struct {
	goal   *store.RaceGoal
	plan   *analysis.PacingStrategy
	noGoal bool
	err    error
}

// Update handles messages
func (m PacingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pacingDataMsg:
		m.loading = false
		m.err = msg.err
		m.noGoal = msg.noGoal
		m.goal = msg.goal
		m.plan = msg.plan
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			m.strategy = nextStrategy(m.strategy)
			m.loading = true
			return m, m.loadPacing
		case "r":
			m.loading = true
			return m, m.loadPacing
		}
	}
	return m, nil
}

func nextStrategy(s string) string {
	switch s {
	case analysis.PacingEven:
		return analysis.PacingNegative
	case analysis.PacingNegative:
		return analysis.PacingPositive
	default:
		return analysis.PacingEven
	}
}

func strategyLabel(s string) string {
	switch s {
	case analysis.PacingEven:
		return "Even splits"
	case analysis.PacingNegative:
		return "Negative split"
	case analysis.PacingPositive:
		return "Positive split"
	}
	return s
}

// View renders the pacing screen
func (m PacingModel) View() string {
	if m.loading {
		return "\n  Building pacing plan..."
	}
	if m.noGoal {
		return "\n  No race goal set.\n\n" +
			statusStyle.Render("  Press '3' then 'n' to set up a race goal first.")
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)) + "\n\n" +
			statusStyle.Render("  Set a target time on your goal, or sync more runs for a prediction.")
	}
	if m.plan == nil {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderSummary())
	sections = append(sections, m.renderSplits())
	sections = append(sections, statusStyle.Render("Press Tab to switch strategy, 'r' to refresh"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m PacingModel) renderSummary() string {
	title := cardTitleStyle.Render(fmt.Sprintf("Race Pacing - %s", m.goal.RaceName))

	lines := []string{
		RenderMetric("Distance", m.units.FormatKm(m.plan.DistanceKm), ""),
		RenderMetric("Target time", m.units.FormatMinutes(m.plan.TargetTimeMinutes), ""),
		RenderMetric("Avg pace", m.units.FormatPaceMinWithUnit(m.plan.AvgPaceMinPerKm), ""),
		RenderMetric("Strategy", strategyLabel(m.plan.Strategy), ""),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m PacingModel) renderSplits() string {
	title := cardTitleStyle.Render("Splits")

	header := tableHeaderStyle.Render(fmt.Sprintf("%5s  %9s  %8s  %8s  %10s",
		"Split", "Distance", "Pace", "Time", "Cumulative"))

	rows := []string{header}
	for _, s := range m.plan.Splits {
		rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%5d  %9s  %8s  %8s  %10s",
			s.Number,
			m.units.FormatKm(s.DistanceKm),
			m.units.FormatPaceMin(s.PaceMinPerKm),
			m.units.FormatMinutes(s.TimeMinutes),
			m.units.FormatMinutes(s.CumulativeT),
		)))
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}
