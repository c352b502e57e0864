package tui

import (
	"fmt"
	"time"

	"stridecoach/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	queryService *service.QueryService
	units        Units
	data         *service.DashboardData
	loading      bool
	err          error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(qs *service.QueryService, units Units) DashboardModel {
	return DashboardModel{
		queryService: qs,
		units:        units,
		loading:      true,
	}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

func (m DashboardModel) loadData() tea.Msg {
	data, err := m.queryService.GetDashboardData(time.Now())
	if err != nil {
		return dashboardDataMsg{err: err}
	}
	return dashboardDataMsg{data: data}
}

type dashboardDataMsg struct {
	data *service.DashboardData
	err  error
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.loading {
		return "\n  Loading dashboard..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.data == nil || m.data.TotalActivities == 0 {
		return "\n  No activities yet. Press 's' to sync with Strava."
	}

	var sections []string

	// Top row: training metrics and race goal side by side
	metricsCard := m.renderMetricsCard()
	goalCard := m.renderGoalCard()
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, metricsCard, "  ", goalCard)
	sections = append(sections, topRow)

	sections = append(sections, m.renderPredictionsCard())
	sections = append(sections, m.renderRecentActivities())

	help := statusStyle.Render("Press 'r' to refresh, 's' to sync, '2' for prediction trends")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderMetricsCard() string {
	title := cardTitleStyle.Render("Training (last 4 weeks)")
	met := m.data.Metrics

	trend := ""
	switch met.WeeklyTrend {
	case "increasing":
		trend = "↑"
	case "decreasing":
		trend = "↓"
	}

	lines := []string{
		RenderMetric("Runs", fmt.Sprintf("%d", met.RunCount), ""),
		RenderMetric("Weekly volume", m.units.FormatKm(met.WeeklyDistanceKm), trend),
		RenderMetric("Avg pace", m.units.FormatPaceMinWithUnit(met.AvgPaceMinPerKm), ""),
		RenderMetric("Longest run", m.units.FormatKm(met.LongestRunKm), ""),
		RenderMetric("Consistency", RenderProgressBar(met.ConsistencyScore/100, 10), fmt.Sprintf("%.0f", met.ConsistencyScore)),
	}
	if met.PaceImprovementPct != 0 {
		lines = append(lines, RenderMetric("Pace change", fmt.Sprintf("%+.1f%%", met.PaceImprovementPct), ""))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(40).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderGoalCard() string {
	title := cardTitleStyle.Render("Race Goal")

	if m.data.ActiveGoal == nil {
		empty := statusStyle.Render("No race scheduled.\nPress '3' to set one up.")
		return cardStyle.Width(36).Render(lipgloss.JoinVertical(lipgloss.Left, title, empty))
	}

	g := m.data.ActiveGoal
	lines := []string{
		RenderMetric("Race", g.RaceName, ""),
		RenderMetric("Distance", g.Distance, ""),
		RenderMetric("Date", g.RaceDate.Format("Jan 2, 2006"), ""),
		RenderMetric("Weeks to go", fmt.Sprintf("%d", m.data.WeeksUntilRace), ""),
	}
	if g.TargetTimeMinutes != nil {
		lines = append(lines, RenderMetric("Target time", m.units.FormatMinutes(*g.TargetTimeMinutes), ""))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(36).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderPredictionsCard() string {
	title := cardTitleStyle.Render("Race Predictions")

	var rows []string
	for _, p := range m.data.Predictions {
		if p.Available {
			rows = append(rows, RenderMetric(p.Label,
				m.units.FormatMinutes(p.TimeMinutes),
				"@ "+m.units.FormatPaceMinWithUnit(p.PaceMinPerKm)))
		} else {
			rows = append(rows, RenderMetric(p.Label, "-", p.Reason))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderRecentActivities() string {
	title := cardTitleStyle.Render("Recent Activities")

	if len(m.data.RecentActivities) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "No activities yet"))
	}

	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %-24s  %9s  %7s  %6s",
		"Date", "Name", "Distance", "Time", "Pace"))

	rows := []string{header}
	for i, a := range m.data.RecentActivities {
		if i >= 5 {
			break
		}
		row := tableRowStyle.Render(fmt.Sprintf("%-10s  %-24s  %9s  %7s  %6s",
			a.StartDate.Format("Jan 02"),
			truncateName(a.Name, 24),
			m.units.FormatDistance(a.Distance),
			formatDuration(a.MovingTime),
			m.units.FormatPace(a.MovingTime, a.Distance),
		))
		rows = append(rows, row)
	}

	footer := fmt.Sprintf("%s activities stored", humanize.Comma(int64(m.data.TotalActivities)))
	if !m.data.LastSync.IsZero() {
		footer += fmt.Sprintf(", last sync %s", humanize.Time(m.data.LastSync))
	}
	rows = append(rows, statusStyle.Render(footer))

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func formatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func truncateName(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
