package tui

import (
	"fmt"
	"time"

	"stridecoach/internal/analysis"
	"stridecoach/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// PredictionsModel is the race predictions screen model
type PredictionsModel struct {
	queryService *service.QueryService
	units        Units

	predictions []analysis.Prediction
	history     []analysis.HistoryPoint
	metrics     analysis.DetailedTrainingMetrics

	viewport viewport.Model
	ready    bool
	loading  bool
	err      error

	width  int
	height int
}

// NewPredictionsModel creates a new predictions model
func NewPredictionsModel(qs *service.QueryService, units Units) PredictionsModel {
	return PredictionsModel{
		queryService: qs,
		units:        units,
		loading:      true,
	}
}

// Init loads predictions and their trend history
func (m PredictionsModel) Init() tea.Cmd {
	return m.loadData
}

func (m PredictionsModel) loadData() tea.Msg {
	now := time.Now()

	data, err := m.queryService.GetDashboardData(now)
	if err != nil {
		return predictionsDataMsg{err: err}
	}
	history, err := m.queryService.GetPredictionHistory(now)
	if err != nil {
		return predictionsDataMsg{err: err}
	}
	return predictionsDataMsg{
		predictions: data.Predictions,
		metrics:     data.Metrics,
		history:     history,
	}
}

type predictionsDataMsg struct {
	predictions []analysis.Prediction
	metrics     analysis.DetailedTrainingMetrics
	history     []analysis.HistoryPoint
	err         error
}

// Update handles messages
func (m PredictionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case predictionsDataMsg:
		m.loading = false
		m.err = msg.err
		m.predictions = msg.predictions
		m.metrics = msg.metrics
		m.history = msg.history
		if !m.ready && m.width > 0 {
			m.viewport = viewport.New(m.width, m.height-6)
			m.ready = true
		}
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.viewport.SetContent(m.renderContent())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the predictions screen
func (m PredictionsModel) View() string {
	if m.loading {
		return "\n  Calculating predictions..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}
	if !m.ready {
		return m.renderContent()
	}
	return m.viewport.View()
}

func (m PredictionsModel) renderContent() string {
	var sections []string

	sections = append(sections, m.renderPredictionsTable())
	sections = append(sections, m.renderZonesCard())

	if chart := m.renderTrendChart(); chart != "" {
		sections = append(sections, chart)
	}

	help := statusStyle.Render("Press 'r' to refresh, ↑/↓ to scroll")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m PredictionsModel) renderPredictionsTable() string {
	title := cardTitleStyle.Render("Race Predictions")

	header := tableHeaderStyle.Render(fmt.Sprintf("%-14s  %9s  %12s",
		"Distance", "Time", "Pace"))

	rows := []string{header}
	for _, p := range m.predictions {
		if p.Available {
			rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%-14s  %9s  %12s",
				p.Label,
				m.units.FormatMinutes(p.TimeMinutes),
				m.units.FormatPaceMinWithUnit(p.PaceMinPerKm))))
		} else {
			rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%-14s  %9s  %s",
				p.Label, "-", statusStyle.Render(p.Reason))))
		}
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func (m PredictionsModel) renderZonesCard() string {
	title := cardTitleStyle.Render("Training Pace Zones")

	z := m.metrics.PaceZones
	if z.Easy.Min == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title,
			statusStyle.Render("Not enough recent runs to compute zones")))
	}

	zone := func(name string, pz analysis.PaceZone) string {
		return RenderMetric(name,
			fmt.Sprintf("%s - %s", m.units.FormatPaceMin(pz.Min), m.units.FormatPaceMin(pz.Max)),
			m.units.PaceLabel())
	}

	lines := []string{
		zone("Easy", z.Easy),
		zone("Tempo", z.Tempo),
		zone("Threshold", z.Threshold),
		zone("Interval", z.Interval),
		zone("Long run", z.Long),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

// renderTrendChart plots the predicted time over the last 12 weeks for
// the shortest distance with a full history.
func (m PredictionsModel) renderTrendChart() string {
	label, series := m.trendSeries()
	if len(series) < 3 {
		return ""
	}

	title := cardTitleStyle.Render(fmt.Sprintf("%s Prediction - 12 Week Trend (minutes)", label))

	graph := asciigraph.Plot(series,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(1),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func (m PredictionsModel) trendSeries() (string, []float64) {
	for i := range raceLabels {
		var series []float64
		for _, point := range m.history {
			for _, p := range point.Predictions {
				if p.Label == raceLabels[i] && p.Available {
					series = append(series, p.TimeMinutes)
				}
			}
		}
		if len(series) == len(m.history) {
			return raceLabels[i], series
		}
	}
	return "", nil
}

var raceLabels = []string{"5K", "10K", "Half Marathon", "Marathon"}
