package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"stridecoach/internal/config"
	"stridecoach/internal/export"
	"stridecoach/internal/service"
	"stridecoach/internal/store"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PlanModel is the training plan screen model
type PlanModel struct {
	planService *service.PlanService
	units       Units

	view    *service.PlanView
	noGoal  bool
	loading bool
	err     error

	viewport viewport.Model
	ready    bool

	width  int
	height int
}

// NewPlanModel creates a new plan model
func NewPlanModel(ps *service.PlanService, units Units) PlanModel {
	return PlanModel{
		planService: ps,
		units:       units,
		loading:     true,
	}
}

// Init loads the plan for the active goal
func (m PlanModel) Init() tea.Cmd {
	return m.loadPlan
}

func (m PlanModel) loadPlan() tea.Msg {
	view, err := m.planService.GetPlan(time.Now())
	if errors.Is(err, store.ErrNoRaceGoal) {
		return planDataMsg{noGoal: true}
	}
	if err != nil {
		return planDataMsg{err: err}
	}
	return planDataMsg{view: view}
}

func (m PlanModel) regenerate() tea.Msg {
	view, err := m.planService.Regenerate(time.Now())
	if err != nil {
		return planDataMsg{err: err}
	}
	return planDataMsg{view: view}
}

type planDataMsg struct {
	view   *service.PlanView
	noGoal bool
	err    error
}

type planExportedMsg struct {
	path string
	err  error
}

// Update handles messages
func (m PlanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case planDataMsg:
		m.loading = false
		m.err = msg.err
		m.noGoal = msg.noGoal
		m.view = msg.view
		if !m.ready && m.width > 0 {
			m.viewport = viewport.New(m.width, m.height-6)
			m.ready = true
		}
		if m.ready {
			m.viewport.SetContent(m.renderContent())
			m.viewport.GotoTop()
		}
		return m, nil

	case planExportedMsg:
		if msg.err != nil {
			return m, func() tea.Msg { return StatusMsg(fmt.Sprintf("Export failed: %v", msg.err)) }
		}
		return m, func() tea.Msg { return StatusMsg("Plan exported to " + msg.path) }

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
		case "n":
			var goal *store.RaceGoal
			if m.view != nil {
				goal = m.view.Goal
			}
			return m, func() tea.Msg { return EditGoalMsg{Goal: goal} }
		case "g":
			if m.view != nil {
				m.loading = true
				return m, m.regenerate
			}
		case "e":
			if m.view != nil {
				return m, m.exportPDF
			}
		case "r":
			m.loading = true
			return m, m.loadPlan
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m PlanModel) exportPDF() tea.Msg {
	dir, err := config.Dir()
	if err != nil {
		return planExportedMsg{err: err}
	}
	path := filepath.Join(dir, "training-plan.pdf")
	if err := export.WritePlanPDF(m.view.Goal, m.view.Plan, path); err != nil {
		return planExportedMsg{err: err}
	}
	return planExportedMsg{path: path}
}

// View renders the plan screen
func (m PlanModel) View() string {
	if m.loading {
		return "\n  Building training plan..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}
	if m.noGoal {
		return "\n  No race goal set.\n\n" +
			statusStyle.Render("  Press 'n' to set up a race goal and generate a plan.")
	}
	if !m.ready {
		return m.renderContent()
	}
	return m.viewport.View()
}

func (m PlanModel) renderContent() string {
	if m.view == nil {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderSummary())

	for i := range m.view.Plan.Weeks {
		sections = append(sections, m.renderWeek(&m.view.Plan.Weeks[i]))
	}

	sections = append(sections, m.renderRecommendations())
	sections = append(sections, statusStyle.Render(
		"Press 'n' to edit goal, 'g' to regenerate, 'e' to export PDF, ↑/↓ to scroll"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m PlanModel) renderSummary() string {
	g := m.view.Goal
	p := m.view.Plan

	title := cardTitleStyle.Render(fmt.Sprintf("%s - %s", g.RaceName, g.Distance))

	lines := []string{
		RenderMetric("Race date", g.RaceDate.Format("Monday, Jan 2, 2006"), ""),
		RenderMetric("Fitness level", p.FitnessLevel, ""),
		RenderMetric("Plan length", fmt.Sprintf("%d weeks", p.WeeksUntilRace), ""),
	}
	if g.TargetTimeMinutes != nil {
		lines = append(lines, RenderMetric("Target time", m.units.FormatMinutes(*g.TargetTimeMinutes), ""))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m PlanModel) renderWeek(w *store.PlanWeek) string {
	title := cardTitleStyle.Render(fmt.Sprintf("Week %d - %s  (%s, %s planned)",
		w.WeekNumber,
		w.StartDate.Format("Jan 2"),
		w.Phase,
		m.units.FormatKm(w.ActualKm)))

	var rows []string
	if w.Note != "" {
		rows = append(rows, statusStyle.Render(w.Note))
	}

	for _, wo := range w.Workouts {
		if wo.Type == "Rest" {
			continue
		}
		dist := ""
		if wo.DistanceKm > 0 {
			dist = m.units.FormatKm(wo.DistanceKm)
		}
		row := fmt.Sprintf("%-10s %-14s %8s  %s",
			wo.DayName,
			wo.Type,
			dist,
			intensityStyle(wo.Intensity).Render(wo.Intensity))
		rows = append(rows, tableRowStyle.Render(row))
		if wo.Description != "" {
			rows = append(rows, statusStyle.Render("           "+wo.Description))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m PlanModel) renderRecommendations() string {
	title := cardTitleStyle.Render("Coaching Notes")

	var lines []string
	for _, rec := range m.view.Recommendations {
		lines = append(lines, "• "+rec)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}
