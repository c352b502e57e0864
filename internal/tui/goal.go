package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"stridecoach/internal/service"
	"stridecoach/internal/store"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Form field indices
const (
	fieldName = iota
	fieldDate
	fieldDistance
	fieldRuns
	fieldTarget
	fieldDays
	fieldCount
)

var distanceOptions = []string{"5K", "10K", "Half Marathon", "Marathon"}

var dayAbbrevs = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// GoalModel is the race goal form screen model
type GoalModel struct {
	planService *service.PlanService

	inputs   []textinput.Model
	focus    int
	distance int // index into distanceOptions

	editing *store.RaceGoal // nil when creating a new goal
	err     error
}

// NewGoalModel creates a new goal form model
func NewGoalModel(ps *service.PlanService) GoalModel {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].CharLimit = 64
	}
	inputs[fieldName].Placeholder = "Spring City 10K"
	inputs[fieldDate].Placeholder = "YYYY-MM-DD"
	inputs[fieldRuns].Placeholder = "4"
	inputs[fieldTarget].Placeholder = "45:00 (optional)"
	inputs[fieldDays].Placeholder = "Mon,Wed,Sat (optional)"

	inputs[fieldName].Focus()

	return GoalModel{
		planService: ps,
		inputs:      inputs,
		distance:    1, // 10K
	}
}

// load pre-fills the form from an existing goal
func (m *GoalModel) load(goal *store.RaceGoal) {
	if goal == nil {
		return
	}
	m.editing = goal
	m.inputs[fieldName].SetValue(goal.RaceName)
	m.inputs[fieldDate].SetValue(goal.RaceDate.Format("2006-01-02"))
	m.inputs[fieldRuns].SetValue(strconv.Itoa(goal.RunsPerWeek))
	for i, opt := range distanceOptions {
		if opt == goal.Distance {
			m.distance = i
		}
	}
	if goal.TargetTimeMinutes != nil {
		m.inputs[fieldTarget].SetValue(formatTargetTime(*goal.TargetTimeMinutes))
	}
	if len(goal.CustomDays) > 0 {
		names := make([]string, len(goal.CustomDays))
		for i, d := range goal.CustomDays {
			names[i] = dayAbbrevs[d]
		}
		m.inputs[fieldDays].SetValue(strings.Join(names, ","))
	}
}

// Init initializes the form
func (m GoalModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m GoalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return GoalCancelledMsg{} }

		case "tab", "enter", "down":
			if msg.String() == "enter" && m.focus == fieldCount-1 {
				return m.save()
			}
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil

		case "shift+tab", "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil

		case "ctrl+s":
			return m.save()

		case "left", "right":
			if m.focus == fieldDistance {
				if msg.String() == "right" {
					m.distance = (m.distance + 1) % len(distanceOptions)
				} else {
					m.distance = (m.distance + len(distanceOptions) - 1) % len(distanceOptions)
				}
				return m, nil
			}
		}
	}

	// The distance selector has no text input
	if m.focus == fieldDistance {
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *GoalModel) setFocus(i int) {
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	m.focus = i
	if i != fieldDistance {
		m.inputs[i].Focus()
	}
}

func (m GoalModel) save() (tea.Model, tea.Cmd) {
	goal, err := m.buildGoal()
	if err != nil {
		m.err = err
		return m, nil
	}
	if err := m.planService.SaveGoal(goal, time.Now()); err != nil {
		m.err = err
		return m, nil
	}
	return m, func() tea.Msg { return GoalSavedMsg{} }
}

func (m GoalModel) buildGoal() (*store.RaceGoal, error) {
	goal := &store.RaceGoal{
		RaceName: strings.TrimSpace(m.inputs[fieldName].Value()),
		Distance: distanceOptions[m.distance],
	}
	if m.editing != nil {
		goal.ID = m.editing.ID
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(m.inputs[fieldDate].Value()))
	if err != nil {
		return nil, fmt.Errorf("race date must be YYYY-MM-DD")
	}
	goal.RaceDate = date.UTC()

	runs, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldRuns].Value()))
	if err != nil {
		return nil, fmt.Errorf("runs per week must be a number")
	}
	goal.RunsPerWeek = runs

	if target := strings.TrimSpace(m.inputs[fieldTarget].Value()); target != "" {
		minutes, err := parseTargetTime(target)
		if err != nil {
			return nil, err
		}
		goal.TargetTimeMinutes = &minutes
	}

	if days := strings.TrimSpace(m.inputs[fieldDays].Value()); days != "" {
		parsed, err := parseDays(days)
		if err != nil {
			return nil, err
		}
		goal.CustomDays = parsed
	}

	return goal, nil
}

// parseTargetTime accepts "45", "45:30", or "1:45:30"
func parseTargetTime(s string) (float64, error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		minutes, err := strconv.ParseFloat(parts[0], 64)
		if err != nil || minutes <= 0 {
			return 0, fmt.Errorf("target time must be minutes, mm:ss, or h:mm:ss")
		}
		return minutes, nil
	case 2:
		mins, err1 := strconv.Atoi(parts[0])
		secs, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || secs >= 60 {
			return 0, fmt.Errorf("target time must be minutes, mm:ss, or h:mm:ss")
		}
		return float64(mins) + float64(secs)/60, nil
	case 3:
		hours, err1 := strconv.Atoi(parts[0])
		mins, err2 := strconv.Atoi(parts[1])
		secs, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil || mins >= 60 || secs >= 60 {
			return 0, fmt.Errorf("target time must be minutes, mm:ss, or h:mm:ss")
		}
		return float64(hours)*60 + float64(mins) + float64(secs)/60, nil
	}
	return 0, fmt.Errorf("target time must be minutes, mm:ss, or h:mm:ss")
}

// parseDays converts "Mon,Wed,Sat" to Monday-first day indices
func parseDays(s string) ([]int, error) {
	var days []int
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		found := -1
		for i, abbrev := range dayAbbrevs {
			if strings.EqualFold(name, abbrev) {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("unknown day %q (use Mon..Sun)", name)
		}
		days = append(days, found)
	}
	return days, nil
}

func formatTargetTime(minutes float64) string {
	total := int(minutes*60 + 0.5)
	h := total / 3600
	mm := (total % 3600) / 60
	ss := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mm, ss)
	}
	return fmt.Sprintf("%d:%02d", mm, ss)
}

// View renders the goal form
func (m GoalModel) View() string {
	title := cardTitleStyle.Render("Race Goal")
	if m.editing != nil {
		title = cardTitleStyle.Render("Edit Race Goal")
	}

	label := func(i int, text string) string {
		if m.focus == i {
			return navActiveStyle.Render(text)
		}
		return metricLabelStyle.Render(text)
	}

	distance := distanceOptions[m.distance]
	if m.focus == fieldDistance {
		distance = "< " + distance + " >"
	}

	rows := []string{
		label(fieldName, "Race name") + "  " + m.inputs[fieldName].View(),
		label(fieldDate, "Race date") + "  " + m.inputs[fieldDate].View(),
		label(fieldDistance, "Distance") + "  " + distance,
		label(fieldRuns, "Runs per week") + "  " + m.inputs[fieldRuns].View(),
		label(fieldTarget, "Target time") + "  " + m.inputs[fieldTarget].View(),
		label(fieldDays, "Training days") + "  " + m.inputs[fieldDays].View(),
	}

	var sections []string
	sections = append(sections, cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		append([]string{title}, rows...)...)))

	if m.err != nil {
		sections = append(sections, errorStyle.Render("  "+m.err.Error()))
	}

	sections = append(sections, statusStyle.Render(
		"Tab: next field  ←/→: change distance  Ctrl+S: save  Esc: cancel"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
