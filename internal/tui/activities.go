package tui

import (
	"fmt"

	"stridecoach/internal/service"
	"stridecoach/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ActivitiesModel is the activities list screen model
type ActivitiesModel struct {
	queryService *service.QueryService
	units        Units
	activities   []store.Activity
	cursor       int
	offset       int
	total        int
	pageSize     int
	loading      bool
	err          error
}

// NewActivitiesModel creates a new activities model
func NewActivitiesModel(qs *service.QueryService, units Units) ActivitiesModel {
	return ActivitiesModel{
		queryService: qs,
		units:        units,
		pageSize:     15,
		loading:      true,
	}
}

// Init initializes the activities screen
func (m ActivitiesModel) Init() tea.Cmd {
	return m.loadPage
}

type activitiesLoadedMsg struct {
	activities []store.Activity
	total      int
	err        error
}

func (m ActivitiesModel) loadPage() tea.Msg {
	activities, err := m.queryService.ListActivities(m.pageSize, m.offset)
	if err != nil {
		return activitiesLoadedMsg{err: err}
	}

	total, err := m.queryService.CountActivities()
	if err != nil {
		return activitiesLoadedMsg{err: err}
	}

	return activitiesLoadedMsg{activities: activities, total: total}
}

// Update handles messages
func (m ActivitiesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case activitiesLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.activities = msg.activities
		m.total = msg.total

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			} else if m.offset > 0 {
				// Go to previous page
				m.offset -= m.pageSize
				m.cursor = m.pageSize - 1
				m.loading = true
				return m, m.loadPage
			}
		case "down", "j":
			if m.cursor < len(m.activities)-1 {
				m.cursor++
			} else if m.offset+len(m.activities) < m.total {
				// Go to next page
				m.offset += m.pageSize
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "pgup":
			if m.offset > 0 {
				m.offset -= m.pageSize
				if m.offset < 0 {
					m.offset = 0
				}
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "pgdown":
			if m.offset+m.pageSize < m.total {
				m.offset += m.pageSize
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "r":
			m.loading = true
			return m, m.loadPage
		}
	}
	return m, nil
}

// View renders the activities list
func (m ActivitiesModel) View() string {
	if m.loading {
		return "\n  Loading activities..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if len(m.activities) == 0 {
		return "\n  No activities found. Press 's' to sync with Strava."
	}

	var sections []string

	// Title with pagination info
	startNum := m.offset + 1
	endNum := m.offset + len(m.activities)
	title := cardTitleStyle.Render(fmt.Sprintf("Activities (%d-%d of %d)", startNum, endNum, m.total))
	sections = append(sections, title)

	header := tableHeaderStyle.Render(fmt.Sprintf("   %-10s  %-25s  %-6s  %9s  %7s  %6s  %6s",
		"Date", "Name", "Type", "Distance", "Time", "Pace", "Src"))
	sections = append(sections, header)

	for i, a := range m.activities {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		row := fmt.Sprintf("%s%-10s  %-25s  %-6s  %9s  %7s  %6s  %6s",
			cursor,
			a.StartDate.Format("Jan 02"),
			truncateName(a.Name, 25),
			a.Type,
			m.units.FormatDistance(a.Distance),
			formatDuration(a.MovingTime),
			m.units.FormatPace(a.MovingTime, a.Distance),
			a.Source,
		)

		if i == m.cursor {
			sections = append(sections, tableSelectedStyle.Render(row))
		} else {
			sections = append(sections, tableRowStyle.Render(row))
		}
	}

	help := statusStyle.Render("\n  j/k: navigate  pgup/pgdn: page  r: refresh")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
