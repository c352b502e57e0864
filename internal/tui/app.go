package tui

import (
	"stridecoach/internal/config"
	"stridecoach/internal/service"
	"stridecoach/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenPredictions
	ScreenPlan
	ScreenPacing
	ScreenActivities
	ScreenSync
	ScreenGoal
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	dashboard   DashboardModel
	predictions PredictionsModel
	plan        PlanModel
	pacing      PacingModel
	activities  ActivitiesModel
	syncScreen  SyncModel
	goalForm    GoalModel
	help        HelpModel

	// Services
	db           *store.DB
	queryService *service.QueryService
	syncService  *service.SyncService
	planService  *service.PlanService

	units Units
	cfg   *config.Config

	// Window dimensions
	width  int
	height int

	// Status message
	status string
}

// NewApp creates a new App with all dependencies
func NewApp(db *store.DB, cfg *config.Config, syncService *service.SyncService, queryService *service.QueryService, planService *service.PlanService) *App {
	units := NewUnits(cfg.Display)
	return &App{
		screen:       ScreenDashboard,
		db:           db,
		cfg:          cfg,
		units:        units,
		queryService: queryService,
		syncService:  syncService,
		planService:  planService,
		dashboard:    NewDashboardModel(queryService, units),
		predictions:  NewPredictionsModel(queryService, units),
		plan:         NewPlanModel(planService, units),
		pacing:       NewPacingModel(queryService, units, cfg.Training.PacingStrategy),
		activities:   NewActivitiesModel(queryService, units),
		syncScreen:   NewSyncModel(syncService),
		goalForm:     NewGoalModel(planService),
		help:         NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.dashboard.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings (unless syncing or typing in the goal form)
		typing := a.screen == ScreenGoal || (a.screen == ScreenSync && a.syncScreen.syncing)
		if !typing {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				a.screen = ScreenDashboard
				return a, a.dashboard.Init()
			case "2":
				a.screen = ScreenPredictions
				a.predictions = NewPredictionsModel(a.queryService, a.units)
				a.predictions.width = a.width
				a.predictions.height = a.height
				return a, a.predictions.Init()
			case "3":
				a.screen = ScreenPlan
				a.plan = NewPlanModel(a.planService, a.units)
				a.plan.width = a.width
				a.plan.height = a.height
				return a, a.plan.Init()
			case "4":
				a.screen = ScreenPacing
				a.pacing = NewPacingModel(a.queryService, a.units, a.cfg.Training.PacingStrategy)
				return a, a.pacing.Init()
			case "5":
				a.screen = ScreenActivities
				return a, a.activities.Init()
			case "6", "s":
				if a.screen != ScreenSync {
					a.screen = ScreenSync
					return a, a.syncScreen.Init()
				}
				// Let 's' fall through to the sync screen when already there
			case "?":
				a.prevScreen = a.screen
				a.screen = ScreenHelp
				return a, nil
			case "esc":
				if a.screen == ScreenHelp {
					a.screen = a.prevScreen
					return a, nil
				}
			}
		}
		if a.screen == ScreenGoal {
			if msg.String() == "ctrl+c" {
				return a, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case SyncCompleteMsg:
		// Refresh dashboard after sync
		a.screen = ScreenDashboard
		return a, a.dashboard.Init()

	case EditGoalMsg:
		a.screen = ScreenGoal
		a.goalForm = NewGoalModel(a.planService)
		a.goalForm.load(msg.Goal)
		return a, a.goalForm.Init()

	case GoalSavedMsg:
		a.screen = ScreenPlan
		a.plan = NewPlanModel(a.planService, a.units)
		a.plan.width = a.width
		a.plan.height = a.height
		return a, a.plan.Init()

	case GoalCancelledMsg:
		a.screen = ScreenPlan
		return a, nil

	case StatusMsg:
		a.status = string(msg)
		return a, nil
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenDashboard:
		var m tea.Model
		m, cmd = a.dashboard.Update(msg)
		a.dashboard = m.(DashboardModel)
	case ScreenPredictions:
		var m tea.Model
		m, cmd = a.predictions.Update(msg)
		a.predictions = m.(PredictionsModel)
	case ScreenPlan:
		var m tea.Model
		m, cmd = a.plan.Update(msg)
		a.plan = m.(PlanModel)
	case ScreenPacing:
		var m tea.Model
		m, cmd = a.pacing.Update(msg)
		a.pacing = m.(PacingModel)
	case ScreenActivities:
		var m tea.Model
		m, cmd = a.activities.Update(msg)
		a.activities = m.(ActivitiesModel)
	case ScreenSync:
		var m tea.Model
		m, cmd = a.syncScreen.Update(msg)
		a.syncScreen = m.(SyncModel)
	case ScreenGoal:
		var m tea.Model
		m, cmd = a.goalForm.Update(msg)
		a.goalForm = m.(GoalModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenPredictions:
		content = a.predictions.View()
	case ScreenPlan:
		content = a.plan.View()
	case ScreenPacing:
		content = a.pacing.View()
	case ScreenActivities:
		content = a.activities.View()
	case ScreenSync:
		content = a.syncScreen.View()
	case ScreenGoal:
		content = a.goalForm.View()
	case ScreenHelp:
		content = a.help.View()
	}

	footer := a.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content, footer)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("StrideCoach - Race Training Companion")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Dashboard", ScreenDashboard},
		{"2", "Predictions", ScreenPredictions},
		{"3", "Plan", ScreenPlan},
		{"4", "Pacing", ScreenPacing},
		{"5", "Activities", ScreenActivities},
		{"6", "Sync", ScreenSync},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

func (a *App) renderFooter() string {
	if a.status != "" {
		return statusStyle.Render(a.status)
	}
	return ""
}

// SyncCompleteMsg is sent when sync finishes
type SyncCompleteMsg struct{}

// EditGoalMsg opens the goal form, optionally pre-filled
type EditGoalMsg struct {
	Goal *store.RaceGoal
}

// GoalSavedMsg is sent after the goal form saves successfully
type GoalSavedMsg struct{}

// GoalCancelledMsg is sent when the goal form is dismissed
type GoalCancelledMsg struct{}

// StatusMsg sets the footer status line
type StatusMsg string
