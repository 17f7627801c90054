package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/analytics"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tracker"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
	"github.com/julianstephens/habitual/internal/tui/components/streaks"
)

type SessionState int

const (
	StateHabits SessionState = iota
	StateStreaks
	StateAddHabit
	StateConfirmDelete
)

// tabCount is the number of states reachable with tab
const tabCount = 2

type HabitFormModel struct {
	Name        string
	Description string
	Periodicity models.Periodicity
}

type Model struct {
	tracker         *tracker.Tracker
	state           SessionState
	keys            KeyMap
	help            help.Model
	habitsModel     habits.Model
	streaksModel    streaks.Model
	form            *huh.Form
	habitForm       *HabitFormModel
	habitToDeleteID string
	status          string
	err             error
	quitting        bool
	width           int
	height          int
}

func NewModel(tr *tracker.Tracker) Model {
	m := Model{
		tracker:      tr,
		state:        StateHabits,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		habitsModel:  habits.New(nil, nil, 0, 0),
		streaksModel: streaks.New(nil, nil, analytics.Leader{}, 0, 0),
	}
	m.refresh()
	return m
}

// refresh reloads every view from the tracker
func (m *Model) refresh() {
	m.err = nil
	rows, err := m.tracker.StreaksPerHabit()
	if err != nil {
		m.err = err
		return
	}
	due, err := m.tracker.DueToday()
	if err != nil {
		m.err = err
		return
	}
	atRisk, err := m.tracker.AtRisk()
	if err != nil {
		m.err = err
		return
	}
	leader, err := m.tracker.LongestOverall()
	if err != nil {
		m.err = err
		return
	}

	m.habitsModel.SetHabits(rows, due)
	m.streaksModel.SetStreaks(rows, atRisk, leader)
	if len(atRisk) > 0 {
		m.status = warningStyle.Render(fmt.Sprintf("⚠ %d streak(s) at risk", len(atRisk)))
	}
}

func (m Model) State() SessionState {
	return m.state
}

func (m Model) Err() error {
	return m.err
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateHabits:
		keys = append(keys, m.keys.Add, m.keys.CheckOff, m.keys.Delete)
	case StateStreaks:
		keys = append(keys, m.keys.Refresh)
	case StateConfirmDelete:
		keys = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	if m.state == StateHabits {
		actions = []key.Binding{m.keys.Add, m.keys.CheckOff, m.keys.Delete}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) newHabitForm() *huh.Form {
	m.habitForm = &HabitFormModel{Periodicity: models.Daily}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&m.habitForm.Name).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Value(&m.habitForm.Description),
			huh.NewSelect[models.Periodicity]().
				Title("Periodicity").
				Options(
					huh.NewOption("Daily", models.Daily),
					huh.NewOption("Weekly", models.Weekly),
				).
				Value(&m.habitForm.Periodicity),
		),
	).WithTheme(huh.ThemeBase())
}
