package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/analytics"
	"github.com/julianstephens/habitual/internal/models"
)

type AddHabitMsg struct{}

type CheckOffHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID string
}

type Item struct {
	Habit   models.Habit
	Done    bool
	Current int
}

func (i Item) Title() string {
	if i.Done {
		return "✓ " + i.Habit.Name
	}
	return "○ " + i.Habit.Name
}

func (i Item) Description() string {
	status := "due this " + i.Habit.Periodicity.Unit()
	if i.Done {
		status = "completed this " + i.Habit.Periodicity.Unit()
	}
	if i.Current > 0 {
		status += fmt.Sprintf(" · streak %d", i.Current)
	}
	return fmt.Sprintf("%s · %s", i.Habit.Periodicity, status)
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add      key.Binding
	CheckOff key.Binding
	Delete   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		CheckOff: key.NewBinding(
			key.WithKeys("c", "enter"),
			key.WithHelp("c", "check off"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

// New builds the list from the per-habit streak rows and the habits due now.
func New(rows []analytics.HabitStreak, due []models.Habit, width, height int) Model {
	l := list.New(items(rows, due), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.CheckOff, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.CheckOff, keys.Delete}
	}

	return Model{
		list: l,
		keys: keys,
	}
}

func (m *Model) SetHabits(rows []analytics.HabitStreak, due []models.Habit) {
	m.list.SetItems(items(rows, due))
}

func items(rows []analytics.HabitStreak, due []models.Habit) []list.Item {
	pending := make(map[string]bool, len(due))
	for _, h := range due {
		pending[h.ID] = true
	}

	out := make([]list.Item, len(rows))
	for i, r := range rows {
		out[i] = Item{
			Habit:   r.Habit,
			Done:    !pending[r.Habit.ID],
			Current: r.Result.Current,
		}
	}
	return out
}

// Items returns the rows currently shown
func (m Model) Items() []Item {
	out := make([]Item, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if i, ok := it.(Item); ok {
			out = append(out, i)
		}
	}
	return out
}

// Select moves the cursor to index
func (m *Model) Select(index int) {
	m.list.Select(index)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.CheckOff):
			if i, ok := m.list.SelectedItem().(Item); ok && !i.Done {
				return m, func() tea.Msg { return CheckOffHabitMsg{ID: i.Habit.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: i.Habit.ID} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
