package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h := msg.Height - 6
		if h < 1 {
			h = 1
		}
		m.habitsModel.SetSize(msg.Width-4, h)
		m.streaksModel.SetSize(msg.Width-4, h-2)
		return m, nil

	case habits.AddHabitMsg:
		m.form = m.newHabitForm()
		m.state = StateAddHabit
		return m, m.form.Init()

	case habits.CheckOffHabitMsg:
		m.checkOff(msg.ID)
		return m, nil

	case habits.DeleteHabitMsg:
		m.habitToDeleteID = msg.ID
		m.state = StateConfirmDelete
		return m, nil
	}

	switch m.state {
	case StateAddHabit:
		return m.updateForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateHabits:
		m.habitsModel, cmd = m.habitsModel.Update(msg)
	case StateStreaks:
		m.streaksModel, cmd = m.streaksModel.Update(msg)
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.form = nil
		m.state = StateHabits
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.createHabit()
		m.form = nil
		m.state = StateHabits
		return m, nil
	case huh.StateAborted:
		m.form = nil
		m.state = StateHabits
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, m.keys.Confirm):
		m.deleteHabit(m.habitToDeleteID)
		m.habitToDeleteID = ""
		m.state = StateHabits
	case key.Matches(k, m.keys.Cancel):
		m.habitToDeleteID = ""
		m.state = StateHabits
	}
	return m, nil
}

func (m *Model) createHabit() {
	h, err := m.tracker.CreateHabit(m.habitForm.Name, m.habitForm.Description, m.habitForm.Periodicity)
	if err != nil {
		m.setError(err)
		return
	}
	m.refresh()
	m.status = successStyle.Render(fmt.Sprintf("Added habit %q", h.Name))
}

func (m *Model) checkOff(id string) {
	_, err := m.tracker.CheckOff(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateCompletion) {
			m.status = warningStyle.Render("Already completed for this period")
			return
		}
		m.setError(err)
		return
	}
	m.refresh()
	m.status = successStyle.Render("✓ Checked off")
}

func (m *Model) deleteHabit(id string) {
	h, err := m.tracker.DeleteHabit(id)
	if err != nil {
		m.setError(err)
		return
	}
	m.refresh()
	m.status = successStyle.Render(fmt.Sprintf("Deleted habit %q", h.Name))
}

func (m *Model) setError(err error) {
	logger.Warn("TUI action failed", "error", err)
	m.status = dangerStyle.Render(apperrors.Format(err))
}
