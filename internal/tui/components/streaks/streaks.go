// Package streaks renders the analytics table of the dashboard.
package streaks

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/analytics"
)

var leaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)

type Model struct {
	table  table.Model
	leader analytics.Leader
}

func columns() []table.Column {
	return []table.Column{
		{Title: "Habit", Width: 24},
		{Title: "Every", Width: 7},
		{Title: "Current", Width: 8},
		{Title: "Longest", Width: 8},
		{Title: "Total", Width: 6},
		{Title: "Last", Width: 11},
		{Title: "Status", Width: 8},
	}
}

func New(rows []analytics.HabitStreak, atRisk []analytics.HabitStreak, leader analytics.Leader, width, height int) Model {
	t := table.New(
		table.WithColumns(columns()),
		table.WithFocused(true),
		table.WithHeight(height),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(s)

	m := Model{table: t}
	m.SetStreaks(rows, atRisk, leader)
	return m
}

func (m *Model) SetStreaks(rows []analytics.HabitStreak, atRisk []analytics.HabitStreak, leader analytics.Leader) {
	m.leader = leader
	m.table.SetRows(Rows(rows, atRisk))
}

// Rows converts streak results into table rows
func Rows(rows []analytics.HabitStreak, atRisk []analytics.HabitStreak) []table.Row {
	risky := make(map[string]bool, len(atRisk))
	for _, r := range atRisk {
		risky[r.Habit.ID] = true
	}

	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		last := "-"
		if r.Result.LastPeriod != nil {
			last = r.Result.LastPeriod.String()
		}
		status := "ok"
		switch {
		case risky[r.Habit.ID]:
			status = "at risk"
		case r.Result.Current == 0:
			status = "broken"
		}
		out = append(out, table.Row{
			r.Habit.Name,
			r.Habit.Periodicity.String(),
			strconv.Itoa(r.Result.Current),
			strconv.Itoa(r.Result.Longest),
			strconv.Itoa(r.Result.Total),
			last,
			status,
		})
	}
	return out
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.table.Rows()) == 0 {
		return "\n  Nothing to report yet."
	}
	summary := "No streaks yet."
	if m.leader.Found && m.leader.Streak > 0 {
		summary = leaderStyle.Render(fmt.Sprintf("Longest streak: %s (%d %s)",
			m.leader.Habit.Name, m.leader.Streak, m.leader.Habit.Periodicity.Unit()+"s"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.table.View(), "", summary)
}

func (m *Model) SetSize(width, height int) {
	m.table.SetWidth(width)
	m.table.SetHeight(height)
}
