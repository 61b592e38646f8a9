package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitkit/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
		m.help.Width = msg.Width
		return m, nil
	case habitsChangedMsg:
		return m.handleChanged(msg), nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	switch m.state {
	case stateForm:
		return m.updateForm(msg)
	case stateConfirmDelete:
		return m.updateConfirm(msg)
	case stateStats:
		return m.updateStats(msg)
	}
	return m.updateList(msg)
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			if it, ok := m.selected(); ok {
				return m, m.toggleCmd(it.Habit, m.tracker.Today())
			}
			return m, nil
		case key.Matches(msg, m.keys.Add):
			m.input = &models.HabitInput{}
			m.form = NewHabitForm(m.input)
			m.state = stateForm
			return m, m.form.Init()
		case key.Matches(msg, m.keys.Delete):
			if it, ok := m.selected(); ok {
				m.pendingDelete = it.Habit
				m.state = stateConfirmDelete
			}
			return m, nil
		case key.Matches(msg, m.keys.Stats):
			m.state = stateStats
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Back) {
		m.state = stateList
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		ApplyHabitForm(m.input)
		in := *m.input
		m.state = stateList
		m.form = nil
		return m, tea.Batch(cmd, m.addCmd(in))
	case huh.StateAborted:
		m.state = stateList
		m.form = nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		h := m.pendingDelete
		m.pendingDelete = models.Habit{}
		m.state = stateList
		return m, m.deleteCmd(h)
	case "n", "N", "esc", "q":
		m.pendingDelete = models.Habit{}
		m.state = stateList
	}
	return m, nil
}

func (m Model) updateStats(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Back), key.Matches(keyMsg, m.keys.Stats):
			m.state = stateList
		case key.Matches(keyMsg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}
