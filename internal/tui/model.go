package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/tracker"
)

type viewState int

const (
	stateList viewState = iota
	stateForm
	stateConfirmDelete
	stateStats
)

// habitsChangedMsg reports the outcome of a tracker mutation run as a tea.Cmd.
type habitsChangedMsg struct {
	status string
	err    error
}

type Model struct {
	tracker *tracker.Tracker
	state   viewState
	keys    KeyMap
	help    help.Model
	list    list.Model

	form  *huh.Form
	input *models.HabitInput

	pendingDelete models.Habit
	status        string
	err           string
	width         int
	height        int
	quitting      bool
}

func NewModel(t *tracker.Tracker) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 80, 20)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetStatusBarItemName("habit", "habits")

	m := Model{
		tracker: t,
		state:   stateList,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		list:    l,
	}
	m.refresh()
	return m
}

func (m *Model) refresh() {
	items := itemsFor(m.tracker.Habits(), m.tracker.Today())
	listItems := make([]list.Item, len(items))
	for i, it := range items {
		listItems[i] = it
	}
	m.list.SetItems(listItems)
}

func (m Model) selected() (Item, bool) {
	it, ok := m.list.SelectedItem().(Item)
	return it, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) toggleCmd(h models.Habit, day string) tea.Cmd {
	return func() tea.Msg {
		if err := m.tracker.ToggleHabitCompletion(h.ID, day); err != nil {
			return habitsChangedMsg{err: err}
		}
		verb := "Unmarked"
		if updated, ok := m.tracker.GetHabitByID(h.ID); ok && updated.IsCompletedOn(day) {
			verb = "Completed"
		}
		return habitsChangedMsg{status: fmt.Sprintf("%s %s", verb, h.Title)}
	}
}

func (m Model) addCmd(in models.HabitInput) tea.Cmd {
	return func() tea.Msg {
		h, err := m.tracker.AddHabit(in)
		if err != nil {
			return habitsChangedMsg{err: err}
		}
		return habitsChangedMsg{status: "Added " + h.Title}
	}
}

func (m Model) deleteCmd(h models.Habit) tea.Cmd {
	return func() tea.Msg {
		if err := m.tracker.DeleteHabit(h.ID); err != nil {
			return habitsChangedMsg{err: err}
		}
		return habitsChangedMsg{status: "Deleted " + h.Title}
	}
}

func (m Model) handleChanged(msg habitsChangedMsg) Model {
	if msg.err != nil {
		logger.Error("Habit update failed", "error", msg.err)
		m.err = msg.err.Error()
		m.status = ""
	} else {
		m.err = ""
		m.status = msg.status
	}
	m.refresh()
	return m
}
