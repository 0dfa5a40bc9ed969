package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case recalculatedMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.calculating = false
		m.err = msg.Err
		if msg.Err == nil {
			m.projection = msg.Projection
			m.yearly = msg.Yearly
			m.simulation = msg.Simulation
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveFocus(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveFocus(1)
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if m.sliders[m.focused].Decrement() {
			return m.recalculate()
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.sliders[m.focused].Increment() {
			return m.recalculate()
		}
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		changed := false
		for i, s := range m.sliders {
			if s.SetValue(m.initial[i]) {
				changed = true
			}
		}
		if changed {
			return m.recalculate()
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) moveFocus(delta int) {
	m.sliders[m.focused].IsFocused = false
	m.focused = (m.focused + delta + len(m.sliders)) % len(m.sliders)
	m.sliders[m.focused].IsFocused = true
}

func (m Model) recalculate() (tea.Model, tea.Cmd) {
	m.seq++
	m.calculating = true
	return m, m.calculateCmd()
}
