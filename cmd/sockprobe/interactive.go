//go:build unix

package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/netsock/resource"
	"github.com/wippyai/netsock/socket"
)

const maxHistory = 12

var strategies = []socket.Strategy{
	socket.StrategyAuto,
	socket.StrategyAtomic,
	socket.StrategyTwoStep,
}

type interactiveModel struct {
	err      error
	table    *resource.Table
	rp       reporter
	history  []result
	inputs   []textinput.Model
	focusIdx int
	strategy int
}

type probeResultMsg struct {
	err     error
	results []result
}

func newInteractiveModel(opts options) *interactiveModel {
	addr := textinput.New()
	addr.Prompt = "address: "
	addr.Placeholder = "127.0.0.1:0"
	addr.SetValue(opts.addr)
	addr.Width = 40
	addr.Focus()

	typ := textinput.New()
	typ.Prompt = "type:    "
	typ.Placeholder = "stream"
	typ.SetValue(opts.typ)
	typ.Width = 40

	m := &interactiveModel{
		table:  resource.NewTable(),
		rp:     reporter{color: true},
		inputs: []textinput.Model{addr, typ},
	}
	if s, err := socket.ParseStrategy(opts.strategy); err == nil {
		for i, c := range strategies {
			if c == s {
				m.strategy = i
			}
		}
	}
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			_ = m.table.Close()
			return m, tea.Quit

		case "tab":
			m.inputs[m.focusIdx].Blur()
			m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
			m.inputs[m.focusIdx].Focus()
			return m, nil

		case "ctrl+s":
			m.strategy = (m.strategy + 1) % len(strategies)
			return m, nil

		case "ctrl+d":
			m.dropAll()
			return m, nil

		case "enter":
			return m, m.probeCmd()
		}

	case probeResultMsg:
		m.err = msg.err
		m.history = append(m.history, msg.results...)
		if n := len(m.history); n > maxHistory {
			m.history = m.history[n-maxHistory:]
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focusIdx], cmd = m.inputs[m.focusIdx].Update(msg)
	return m, cmd
}

// probeCmd snapshots the form and returns a command probing it. The
// command runs off the Update goroutine and must not touch m's fields.
func (m *interactiveModel) probeCmd() tea.Cmd {
	cfg := ProbeConfig{
		Name:     "interactive",
		Addr:     strings.TrimSpace(m.inputs[0].Value()),
		Type:     strings.TrimSpace(m.inputs[1].Value()),
		Strategy: strategies[m.strategy].String(),
		Count:    1,
	}
	table := m.table

	return func() tea.Msg {
		return runInteractiveProbe(table, cfg)
	}
}

func runInteractiveProbe(table *resource.Table, cfg ProbeConfig) probeResultMsg {
	pr, err := cfg.compile(0)
	if err != nil {
		return probeResultMsg{err: err}
	}
	pr.name = pr.addr.String()
	return probeResultMsg{results: runProbe(table, pr)}
}

// dropAll closes every descriptor created so far.
func (m *interactiveModel) dropAll() {
	var handles []resource.Handle
	m.table.Each(func(h resource.Handle, _ socket.FD) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		_ = m.table.Drop(h)
	}
	m.history = nil
	m.err = nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("sockprobe"))
	b.WriteString(" strategy: ")
	b.WriteString(valueStyle.Render(strategies[m.strategy].String()))
	b.WriteString("\n\n")

	for _, input := range m.inputs {
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n\n")
	}

	for _, r := range m.history {
		b.WriteString(m.rp.line(r))
		b.WriteString("\n")
	}
	if len(m.history) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter probe • tab next field • ctrl+s strategy • ctrl+d close all • esc quit"))
	return b.String()
}

func runInteractive(opts options) error {
	p := tea.NewProgram(newInteractiveModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
