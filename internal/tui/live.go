// Package tui is a live terminal monitor for a running solve: it streams the
// driver's iteration records into a residual chart and shows the classified
// outcome when the session terminates.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"moorstat/internal/report"
	"moorstat/internal/solver"
	"moorstat/internal/viz"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type iterMsg solver.Record

type doneMsg struct {
	res solver.Result
	err error
}

// Monitor is the bubbletea model for one live solve.
type Monitor struct {
	events  chan tea.Msg
	history []float64
	last    solver.Record
	res     solver.Result
	err     error
	done    bool
}

// Run attaches to the session, solves it in the background, and blocks until
// the monitor exits. The session must be Initialized and unobserved.
func Run(sess *solver.Session) (solver.Result, error) {
	events := make(chan tea.Msg, 64)
	sess.AddObserver(solver.ObserverFunc(func(r solver.Record) {
		events <- iterMsg(r)
	}))

	m := &Monitor{events: events, history: sess.History()}
	go func() {
		res, err := sess.Solve()
		events <- doneMsg{res: res, err: err}
	}()

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return solver.Result{}, err
	}
	mon := final.(*Monitor)
	return mon.res, mon.err
}

func (m *Monitor) Init() tea.Cmd { return m.wait() }

func (m *Monitor) wait() tea.Cmd {
	return func() tea.Msg { return <-m.events }
}

func (m *Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case iterMsg:
		m.last = solver.Record(msg)
		m.history = append(m.history, msg.ResidualNorm)
		return m, m.wait()
	case doneMsg:
		m.res, m.err = msg.res, msg.err
		m.done = true
		return m, nil
	case tea.KeyMsg:
		s := msg.String()
		if s == "ctrl+c" || (m.done && (s == "q" || s == "enter")) {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Monitor) View() string {
	var body string
	body += titleStyle.Render("moorstat: solving") + "\n"
	if chart := viz.ResidualChart(m.history, 60, 12); chart != "" {
		body += chart + "\n"
	}
	if m.done {
		body += viz.Summary(m.res, report.Classify(m.res.Reason))
		body += helpStyle.Render("press q to quit")
	} else {
		body += statusStyle.Render(fmt.Sprintf("iteration %d  ||F|| = %.6e  alpha = %.3f",
			m.last.Iter, m.last.ResidualNorm, m.last.Alpha))
	}
	return body + "\n"
}
