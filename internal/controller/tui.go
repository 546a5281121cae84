package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	m "suitesync.dev/pkg/suitesync/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))
	stateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))
	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// TUI implements UI using Bubble Tea for interactive progress.
// Static listings are printed like SimpleUI.
type TUI struct {
	*SimpleUI

	output io.Writer

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI writing to the command's output.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{
		SimpleUI: NewSimpleUI(cmd),
		output:   cmd.OutOrStdout(),
	}
}

// Start launches the progress program for run and watch modes.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := t.SimpleUI.Start(ctx, options...); err != nil {
		return err
	}

	if t.cfg.mode != ModeRun && t.cfg.mode != ModeWatch {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		return nil
	}

	model := newProgressModel(t.cfg.mode == ModeWatch, t.cfg.cancel)
	t.program = tea.NewProgram(model, tea.WithOutput(t.output), tea.WithContext(ctx))
	t.done = make(chan struct{})

	go func(program *tea.Program, done chan struct{}) {
		defer close(done)

		if _, err := program.Run(); err != nil {
			slog.Debug("Progress display stopped", "error", err)
		}
	}(t.program, t.done)

	return nil
}

// Close stops the progress program and waits for its last frame.
func (t *TUI) Close(_ context.Context) {
	t.mu.Lock()
	program, done := t.program, t.done
	t.program, t.done = nil, nil
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	<-done
}

// Wait blocks until the user closes the progress program.
func (t *TUI) Wait(ctx context.Context) {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	if done == nil {
		return
	}

	select {
	case <-done:
	case <-ctx.Done():
	}
}

// DisplayState forwards a state transition to the progress program.
func (t *TUI) DisplayState(_ context.Context, state m.State) {
	t.send(stateMsg(state))
}

// DisplayCoverage forwards one measurement to the progress program.
func (t *TUI) DisplayCoverage(_ context.Context, measurement int, snapshot m.CoverageSnapshot) {
	t.send(coverageMsg{measurement: measurement, snapshot: snapshot})
}

// DisplayOutcome shows the outcome in the progress program, or prints it
// once the program has closed.
func (t *TUI) DisplayOutcome(ctx context.Context, outcome m.Outcome, err error) {
	if t.send(outcomeMsg{outcome: outcome, err: err}) {
		return
	}

	t.SimpleUI.DisplayOutcome(ctx, outcome, err)
}

// DisplayWatchBatch forwards the changed files of a watch run.
func (t *TUI) DisplayWatchBatch(ctx context.Context, paths []m.Path) {
	if t.send(batchMsg(paths)) {
		return
	}

	t.SimpleUI.DisplayWatchBatch(ctx, paths)
}

func (t *TUI) send(msg tea.Msg) bool {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program == nil {
		return false
	}

	program.Send(msg)

	return true
}

type (
	stateMsg    m.State
	batchMsg    []m.Path
	coverageMsg struct {
		measurement int
		snapshot    m.CoverageSnapshot
	}
	outcomeMsg struct {
		outcome m.Outcome
		err     error
	}
)

// progressModel renders the current state with a spinner and keeps the
// measurement history of the current run.
type progressModel struct {
	spinner spinner.Model
	watch   bool
	cancel  context.CancelFunc

	state        m.State
	batch        []m.Path
	measurements []string
	outcomes     []string
	quitting     bool
}

func newProgressModel(watch bool, cancel context.CancelFunc) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = stateStyle

	return progressModel{
		spinner: s,
		watch:   watch,
		cancel:  cancel,
	}
}

func (pm progressModel) Init() tea.Cmd {
	return pm.spinner.Tick
}

func (pm progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return pm.handleKeyPress(msg)

	case stateMsg:
		pm.state = m.State(msg)
		return pm, nil

	case batchMsg:
		pm.batch = msg
		pm.measurements = nil

		return pm, nil

	case coverageMsg:
		pm.measurements = append(pm.measurements, coverageLine(msg.measurement, msg.snapshot))
		return pm, nil

	case outcomeMsg:
		pm.outcomes = append(pm.outcomes, strings.TrimRight(renderOutcome(msg.outcome, msg.err), "\n"))
		pm.state = m.StateDone

		return pm, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		pm.spinner, cmd = pm.spinner.Update(msg)

		return pm, cmd
	}

	return pm, nil
}

//nolint:exhaustive // only quit keys are handled
func (pm progressModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return pm.quit()
	default:
	}

	if msg.String() == "q" {
		return pm.quit()
	}

	return pm, nil
}

func (pm progressModel) quit() (tea.Model, tea.Cmd) {
	pm.quitting = true

	if pm.cancel != nil {
		pm.cancel()
	}

	return pm, tea.Quit
}

func (pm progressModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("suitesync"))
	b.WriteString("\n\n")

	if len(pm.batch) > 0 {
		fmt.Fprintf(&b, "  Changes in %d file(s)\n", len(pm.batch))
	}

	for _, line := range pm.measurements {
		b.WriteString("  " + line + "\n")
	}

	for _, line := range pm.outcomes {
		style := doneStyle
		if strings.Contains(line, string(m.StatusCoverageNotMet)) || strings.Contains(line, "run failed") {
			style = warnStyle
		}

		b.WriteString(style.Render(line) + "\n")
	}

	switch {
	case pm.quitting:
		b.WriteString(helpStyle.Render("  stopping...") + "\n")
	case pm.state != "" && (pm.state != m.StateDone || pm.watch):
		label := string(pm.state)
		if pm.state == m.StateDone {
			label = "waiting for changes"
		}

		fmt.Fprintf(&b, "\n  %s %s\n", pm.spinner.View(), stateStyle.Render(label))
	}

	if !pm.quitting {
		b.WriteString(helpStyle.Render("\n  q/esc: quit") + "\n")
	}

	return b.String()
}
