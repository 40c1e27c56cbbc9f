package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	doneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
)

var errCancelled = errors.New("cancelled")

// taskState is shared between the running task and the spinner.
type taskState struct {
	mu     sync.RWMutex
	label  string
	detail string
	done   bool
	err    error
}

func newTaskState(label string) *taskState {
	return &taskState{label: label}
}

func (s *taskState) setLabel(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.label = label
	s.detail = ""
}

func (s *taskState) setDetail(detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detail = detail
}

func (s *taskState) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	s.done = true
}

func (s *taskState) get() (label, detail string, done bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.label, s.detail, s.done, s.err
}

type taskTickMsg time.Time

type taskModel struct {
	spinner spinner.Model
	state   *taskState
	cancel  context.CancelFunc
}

func newTaskModel(state *taskState, cancel context.CancelFunc) taskModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return taskModel{spinner: s, state: state, cancel: cancel}
}

func taskTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return taskTickMsg(t)
	})
}

func (m taskModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, taskTickCmd())
}

func (m taskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancel()
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case taskTickMsg:
		if _, _, done, _ := m.state.get(); done {
			return m, tea.Quit
		}
		return m, taskTickCmd()
	}

	return m, nil
}

func (m taskModel) View() string {
	label, detail, done, err := m.state.get()
	switch {
	case err != nil:
		return fmt.Sprintf("\n  %s %s\n\n", errStyle.Render("✗"), label)
	case done:
		return fmt.Sprintf("\n  %s %s\n\n", doneStyle.Render("✓"), label)
	}
	if detail != "" {
		return fmt.Sprintf("\n  %s %s %s\n\n", m.spinner.View(), label, hintStyle.Render(detail))
	}
	return fmt.Sprintf("\n  %s %s\n\n", m.spinner.View(), label)
}

// runWithSpinner runs fn in the background while a spinner shows the
// current label. Without a terminal fn runs in the foreground and the
// label is printed once.
func runWithSpinner(ctx context.Context, state *taskState, fn func(ctx context.Context) error) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		label, _, _, _ := state.get()
		fmt.Fprintln(os.Stderr, label)
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		state.finish(fn(ctx))
	}()

	if _, err := tea.NewProgram(newTaskModel(state, cancel)).Run(); err != nil {
		return err
	}

	_, _, done, err := state.get()
	if !done {
		return errCancelled
	}
	return err
}

// progressDetail renders yt-dlp download progress for the spinner.
func progressDetail(downloaded, total int64) string {
	if total <= 0 {
		return formatBytes(downloaded)
	}
	return fmt.Sprintf("%s / %s (%d%%)", formatBytes(downloaded), formatBytes(total), downloaded*100/total)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
