package controller

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	m "graft.dev/pkg/graft/internal/model"
)

var (
	tuiTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	tuiDimStyle   = lipgloss.NewStyle().Faint(true)
)

// TUI implements UI with a Bubble Tea progress display for interactive
// terminals. Corpus tables fall back to the plain renderer.
type TUI struct {
	cmd     *cobra.Command
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{cmd: cmd, done: make(chan struct{})}
}

type runInfoMsg struct {
	sessions int
	threads  int
	language string
	output   string
}

type sessionDoneMsg struct {
	index int
	bytes int
}

type summaryMsg struct {
	written int
	output  string
}

// Start launches the Bubble Tea program in the background.
func (t *TUI) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	model := newGenerateModel()
	t.program = tea.NewProgram(model, tea.WithOutput(t.cmd.OutOrStdout()))

	go func() {
		defer close(t.done)

		_, _ = t.program.Run()
	}()

	return nil
}

// Close stops the program if it is still running.
func (t *TUI) Close(_ context.Context) {
	if t.program == nil {
		return
	}

	t.program.Quit()
	<-t.done
}

// Wait blocks until the program finishes (summary shown or user quit).
func (t *TUI) Wait(ctx context.Context) {
	if t.program == nil {
		return
	}

	select {
	case <-ctx.Done():
	case <-t.done:
	}
}

// DisplayCorpus renders the corpus table without entering the TUI; a
// listing is a one-shot output, not a progress view.
func (t *TUI) DisplayCorpus(ctx context.Context, stats []m.CorpusStat, possibleSplices int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(t.cmd.OutOrStdout(), "\n%s", renderCorpusTable(stats, possibleSplices))

	return err
}

// DisplayRunInfo feeds the run configuration to the progress model.
func (t *TUI) DisplayRunInfo(ctx context.Context, sessions, threads int, language string, output m.Path) {
	if ctx.Err() != nil || t.program == nil {
		return
	}

	t.program.Send(runInfoMsg{sessions: sessions, threads: threads, language: language, output: string(output)})
}

// DisplaySessionCompleted advances the progress bar.
func (t *TUI) DisplaySessionCompleted(ctx context.Context, test m.TestCase, _ m.Path) {
	if ctx.Err() != nil || t.program == nil {
		return
	}

	t.program.Send(sessionDoneMsg{index: test.Index, bytes: len(test.Data)})
}

// DisplaySummary shows the final line and ends the program.
func (t *TUI) DisplaySummary(ctx context.Context, written int, output m.Path) {
	if ctx.Err() != nil || t.program == nil {
		return
	}

	t.program.Send(summaryMsg{written: written, output: string(output)})
}

type generateModel struct {
	bar      progress.Model
	sessions int
	threads  int
	language string
	output   string
	done     int
	summary  string
}

func newGenerateModel() generateModel {
	return generateModel{bar: progress.New(progress.WithDefaultGradient())}
}

func (g generateModel) Init() tea.Cmd {
	return nil
}

func (g generateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return g, tea.Quit
		}

	case tea.WindowSizeMsg:
		g.bar.Width = msg.Width - 4

	case runInfoMsg:
		g.sessions = msg.sessions
		g.threads = msg.threads
		g.language = msg.language
		g.output = msg.output

	case sessionDoneMsg:
		g.done++

	case summaryMsg:
		g.summary = fmt.Sprintf("Wrote %d test case(s) to %s", msg.written, msg.output)
		return g, tea.Quit
	}

	return g, nil
}

func (g generateModel) View() string {
	if g.sessions == 0 {
		return tuiTitleStyle.Render("graft") + "\n"
	}

	percent := float64(g.done) / float64(g.sessions)

	view := tuiTitleStyle.Render("graft") +
		tuiDimStyle.Render(fmt.Sprintf("  %s, %d worker(s), %s\n", g.language, g.threads, g.output)) + "\n" +
		g.bar.ViewAs(percent) +
		fmt.Sprintf("  %d/%d\n", g.done, g.sessions)

	if g.summary != "" {
		view += g.summary + "\n"
	}

	return view
}
