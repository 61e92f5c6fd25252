// Package controller provides output adapters for displaying corpus
// listings and generation progress.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "graft.dev/pkg/graft/internal/model"
)

// UI defines the interface for displaying corpus information and session
// progress. Implementations can use different output methods (simple text,
// TUI, etc).
type UI interface {
	Start(ctx context.Context) error
	Close(ctx context.Context)
	Wait(ctx context.Context)
	DisplayCorpus(ctx context.Context, stats []m.CorpusStat, possibleSplices int) error
	DisplayRunInfo(ctx context.Context, sessions, threads int, language string, output m.Path)
	DisplaySessionCompleted(ctx context.Context, test m.TestCase, path m.Path)
	DisplaySummary(ctx context.Context, written int, output m.Path)
}

// NewUI picks the progress TUI when stdout is a terminal and plain output
// otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
