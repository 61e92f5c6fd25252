package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "graft.dev/pkg/graft/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context) error {
	return ctx.Err()
}

// Close finalizes the UI (no-op for SimpleUI).
func (s *SimpleUI) Close(_ context.Context) {}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(_ context.Context) {}

// DisplayCorpus prints a per-file statistics table.
func (s *SimpleUI) DisplayCorpus(ctx context.Context, stats []m.CorpusStat, possibleSplices int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderCorpusTable(stats, possibleSplices))

	return nil
}

func renderCorpusTable(stats []m.CorpusStat, possibleSplices int) string {
	var buffer bytes.Buffer

	table := tablewriter.NewWriter(&buffer)
	table.SetHeader([]string{"Path", "Bytes", "Nodes", "Kinds", "Parse"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
	})

	for _, stat := range stats {
		parse := "clean"
		if stat.HasError {
			parse = "errors"
		}

		table.Append([]string{
			string(stat.Origin),
			fmt.Sprintf("%d", stat.Bytes),
			fmt.Sprintf("%d", stat.Nodes),
			fmt.Sprintf("%d", stat.Kinds),
			parse,
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(stats)),
		"", "", "",
		fmt.Sprintf("%d splices", possibleSplices),
	})

	table.Render()

	return buffer.String()
}

// DisplayRunInfo shows the run configuration.
func (s *SimpleUI) DisplayRunInfo(ctx context.Context, sessions, threads int, language string, output m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Generating %d %s test case(s) with %d worker(s) into %s\n", sessions, language, threads, output)
}

// DisplaySessionCompleted shows one finished session.
func (s *SimpleUI) DisplaySessionCompleted(ctx context.Context, test m.TestCase, path m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Session %d -> %s (%d bytes)\n", test.Index, path, len(test.Data))
}

// DisplaySummary prints the final result line.
func (s *SimpleUI) DisplaySummary(ctx context.Context, written int, output m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Wrote %d test case(s) to %s\n", written, output)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
