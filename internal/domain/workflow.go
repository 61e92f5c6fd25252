package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	sitter "github.com/smacker/go-tree-sitter"

	"graft.dev/pkg/graft/internal/adapter"
	"graft.dev/pkg/graft/internal/controller"
	"graft.dev/pkg/graft/internal/domain/operators"
	m "graft.dev/pkg/graft/internal/model"
)

// ParseErrorPolicy decides what happens when an input file fails to parse
// cleanly (its tree contains error nodes).
type ParseErrorPolicy string

// Available policies. Ignore keeps the file as raw material, Warn logs and
// skips it, Error aborts the run.
const (
	ParseErrorIgnore ParseErrorPolicy = "ignore"
	ParseErrorWarn   ParseErrorPolicy = "warn"
	ParseErrorError  ParseErrorPolicy = "error"
)

// WorkflowArgs carries everything one CLI invocation resolves to.
type WorkflowArgs struct {
	Paths         []m.Path
	Exclude       []string
	Language      string
	NodeTypesPath string
	Output        m.Path
	OnParseError  ParseErrorPolicy
	Generate      GenerateArgs
}

// Workflow wires corpus discovery, generation, and output writing.
type Workflow interface {
	Generate(ctx context.Context, args WorkflowArgs) error
	List(ctx context.Context, args WorkflowArgs) error
}

type workflow struct {
	fs adapter.SourceFSAdapter
	ui controller.UI
}

// NewWorkflow constructs a Workflow backed by the provided filesystem
// adapter and UI.
func NewWorkflow(fs adapter.SourceFSAdapter, ui controller.UI) Workflow {
	return &workflow{fs: fs, ui: ui}
}

// Generate loads the corpus, runs the requested number of sessions, and
// writes each generated text as a numbered file in the output directory.
func (w *workflow) Generate(ctx context.Context, args WorkflowArgs) error {
	grammar, types, corpus, err := w.prepare(ctx, args)
	if err != nil {
		return err
	}

	if err := w.fs.MkdirAll(args.Output, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", args.Output, err)
	}

	generate := args.Generate
	if generate.Session.Seed < 0 {
		generate.Session.Seed = time.Now().UnixNano()
		slog.Debug("No explicit seed, drew entropy", "seed", generate.Session.Seed)
	}

	if err := w.ui.Start(ctx); err != nil {
		return err
	}
	defer w.ui.Close(ctx)

	w.ui.DisplayRunInfo(ctx, generate.Count, generate.Threads, grammar.LanguageName(), args.Output)

	// Cancelled when Generate returns early so in-flight sessions stop
	// instead of blocking on the output channel.
	streamCtx, cancelStream := context.WithCancel(ctx)
	defer cancelStream()

	stream, errCh := NewGenerator(grammar, types).Stream(streamCtx, corpus, generate)

	written := 0

	for test := range stream {
		path := w.fs.JoinPath(string(args.Output), strconv.Itoa(test.Index))

		if err := w.fs.WriteFile(path, test.Data, 0o600); err != nil {
			return fmt.Errorf("failed to write test case %d: %w", test.Index, err)
		}

		w.ui.DisplaySessionCompleted(ctx, test, path)

		written++
	}

	if err := <-errCh; err != nil {
		if written == 0 {
			return fmt.Errorf("generation failed: %w", err)
		}
		// Failed sessions do not invalidate the ones that completed.
		slog.Error("Some sessions failed", "written", written, "error", err)
	}

	w.ui.DisplaySummary(ctx, written, args.Output)
	w.ui.Wait(ctx)

	return nil
}

// List parses the corpus and displays per-file node statistics plus the
// number of non-trivial compatible splices the corpus offers.
func (w *workflow) List(ctx context.Context, args WorkflowArgs) error {
	grammar, _, corpus, err := w.prepare(ctx, args)
	if err != nil {
		return err
	}

	parsed := make([]m.ParsedSource, 0, len(corpus))

	defer func() {
		for i := range parsed {
			parsed[i].Close()
		}
	}()

	stats := make([]m.CorpusStat, 0, len(corpus))

	for _, source := range corpus {
		ps, err := grammar.ParseSource(ctx, source)
		if err != nil {
			return err
		}

		parsed = append(parsed, ps)
		stats = append(stats, corpusStat(ps))
	}

	index := operators.BuildIndex(parsed)

	if err := w.ui.Start(ctx); err != nil {
		return err
	}
	defer w.ui.Close(ctx)

	return w.ui.DisplayCorpus(ctx, stats, index.Possible())
}

// prepare resolves the grammar, optional node-types metadata, and the
// screened corpus shared by every command.
func (w *workflow) prepare(ctx context.Context, args WorkflowArgs) (adapter.GrammarAdapter, *adapter.NodeTypes, []m.Source, error) {
	grammar, err := adapter.NewTreeSitterAdapter(args.Language)
	if err != nil {
		return nil, nil, nil, err
	}

	var types *adapter.NodeTypes

	if args.NodeTypesPath != "" {
		types, err = adapter.LoadNodeTypes(args.NodeTypesPath)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	sources, err := w.fs.DiscoverSources(args.Paths, grammar.Extensions(), args.Exclude)
	if err != nil {
		return nil, nil, nil, err
	}

	corpus, err := w.screenCorpus(ctx, grammar, sources, args.OnParseError)
	if err != nil {
		return nil, nil, nil, err
	}

	if len(corpus) == 0 {
		return nil, nil, nil, fmt.Errorf("no corpus files for language %q under %v", args.Language, args.Paths)
	}

	return grammar, types, corpus, nil
}

// screenCorpus applies the parse-error policy to each input file. Parsing
// is total, so "failure" here means the tree contains error nodes.
func (w *workflow) screenCorpus(ctx context.Context, grammar adapter.GrammarAdapter, sources []m.Source, policy ParseErrorPolicy) ([]m.Source, error) {
	corpus := make([]m.Source, 0, len(sources))

	for _, source := range sources {
		ps, err := grammar.ParseSource(ctx, source)
		if err != nil {
			return nil, err
		}

		hasError := ps.Tree.RootNode().HasError()
		ps.Close()

		if hasError {
			switch policy {
			case ParseErrorWarn:
				slog.Warn("Skipping input with parse errors", "path", source.Origin)
				continue
			case ParseErrorError:
				return nil, fmt.Errorf("parse error in %s", source.Origin)
			default:
				// Ignore: error nodes are ordinary, if low-quality, content.
			}
		}

		corpus = append(corpus, source)
	}

	return corpus, nil
}

func corpusStat(ps m.ParsedSource) m.CorpusStat {
	nodes := 0
	kinds := make(map[string]struct{})

	operators.Traverse(ps.Tree.RootNode(), func(node *sitter.Node) {
		nodes++
		kinds[node.Type()] = struct{}{}
	})

	return m.CorpusStat{
		Origin:   ps.Origin,
		Bytes:    len(ps.Text),
		Nodes:    nodes,
		Kinds:    len(kinds),
		HasError: ps.Tree.RootNode().HasError(),
	}
}
