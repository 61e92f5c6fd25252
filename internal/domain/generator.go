package domain

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"graft.dev/pkg/graft/internal/adapter"
	m "graft.dev/pkg/graft/internal/model"
)

// GenerateArgs configures a batch of independent sessions.
type GenerateArgs struct {
	// Count is how many outputs to generate, one session each.
	Count int
	// Threads bounds how many sessions run concurrently.
	Threads int
	// Session is the per-session configuration; session i runs with seed
	// Session.Seed + i, so a batch is reproducible from its base seed.
	Session SessionConfig
}

// Generator produces a lazy, finite sequence of generated test cases. The
// sequence is restartable only by re-invoking with an explicit seed, not
// resumable mid-stream.
type Generator interface {
	Stream(ctx context.Context, corpus []m.Source, args GenerateArgs) (<-chan m.TestCase, <-chan error)
}

type generator struct {
	grammar adapter.GrammarAdapter
	types   *adapter.NodeTypes
}

// NewGenerator constructs a Generator. types may be nil.
func NewGenerator(grammar adapter.GrammarAdapter, types *adapter.NodeTypes) Generator {
	return &generator{grammar: grammar, types: types}
}

// Stream runs args.Count sessions across a bounded worker pool and sends
// each result as it completes. Sessions share nothing but the read-only
// corpus, so the only coordination is seed distribution. A failed session
// is reported on the error channel without stopping the others; the error
// channel carries at most the first failure.
func (g *generator) Stream(ctx context.Context, corpus []m.Source, args GenerateArgs) (<-chan m.TestCase, <-chan error) {
	threads := args.Threads
	if threads <= 0 {
		threads = 1
	}

	out := make(chan m.TestCase, threads)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(threads)

		for i := 0; i < args.Count; i++ {
			session := i

			group.Go(func() error {
				config := args.Session
				config.Seed = args.Session.Seed + int64(session)

				splicer := NewSplicer(g.grammar, g.types, config)

				data, err := splicer.Run(groupCtx, corpus)
				if err != nil {
					slog.Error("Session failed", "session", session, "error", err)
					select {
					case errCh <- err:
					default:
					}

					return nil
				}

				select {
				case <-groupCtx.Done():
					return groupCtx.Err()
				case out <- m.TestCase{Index: session, Data: data}:
					return nil
				}
			})
		}

		if err := group.Wait(); err != nil {
			select {
			case errCh <- err:
			default:
			}
		}
	}()

	return out, errCh
}
