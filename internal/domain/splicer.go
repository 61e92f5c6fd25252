package domain

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	sitter "github.com/smacker/go-tree-sitter"

	"graft.dev/pkg/graft/internal/adapter"
	"graft.dev/pkg/graft/internal/domain/operators"
	m "graft.dev/pkg/graft/internal/model"
)

// SessionConfig configures one mutation session.
type SessionConfig struct {
	// Mutations is the maximum round count; the actual budget is drawn
	// uniformly in [1, Mutations] at session start.
	Mutations int
	// MaxSize caps the generated text in bytes. An edit that would push the
	// text over the cap ends the session with the last under-cap text.
	MaxSize int
	// Seed makes the session deterministic: same corpus, same config, same
	// seed, same output.
	Seed int64
	// Reparse re-derives the tree after every applied edit. Disabling it
	// trades multi-round stacking correctness for speed: node ranges go
	// stale and edits that no longer fit the buffer are skipped.
	Reparse bool
	// Chaotic enables the shape-unchecked splice operator.
	Chaotic bool
}

// Splicer runs mutation sessions: it picks a target from the corpus,
// mutates it for a bounded number of rounds, and emits the resulting text.
// A session that never applies an edit still emits its input verbatim.
type Splicer struct {
	grammar adapter.GrammarAdapter
	types   *adapter.NodeTypes
	config  SessionConfig
}

// NewSplicer constructs a Splicer. types may be nil when no node-types
// metadata is available; the deletion operator then falls back to a
// structural heuristic.
func NewSplicer(grammar adapter.GrammarAdapter, types *adapter.NodeTypes, config SessionConfig) *Splicer {
	return &Splicer{grammar: grammar, types: types, config: config}
}

// Run executes one session over the corpus and returns the generated text.
// The corpus is parsed fresh per session so concurrent sessions never share
// trees. Cancelling ctx at a round boundary returns the text of the last
// completed round.
func (s *Splicer) Run(ctx context.Context, corpus []m.Source) ([]byte, error) {
	if len(corpus) == 0 {
		return nil, fmt.Errorf("empty corpus")
	}

	maxSize := s.config.MaxSize
	if maxSize <= 0 {
		return nil, fmt.Errorf("max size must be positive, got %d", maxSize)
	}

	rng := rand.New(rand.NewSource(s.config.Seed))

	parsed, err := s.parseCorpus(ctx, corpus)
	if err != nil {
		return nil, err
	}

	defer func() {
		for i := range parsed {
			parsed[i].Close()
		}
	}()

	targetID, err := s.pickTarget(rng, parsed)
	if err != nil {
		return nil, err
	}

	rounds := 1 + rng.Intn(max(1, s.config.Mutations))
	slog.Debug("Starting session", "seed", s.config.Seed, "rounds", rounds, "target", parsed[targetID].Origin)

	text := append([]byte(nil), parsed[targetID].Text...)
	tree := parsed[targetID].Tree
	treeOwned := false

	defer func() {
		if treeOwned {
			tree.Close()
		}
	}()

	for remaining := rounds; remaining > 0; remaining-- {
		if ctx.Err() != nil || len(text) > maxSize {
			break
		}

		edit, ok := s.mutateRound(rng, parsed, targetID, text, tree)
		if !ok {
			// No admissible edit this round; the budget still shrinks so
			// degenerate inputs (e.g. empty files) cannot loop forever.
			continue
		}

		next, err := ApplyEdit(text, edit)
		if err != nil {
			slog.Debug("Skipping edit with stale range", "error", err)
			continue
		}

		if len(next) > maxSize {
			slog.Debug("Size cap reached, ending session", "size", len(next), "max", maxSize)
			break
		}

		text = next

		if s.config.Reparse {
			newTree, err := s.grammar.Parse(ctx, text)
			if err != nil {
				return nil, err
			}

			if treeOwned {
				tree.Close()
			}

			tree = newTree
			treeOwned = true
		}
	}

	return text, nil
}

func (s *Splicer) parseCorpus(ctx context.Context, corpus []m.Source) ([]m.ParsedSource, error) {
	parsed := make([]m.ParsedSource, 0, len(corpus))

	for _, source := range corpus {
		ps, err := s.grammar.ParseSource(ctx, source)
		if err != nil {
			for i := range parsed {
				parsed[i].Close()
			}

			return nil, err
		}

		parsed = append(parsed, ps)
	}

	return parsed, nil
}

// pickTarget chooses the session's mutation target among inputs that fit
// under the size cap. Donor files over the cap still serve as splice
// sources.
func (s *Splicer) pickTarget(rng *rand.Rand, parsed []m.ParsedSource) (int, error) {
	eligible := make([]int, 0, len(parsed))

	for i := range parsed {
		if len(parsed[i].Text) <= s.config.MaxSize {
			eligible = append(eligible, i)
		}
	}

	if len(eligible) == 0 {
		return 0, fmt.Errorf("every corpus input exceeds max size %d", s.config.MaxSize)
	}

	return eligible[rng.Intn(len(eligible))], nil
}

// mutateRound builds the round's index, picks a target node and operator,
// and asks the operator for an edit.
func (s *Splicer) mutateRound(rng *rand.Rand, parsed []m.ParsedSource, targetID int, text []byte, tree *sitter.Tree) (m.Edit, bool) {
	working := make([]m.ParsedSource, len(parsed))
	copy(working, parsed)
	working[targetID] = m.ParsedSource{Origin: parsed[targetID].Origin, Text: text, Tree: tree}

	index := operators.BuildIndex(working)

	var nodes []*sitter.Node

	operators.Traverse(tree.RootNode(), func(node *sitter.Node) {
		nodes = append(nodes, node)
	})

	if len(nodes) == 0 {
		return m.Edit{}, false
	}

	target := nodes[rng.Intn(len(nodes))]
	op := s.pickOperator(rng)

	return op(operators.Request{
		Text:   text,
		Target: target,
		TreeID: targetID,
		Index:  index,
		Types:  s.types,
		Rand:   rng,
	})
}

// pickOperator chooses uniformly among the enabled operators.
func (s *Splicer) pickOperator(rng *rand.Rand) operators.Operator {
	ops := []operators.Operator{operators.Splice, operators.Delete}
	if s.config.Chaotic {
		ops = append(ops, operators.Chaotic)
	}

	return ops[rng.Intn(len(ops))]
}
