// Package operators contains the mutation operators and the tree index they
// consult. Operators are pure functions: given a target node, the index, and
// an RNG they either propose a single edit or report that no edit is
// possible.
package operators

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	m "graft.dev/pkg/graft/internal/model"
)

// Entry is one donor occurrence in the corpus.
type Entry struct {
	TreeID int
	Node   *sitter.Node
	Text   []byte
}

// Index maps node shape to donor entries. Shape is the grammar node kind,
// optionally scoped by the field name the node occupies in its parent.
// Node content is deliberately not part of the shape, so matching is purely
// syntactic.
type Index struct {
	byKind  map[string][]Entry
	byField map[string][]Entry
	kinds   []string
}

// BuildIndex indexes every node of every tree in the corpus. Donor texts
// are deduplicated per shape key. Entry order is deterministic: corpus
// order, then pre-order traversal, so a seeded session replays exactly.
func BuildIndex(corpus []m.ParsedSource) *Index {
	ix := &Index{
		byKind:  make(map[string][]Entry),
		byField: make(map[string][]Entry),
	}

	seen := make(map[string]map[string]struct{})

	add := func(table map[string][]Entry, key string, entry Entry) {
		texts, ok := seen[key]
		if !ok {
			texts = make(map[string]struct{})
			seen[key] = texts
		}

		if _, dup := texts[string(entry.Text)]; dup {
			return
		}

		texts[string(entry.Text)] = struct{}{}
		table[key] = append(table[key], entry)
	}

	for treeID, parsed := range corpus {
		if parsed.Tree == nil {
			continue
		}

		text := parsed.Text

		Traverse(parsed.Tree.RootNode(), func(node *sitter.Node) {
			snippet, ok := nodeText(text, node)
			if !ok {
				return
			}

			entry := Entry{TreeID: treeID, Node: node, Text: snippet}
			kind := node.Type()

			add(ix.byKind, kindKey(kind), entry)

			if field := FieldName(node); field != "" {
				add(ix.byField, fieldKey(kind, field), entry)
			}
		})
	}

	ix.kinds = make([]string, 0, len(ix.byKind))
	for key := range ix.byKind {
		ix.kinds = append(ix.kinds, key)
	}

	sort.Strings(ix.kinds)

	return ix
}

// Candidates returns the donors for a node kind, in deterministic order.
// Empty when no compatible donor exists anywhere in the corpus.
func (ix *Index) Candidates(kind string) []Entry {
	return ix.byKind[kindKey(kind)]
}

// FieldCandidates returns the donors that occupy the named field under a
// parent, scoped by kind.
func (ix *Index) FieldCandidates(kind, field string) []Entry {
	return ix.byField[fieldKey(kind, field)]
}

// Kinds returns every indexed node kind, sorted.
func (ix *Index) Kinds() []string {
	return ix.kinds
}

// Possible counts the distinct splice donors beyond the first per kind, an
// estimate of how many non-trivial compatible splices the corpus offers.
func (ix *Index) Possible() int {
	possible := 0

	for _, entries := range ix.byKind {
		if len(entries) > 1 {
			possible += len(entries) - 1
		}
	}

	return possible
}

func kindKey(kind string) string {
	return kind
}

func fieldKey(kind, field string) string {
	// \x00 cannot appear in grammar identifiers.
	return kind + "\x00" + field
}
