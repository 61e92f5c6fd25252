package operators

import (
	"math/rand"

	sitter "github.com/smacker/go-tree-sitter"

	"graft.dev/pkg/graft/internal/adapter"
	m "graft.dev/pkg/graft/internal/model"
)

// Request carries everything an operator needs for one application.
type Request struct {
	// Text is the current buffer of the target tree. When re-parsing is
	// disabled it may be newer than the tree the target node came from, in
	// which case stale ranges make the operator yield no edit.
	Text   []byte
	Target *sitter.Node
	TreeID int
	Index  *Index
	// Types is the optional node-types metadata; nil when none was loaded.
	Types *adapter.NodeTypes
	Rand  *rand.Rand
}

// Operator proposes a structural edit for the target node, or reports that
// no edit is possible this round.
type Operator func(req Request) (m.Edit, bool)

// Traverse visits root and all its descendants in pre-order.
func Traverse(root *sitter.Node, fn func(*sitter.Node)) {
	if root == nil {
		return
	}

	fn(root)

	for i := 0; i < int(root.ChildCount()); i++ {
		Traverse(root.Child(i), fn)
	}
}

// FieldName returns the field name the node occupies in its parent, or ""
// when the node is not a named field child.
func FieldName(node *sitter.Node) string {
	parent := node.Parent()
	if parent == nil {
		return ""
	}

	for i := 0; i < int(parent.ChildCount()); i++ {
		child := parent.Child(i)
		if child != nil && child.Equal(node) {
			return parent.FieldNameForChild(i)
		}
	}

	return ""
}

// nodeText slices the node's byte range out of text. Reports false when the
// range does not fit the buffer (stale ranges after an un-reparsed edit).
func nodeText(text []byte, node *sitter.Node) ([]byte, bool) {
	start, end := node.StartByte(), node.EndByte()
	if start > end || int(end) > len(text) {
		return nil, false
	}

	return text[start:end], true
}
