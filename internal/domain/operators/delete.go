package operators

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"graft.dev/pkg/graft/internal/adapter"
	m "graft.dev/pkg/graft/internal/model"
)

// Delete removes the target node's entire byte range, applicable only when
// the grammar marks the node optional within its parent. No separator
// repair is attempted: a deletion that leaves dangling punctuation may
// introduce a syntax error, and that is acceptable output.
func Delete(req Request) (m.Edit, bool) {
	if req.Target == nil {
		return m.Edit{}, false
	}

	if _, ok := nodeText(req.Text, req.Target); !ok {
		return m.Edit{}, false
	}

	if !deletable(req.Target, req.Types) {
		return m.Edit{}, false
	}

	return m.Edit{
		StartByte: req.Target.StartByte(),
		EndByte:   req.Target.EndByte(),
	}, true
}

func deletable(node *sitter.Node, types *adapter.NodeTypes) bool {
	if types != nil {
		return types.OptionalNode(node)
	}

	return heuristicOptional(node)
}

// heuristicOptional approximates optionality when no node-types metadata is
// loaded: comments are always deletable, and a named node with a same-kind
// named sibling sits in a repeated position. A grammar-required singleton
// child is never claimed optional by this rule.
func heuristicOptional(node *sitter.Node) bool {
	parent := node.Parent()
	if parent == nil {
		return true
	}

	kind := node.Type()
	if strings.Contains(kind, "comment") {
		return true
	}

	if !node.IsNamed() {
		return false
	}

	sameKind := 0

	for i := 0; i < int(parent.NamedChildCount()); i++ {
		if parent.NamedChild(i).Type() == kind {
			sameKind++
		}

		if sameKind > 1 {
			return true
		}
	}

	return false
}
