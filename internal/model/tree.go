package model

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// ParsedSource pairs a source buffer with the syntax tree parsed from it.
// Node byte ranges in Tree are only valid against this exact Text; after any
// edit a new buffer (and a new tree) must be produced.
type ParsedSource struct {
	Origin Path
	Text   []byte
	Tree   *sitter.Tree
}

// Close releases the underlying tree. Safe on a zero value.
func (p *ParsedSource) Close() {
	if p.Tree != nil {
		p.Tree.Close()
		p.Tree = nil
	}
}
