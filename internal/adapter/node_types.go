package adapter

import (
	"encoding/json"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
)

// node-types.json schema, as shipped with every tree-sitter grammar.
type nodeTypeEntry struct {
	Type     string               `json:"type"`
	Named    bool                 `json:"named"`
	Children childSpec            `json:"children"`
	Fields   map[string]childSpec `json:"fields"`
	Subtypes []subtypeRef         `json:"subtypes"`
}

type childSpec struct {
	Multiple bool         `json:"multiple"`
	Required bool         `json:"required"`
	Types    []subtypeRef `json:"types"`
}

type subtypeRef struct {
	Type  string `json:"type"`
	Named bool   `json:"named"`
}

type fieldInfo struct {
	parentType string
	multiple   bool
	required   bool
}

// NodeTypes carries grammar metadata parsed from a node-types.json file.
// It answers the one structural question the mutation operators cannot read
// off a concrete tree: whether a node is optional within its parent's shape.
type NodeTypes struct {
	subtypes map[string][]string
	// child kind -> every parent field that can hold it, with the field's
	// multiple/required flags expanded through subtype closure.
	reverseFields map[string][]fieldInfo
}

// NewNodeTypes parses node-types.json content.
func NewNodeTypes(data []byte) (*NodeTypes, error) {
	var entries []nodeTypeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse node-types metadata: %w", err)
	}

	byType := make(map[string]nodeTypeEntry, len(entries))
	for _, entry := range entries {
		byType[entry.Type] = entry
	}

	subtypes := make(map[string][]string, len(entries))
	for _, entry := range entries {
		subtypes[entry.Type] = subtypeClosure(entry.Type, byType, map[string]struct{}{})
	}

	reverseFields := make(map[string][]fieldInfo)

	for _, entry := range entries {
		for _, field := range entry.Fields {
			for _, ref := range field.Types {
				for _, concrete := range closureOrSelf(subtypes, ref.Type) {
					reverseFields[concrete] = append(reverseFields[concrete], fieldInfo{
						parentType: entry.Type,
						multiple:   field.Multiple,
						required:   field.Required,
					})
				}
			}
		}
	}

	return &NodeTypes{subtypes: subtypes, reverseFields: reverseFields}, nil
}

// LoadNodeTypes reads and parses a node-types.json file.
func LoadNodeTypes(path string) (*NodeTypes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read node-types file %s: %w", path, err)
	}

	return NewNodeTypes(data)
}

// subtypeClosure returns kind plus every transitive subtype of it.
func subtypeClosure(kind string, byType map[string]nodeTypeEntry, visited map[string]struct{}) []string {
	if _, ok := visited[kind]; ok {
		return nil
	}

	visited[kind] = struct{}{}
	closure := []string{kind}

	entry, ok := byType[kind]
	if !ok {
		return closure
	}

	for _, sub := range entry.Subtypes {
		closure = append(closure, subtypeClosure(sub.Type, byType, visited)...)
	}

	return closure
}

func closureOrSelf(subtypes map[string][]string, kind string) []string {
	if closure, ok := subtypes[kind]; ok {
		return closure
	}

	return []string{kind}
}

// Subtypes returns kind plus its transitive subtypes, or nil when the kind
// is not in the metadata.
func (nt *NodeTypes) Subtypes(kind string) []string {
	return nt.subtypes[kind]
}

// OptionalKind reports whether a node of kind may be deleted from under a
// parent of parentKind without violating the parent's shape. Defaults to
// true when the metadata cannot answer, matching the grammar's tolerance
// for unexpected input.
func (nt *NodeTypes) OptionalKind(kind, parentKind string) bool {
	for _, info := range nt.reverseFields[kind] {
		if info.parentType == parentKind && (!info.multiple || info.required) {
			return false
		}
	}

	return true
}

// OptionalNode reports whether a concrete tree node is deletable. A node
// without a parent is considered optional.
func (nt *NodeTypes) OptionalNode(node *sitter.Node) bool {
	parent := node.Parent()
	if parent == nil {
		return true
	}

	return nt.OptionalKind(node.Type(), parent.Type())
}
