// Package adapter contains grammar and infrastructure adapters for the
// graft CLI.
package adapter

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	m "graft.dev/pkg/graft/internal/model"
)

// GrammarAdapter wraps exactly one language grammar. Parse is total over
// arbitrary byte input: malformed source yields a tree containing error and
// missing nodes, never a parse failure. The only returned error is context
// cancellation.
type GrammarAdapter interface {
	// Parse builds a syntax tree over content. The caller owns the tree and
	// must Close it.
	Parse(ctx context.Context, content []byte) (*sitter.Tree, error)

	// ParseSource parses a corpus input into a ParsedSource.
	ParseSource(ctx context.Context, source m.Source) (m.ParsedSource, error)

	// LanguageName returns the registry name of the bound grammar.
	LanguageName() string

	// Extensions returns the file extensions scanned for this language.
	Extensions() []string
}

type grammarEntry struct {
	language   *sitter.Language
	extensions []string
}

// Grammars are a capability-indexed set: adding a language means adding a
// registry entry, not touching the engine.
var grammars = map[string]grammarEntry{
	"go":         {golang.GetLanguage(), []string{".go"}},
	"javascript": {javascript.GetLanguage(), []string{".js", ".mjs", ".cjs"}},
	"python":     {python.GetLanguage(), []string{".py"}},
	"rust":       {rust.GetLanguage(), []string{".rs"}},
	"typescript": {typescript.GetLanguage(), []string{".ts"}},
}

// Languages returns the registered grammar names, sorted.
func Languages() []string {
	names := make([]string, 0, len(grammars))
	for name := range grammars {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// TreeSitterAdapter is the concrete GrammarAdapter backed by tree-sitter.
type TreeSitterAdapter struct {
	name  string
	entry grammarEntry
}

// NewTreeSitterAdapter constructs an adapter for a registered language name.
func NewTreeSitterAdapter(language string) (*TreeSitterAdapter, error) {
	entry, ok := grammars[strings.ToLower(language)]
	if !ok {
		return nil, fmt.Errorf("unknown language %q (available: %s)", language, strings.Join(Languages(), ", "))
	}

	return &TreeSitterAdapter{name: strings.ToLower(language), entry: entry}, nil
}

// Parse builds a syntax tree over content. A fresh parser is used per call
// so the adapter can serve concurrent sessions.
func (a *TreeSitterAdapter) Parse(ctx context.Context, content []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(a.entry.language)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	return tree, nil
}

// ParseSource parses one corpus input.
func (a *TreeSitterAdapter) ParseSource(ctx context.Context, source m.Source) (m.ParsedSource, error) {
	tree, err := a.Parse(ctx, source.Content)
	if err != nil {
		return m.ParsedSource{}, fmt.Errorf("failed to parse %s: %w", source.Origin, err)
	}

	return m.ParsedSource{Origin: source.Origin, Text: source.Content, Tree: tree}, nil
}

// LanguageName returns the registry name of the bound grammar.
func (a *TreeSitterAdapter) LanguageName() string {
	return a.name
}

// Extensions returns the file extensions scanned for this language.
func (a *TreeSitterAdapter) Extensions() []string {
	return a.entry.extensions
}
