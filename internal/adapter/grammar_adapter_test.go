package adapter

import (
	"context"
	"sort"
	"testing"

	m "graft.dev/pkg/graft/internal/model"
)

func TestNewTreeSitterAdapter_UnknownLanguage(t *testing.T) {
	_, err := NewTreeSitterAdapter("cobol")
	if err == nil {
		t.Fatalf("NewTreeSitterAdapter() expected error for unknown language")
	}
}

func TestNewTreeSitterAdapter_CaseInsensitive(t *testing.T) {
	adapter, err := NewTreeSitterAdapter("Go")
	if err != nil {
		t.Fatalf("NewTreeSitterAdapter() error = %v", err)
	}

	if adapter.LanguageName() != "go" {
		t.Fatalf("LanguageName() = %q, want %q", adapter.LanguageName(), "go")
	}
}

func TestTreeSitterAdapter_ParseIsTotal(t *testing.T) {
	adapter, err := NewTreeSitterAdapter("go")
	if err != nil {
		t.Fatalf("NewTreeSitterAdapter() error = %v", err)
	}

	inputs := [][]byte{
		[]byte("package main\n"),
		[]byte("!!! not go at all $$$"),
		[]byte{0x00, 0xff, 0xfe},
		{},
	}

	for _, input := range inputs {
		tree, err := adapter.Parse(context.Background(), input)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v, want nil (parsing is total)", input, err)
		}

		if tree == nil || tree.RootNode() == nil {
			t.Fatalf("Parse(%q) returned no tree", input)
		}

		tree.Close()
	}
}

func TestTreeSitterAdapter_MalformedInputYieldsErrorNodes(t *testing.T) {
	adapter, err := NewTreeSitterAdapter("go")
	if err != nil {
		t.Fatalf("NewTreeSitterAdapter() error = %v", err)
	}

	tree, err := adapter.Parse(context.Background(), []byte("func func func {{{"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	defer tree.Close()

	if !tree.RootNode().HasError() {
		t.Fatalf("Parse() of malformed input produced a clean tree")
	}
}

func TestTreeSitterAdapter_ParseSource(t *testing.T) {
	adapter, err := NewTreeSitterAdapter("go")
	if err != nil {
		t.Fatalf("NewTreeSitterAdapter() error = %v", err)
	}

	source := m.Source{Origin: "main.go", Content: []byte("package main\n\nfunc main() {}\n")}

	parsed, err := adapter.ParseSource(context.Background(), source)
	if err != nil {
		t.Fatalf("ParseSource() error = %v", err)
	}
	defer parsed.Close()

	if parsed.Origin != source.Origin {
		t.Fatalf("ParseSource() Origin = %q, want %q", parsed.Origin, source.Origin)
	}

	if string(parsed.Text) != string(source.Content) {
		t.Fatalf("ParseSource() did not carry the source text verbatim")
	}

	if parsed.Tree.RootNode().HasError() {
		t.Fatalf("ParseSource() of valid input produced error nodes")
	}
}

func TestLanguages_SortedAndComplete(t *testing.T) {
	names := Languages()

	if !sort.StringsAreSorted(names) {
		t.Fatalf("Languages() = %v, want sorted", names)
	}

	for _, want := range []string{"go", "javascript", "python", "rust", "typescript"} {
		found := false

		for _, name := range names {
			if name == want {
				found = true
				break
			}
		}

		if !found {
			t.Fatalf("Languages() = %v, missing %q", names, want)
		}
	}
}

func TestTreeSitterAdapter_Extensions(t *testing.T) {
	adapter, err := NewTreeSitterAdapter("javascript")
	if err != nil {
		t.Fatalf("NewTreeSitterAdapter() error = %v", err)
	}

	exts := adapter.Extensions()
	if len(exts) == 0 || exts[0] != ".js" {
		t.Fatalf("Extensions() = %v, want [.js ...]", exts)
	}
}
