package adapter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	m "graft.dev/pkg/graft/internal/model"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()

	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to mkdir %s: %v", path, err)
	}
}

func TestLocalSourceFSAdapter_DiscoverSources_Directory(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "b.go"), "package b\n")
	writeTestFile(t, filepath.Join(root, "a.go"), "package a\n")
	writeTestFile(t, filepath.Join(root, "notes.txt"), "not source\n")

	nested := filepath.Join(root, "nested")
	mustMkdir(t, nested)
	writeTestFile(t, filepath.Join(nested, "c.go"), "package c\n")

	sources, err := adapter.DiscoverSources([]m.Path{m.Path(root)}, []string{".go"}, nil)
	if err != nil {
		t.Fatalf("DiscoverSources() error = %v", err)
	}

	if len(sources) != 3 {
		t.Fatalf("DiscoverSources() returned %d sources, want 3", len(sources))
	}

	// Ordered by path for deterministic corpora.
	if filepath.Base(string(sources[0].Origin)) != "a.go" || filepath.Base(string(sources[1].Origin)) != "b.go" {
		t.Fatalf("DiscoverSources() not ordered by path: %v, %v", sources[0].Origin, sources[1].Origin)
	}

	if string(sources[0].Content) != "package a\n" {
		t.Fatalf("DiscoverSources() content = %q, want file contents", sources[0].Content)
	}
}

func TestLocalSourceFSAdapter_DiscoverSources_SkipsVendoredDirs(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "main.go"), "package main\n")

	for _, skipped := range []string{".git", "vendor", "node_modules"} {
		dir := filepath.Join(root, skipped)
		mustMkdir(t, dir)
		writeTestFile(t, filepath.Join(dir, "hidden.go"), "package hidden\n")
	}

	sources, err := adapter.DiscoverSources([]m.Path{m.Path(root)}, []string{".go"}, nil)
	if err != nil {
		t.Fatalf("DiscoverSources() error = %v", err)
	}

	if len(sources) != 1 {
		t.Fatalf("DiscoverSources() returned %d sources, want 1 (vendored dirs skipped)", len(sources))
	}
}

func TestLocalSourceFSAdapter_DiscoverSources_ExplicitFileBypassesExtensionFilter(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "corpus.txt")
	writeTestFile(t, path, "package main\n")

	sources, err := adapter.DiscoverSources([]m.Path{m.Path(path)}, []string{".go"}, nil)
	if err != nil {
		t.Fatalf("DiscoverSources() error = %v", err)
	}

	if len(sources) != 1 {
		t.Fatalf("DiscoverSources() returned %d sources, want 1 (explicit files are kept as-is)", len(sources))
	}
}

func TestLocalSourceFSAdapter_DiscoverSources_Exclude(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "keep.go"), "package keep\n")
	writeTestFile(t, filepath.Join(root, "keep_test.go"), "package keep\n")

	sources, err := adapter.DiscoverSources([]m.Path{m.Path(root)}, []string{".go"}, []string{`_test\.go$`})
	if err != nil {
		t.Fatalf("DiscoverSources() error = %v", err)
	}

	if len(sources) != 1 {
		t.Fatalf("DiscoverSources() returned %d sources, want 1 after exclusion", len(sources))
	}

	if filepath.Base(string(sources[0].Origin)) != "keep.go" {
		t.Fatalf("DiscoverSources() kept %s, want keep.go", sources[0].Origin)
	}
}

func TestLocalSourceFSAdapter_DiscoverSources_InvalidExclude(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	_, err := adapter.DiscoverSources([]m.Path{m.Path(t.TempDir())}, []string{".go"}, []string{"("})
	if err == nil {
		t.Fatalf("DiscoverSources() expected error for invalid exclude pattern")
	}
}

func TestLocalSourceFSAdapter_DiscoverSources_Stdin(t *testing.T) {
	adapter := &LocalSourceFSAdapter{stdin: strings.NewReader("package stdin\n")}

	sources, err := adapter.DiscoverSources([]m.Path{"-"}, []string{".go"}, nil)
	if err != nil {
		t.Fatalf("DiscoverSources() error = %v", err)
	}

	if len(sources) != 1 {
		t.Fatalf("DiscoverSources() returned %d sources, want 1", len(sources))
	}

	if sources[0].Origin != m.StdinPath {
		t.Fatalf("DiscoverSources() Origin = %q, want %q", sources[0].Origin, m.StdinPath)
	}

	if string(sources[0].Content) != "package stdin\n" {
		t.Fatalf("DiscoverSources() stdin content = %q", sources[0].Content)
	}
}

func TestLocalSourceFSAdapter_DiscoverSources_MissingPath(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	_, err := adapter.DiscoverSources([]m.Path{"definitely-not-here"}, []string{".go"}, nil)
	if err == nil {
		t.Fatalf("DiscoverSources() expected error for missing path")
	}
}

func TestLocalSourceFSAdapter_WriteAndRead(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	dir := adapter.JoinPath(root, "out", "deep")

	if err := adapter.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	path := adapter.JoinPath(string(dir), "0")
	if err := adapter.WriteFile(path, []byte("generated"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	content, err := adapter.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(content) != "generated" {
		t.Fatalf("ReadFile() = %q, want %q", content, "generated")
	}
}
