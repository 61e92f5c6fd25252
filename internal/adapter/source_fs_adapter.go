package adapter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	m "graft.dev/pkg/graft/internal/model"
)

// SourceFSAdapter abstracts filesystem operations the domain layer relies on
// when loading corpus files and writing generated tests. It hides direct
// `os` access so the workflow logic can be tested without touching the disk.
type SourceFSAdapter interface {
	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// ReadStdin drains stdin. Used when a corpus path is "-".
	ReadStdin() ([]byte, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// MkdirAll creates the output directory tree.
	MkdirAll(path m.Path, perm os.FileMode) error

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path

	// DiscoverSources resolves corpus arguments into loaded sources. A
	// directory argument is walked for files matching extensions; a file
	// argument is loaded as-is; "-" reads stdin. Files matching any exclude
	// regex are dropped. Results are ordered by path.
	DiscoverSources(paths []m.Path, extensions []string, exclude []string) ([]m.Source, error)
}

// LocalSourceFSAdapter is the concrete SourceFSAdapter backed by the local
// filesystem.
type LocalSourceFSAdapter struct {
	stdin io.Reader
}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{stdin: os.Stdin}
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// ReadStdin drains stdin.
func (a *LocalSourceFSAdapter) ReadStdin() ([]byte, error) {
	return io.ReadAll(a.stdin)
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// MkdirAll creates the directory and any missing parents.
func (a *LocalSourceFSAdapter) MkdirAll(path m.Path, perm os.FileMode) error {
	return os.MkdirAll(string(path), perm)
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

// DiscoverSources resolves corpus arguments into loaded sources.
func (a *LocalSourceFSAdapter) DiscoverSources(paths []m.Path, extensions []string, exclude []string) ([]m.Source, error) {
	excludes, err := compilePatterns(exclude)
	if err != nil {
		return nil, err
	}

	var files []m.Path

	sawStdin := false

	for _, path := range paths {
		if path == "-" {
			sawStdin = true
			continue
		}

		info, err := os.Stat(string(path))
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		walked, err := a.walkDir(path, extensions)
		if err != nil {
			return nil, err
		}

		files = append(files, walked...)
	}

	files = dropExcluded(files, excludes)
	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })

	sources := make([]m.Source, 0, len(files)+1)

	if sawStdin {
		content, err := a.ReadStdin()
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}

		sources = append(sources, m.Source{Origin: m.StdinPath, Content: content})
	}

	for _, file := range files {
		content, err := a.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		sources = append(sources, m.Source{Origin: file, Content: content})
	}

	return sources, nil
}

func (a *LocalSourceFSAdapter) walkDir(root m.Path, extensions []string) ([]m.Path, error) {
	var files []m.Path

	err := filepath.Walk(string(root), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			base := filepath.Base(path)
			if base == ".git" || base == "vendor" || base == "node_modules" {
				return filepath.SkipDir
			}

			return nil
		}

		if matchesExtension(path, extensions) {
			files = append(files, m.Path(path))
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return files, nil
}

func matchesExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, want := range extensions {
		if ext == want {
			return true
		}
	}

	return false
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		compiled = append(compiled, re)
	}

	return compiled, nil
}

func dropExcluded(files []m.Path, excludes []*regexp.Regexp) []m.Path {
	if len(excludes) == 0 {
		return files
	}

	kept := files[:0]

	for _, file := range files {
		excluded := false

		for _, re := range excludes {
			if re.MatchString(string(file)) {
				excluded = true
				break
			}
		}

		if !excluded {
			kept = append(kept, file)
		}
	}

	return kept
}
