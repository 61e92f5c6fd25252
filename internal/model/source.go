// Package model defines the data structures for grammar-driven test-case
// generation.
package model

// Path represents a file system path.
type Path string

// StdinPath is the pseudo-path used for a corpus file read from stdin.
const StdinPath Path = "<stdin>"

// Source is one corpus input: raw bytes plus where they came from.
type Source struct {
	Origin  Path
	Content []byte
}

// TestCase is one generated output text. Index is the session number the
// text was produced by; outputs carry no other metadata.
type TestCase struct {
	Index int
	Data  []byte
}

// CorpusStat summarizes one parsed corpus file for listing.
type CorpusStat struct {
	Origin   Path
	Bytes    int
	Nodes    int
	Kinds    int
	HasError bool
}
