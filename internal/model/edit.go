package model

// Edit is a single byte-range replacement against one text buffer. An empty
// Replacement is a deletion. StartByte/EndByte follow tree-sitter's
// half-open [start, end) convention.
type Edit struct {
	StartByte   uint32
	EndByte     uint32
	Replacement []byte
}

// Len returns the length of the replaced range.
func (e Edit) Len() int {
	return int(e.EndByte) - int(e.StartByte)
}
