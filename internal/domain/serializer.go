// Package domain contains the core splicing engine and session workflow.
package domain

import (
	"fmt"

	m "graft.dev/pkg/graft/internal/model"
)

// ApplyEdit renders a new buffer with the single edit applied. Every byte
// outside the edited range is carried over verbatim.
func ApplyEdit(text []byte, edit m.Edit) ([]byte, error) {
	if edit.StartByte > edit.EndByte || int(edit.EndByte) > len(text) {
		return nil, fmt.Errorf("edit range [%d, %d) out of bounds for %d-byte buffer", edit.StartByte, edit.EndByte, len(text))
	}

	out := make([]byte, 0, len(text)-edit.Len()+len(edit.Replacement))
	out = append(out, text[:edit.StartByte]...)
	out = append(out, edit.Replacement...)
	out = append(out, text[edit.EndByte:]...)

	return out, nil
}
