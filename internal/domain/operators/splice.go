package operators

import (
	"bytes"

	m "graft.dev/pkg/graft/internal/model"
)

// Splice replaces the target node's byte range with the verbatim text of a
// donor sharing its shape: same kind, and same field name when the target
// occupies a named field. The donor is drawn uniformly from the candidate
// list; the replaced position keeps its grammar kind, but the text inside
// the replacement is arbitrary corpus content.
func Splice(req Request) (m.Edit, bool) {
	if req.Target == nil {
		return m.Edit{}, false
	}

	snippet, ok := nodeText(req.Text, req.Target)
	if !ok {
		return m.Edit{}, false
	}

	kind := req.Target.Type()

	candidates := req.Index.Candidates(kind)
	if field := FieldName(req.Target); field != "" {
		if scoped := req.Index.FieldCandidates(kind, field); len(scoped) > 0 {
			candidates = scoped
		}
	}

	if len(candidates) == 0 {
		return m.Edit{}, false
	}

	// The sole donor being the target's own text means every splice would
	// be a no-op; report no edit instead.
	if len(candidates) == 1 && bytes.Equal(candidates[0].Text, snippet) {
		return m.Edit{}, false
	}

	donor := candidates[req.Rand.Intn(len(candidates))]

	return m.Edit{
		StartByte:   req.Target.StartByte(),
		EndByte:     req.Target.EndByte(),
		Replacement: donor.Text,
	}, true
}
