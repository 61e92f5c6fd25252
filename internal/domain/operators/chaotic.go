package operators

import (
	m "graft.dev/pkg/graft/internal/model"
)

// Chaotic splices the target with a donor drawn from any shape in the
// corpus, deliberately bypassing the compatibility check. Outputs may fail
// to parse cleanly; that is the point: chaotic splices exercise a target
// tool's error-recovery and diagnostic paths.
func Chaotic(req Request) (m.Edit, bool) {
	if req.Target == nil {
		return m.Edit{}, false
	}

	if _, ok := nodeText(req.Text, req.Target); !ok {
		return m.Edit{}, false
	}

	kinds := req.Index.Kinds()
	if len(kinds) == 0 {
		return m.Edit{}, false
	}

	kind := kinds[req.Rand.Intn(len(kinds))]

	candidates := req.Index.Candidates(kind)
	if len(candidates) == 0 {
		return m.Edit{}, false
	}

	donor := candidates[req.Rand.Intn(len(candidates))]

	return m.Edit{
		StartByte:   req.Target.StartByte(),
		EndByte:     req.Target.EndByte(),
		Replacement: donor.Text,
	}, true
}
