package domain

import "fmt"

// Fallback ids are derived from position only, so synthesizing them twice
// over the same sequence yields the same ids. Present ids are never replaced.

// UseCaseID returns id, or "UC{index+1}" when id is empty.
func UseCaseID(id string, index int) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("UC%d", index+1)
}

// PhraseID returns id, or "P{index+1}" when id is empty.
func PhraseID(id string, index int) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("P%d", index+1)
}

// AlternativeFlowID returns id, or "AF{index+1}" when id is empty.
func AlternativeFlowID(id string, index int) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("AF%d", index+1)
}

// AlternativeFlowPhraseID returns id, or "AF{flowIndex+1}-{index+1}" when id is empty.
func AlternativeFlowPhraseID(id string, flowIndex, index int) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("AF%d-%d", flowIndex+1, index+1)
}

// WithPhraseIDs returns a copy of ps where every phrase lacking an id gets
// its positional fallback.
func WithPhraseIDs(ps Phrases) Phrases {
	out := make(Phrases, len(ps))
	for i, p := range ps {
		out[i] = Phrase{ID: PhraseID(p.ID, i), Text: p.Text}
	}
	return out
}

// WithAlternativeFlowIDs returns a copy of flows where every flow and nested
// step lacking an id gets its positional fallback.
func WithAlternativeFlowIDs(flows []AlternativeFlow) []AlternativeFlow {
	out := make([]AlternativeFlow, len(flows))
	for j, af := range flows {
		steps := make(Phrases, len(af.Flows))
		for k, p := range af.Flows {
			steps[k] = Phrase{ID: AlternativeFlowPhraseID(p.ID, j, k), Text: p.Text}
		}
		af.ID = AlternativeFlowID(af.ID, j)
		af.Flows = steps
		out[j] = af
	}
	return out
}
