package domain

import (
	"bytes"
	"encoding/json"
	"slices"
)

// Phrase is one step of a flow. Its ID is unique within the owning use case.
type Phrase struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Phrases is an ordered flow. Order is significant: the UI numbers steps 1..N.
type Phrases []Phrase

// UnmarshalJSON accepts both the current object shape and the legacy shape,
// where a flow was stored as a plain list of strings. Legacy entries decode
// with an empty ID; exporters synthesize positional ids for them.
func (p *Phrases) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = nil
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Phrases, 0, len(raw))
	for _, item := range raw {
		var text string
		if err := json.Unmarshal(item, &text); err == nil {
			out = append(out, Phrase{Text: text})
			continue
		}
		var phrase Phrase
		if err := json.Unmarshal(item, &phrase); err != nil {
			return err
		}
		out = append(out, phrase)
	}
	*p = out
	return nil
}

// Index returns the position of the phrase with the given id, or -1.
func (p Phrases) Index(id string) int {
	return slices.IndexFunc(p, func(ph Phrase) bool { return ph.ID == id })
}

// FlowKind distinguishes regular alternatives from exception flows.
type FlowKind string

const (
	FlowKindAlternative FlowKind = "alternative"
	FlowKindException   FlowKind = "exception"
)

// Valid reports whether k is a known kind.
func (k FlowKind) Valid() bool {
	return k == FlowKindAlternative || k == FlowKindException
}

// NormalizeFlowKind maps anything but "exception" to FlowKindAlternative.
func NormalizeFlowKind(s string) FlowKind {
	if FlowKind(s) == FlowKindException {
		return FlowKindException
	}
	return FlowKindAlternative
}

// AlternativeFlow is a branch triggered at ParentPhraseID of the main flow.
// When ReturnPhraseID is set the branch rejoins the main flow there,
// otherwise it terminates the use case.
type AlternativeFlow struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Kind           FlowKind `json:"kind,omitempty"`
	ParentPhraseID string   `json:"parentPhraseId"`
	ReturnPhraseID string   `json:"returnPhraseId,omitempty"`
	Flows          Phrases  `json:"flows"`
}

// UseCase is a named unit of system behavior.
type UseCase struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	Phrases          Phrases           `json:"phrases"`
	AlternativeFlows []AlternativeFlow `json:"alternativeFlows"`
}

// clone returns a deep copy of the use case.
func (u UseCase) clone() UseCase {
	u.Phrases = slices.Clone(u.Phrases)
	if u.AlternativeFlows != nil {
		flows := make([]AlternativeFlow, len(u.AlternativeFlows))
		for i, af := range u.AlternativeFlows {
			af.Flows = slices.Clone(af.Flows)
			flows[i] = af
		}
		u.AlternativeFlows = flows
	}
	return u
}
