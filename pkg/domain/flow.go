package domain

// Flow edits target one use case and are no-ops (changed == false) when the
// use case or the nested phrase/alternative flow does not exist.

// AddPhrase appends p to the main flow of use case ucID.
func (s Snapshot) AddPhrase(ucID string, p Phrase) (Snapshot, bool) {
	return s.UpdateUseCase(ucID, func(u UseCase) UseCase {
		u.Phrases = appendTo(u.Phrases, p)
		return u
	})
}

// EditPhrase replaces the text of a main-flow phrase.
func (s Snapshot) EditPhrase(ucID, phraseID, text string) (Snapshot, bool) {
	uc, ok := s.UseCase(ucID)
	if !ok || uc.Phrases.Index(phraseID) < 0 {
		return s, false
	}
	return s.UpdateUseCase(ucID, func(u UseCase) UseCase {
		u.Phrases[u.Phrases.Index(phraseID)].Text = text
		return u
	})
}

// RemovePhrase drops a main-flow phrase. Alternative flows branching from it
// are dropped too, and flows returning to it no longer return.
func (s Snapshot) RemovePhrase(ucID, phraseID string) (Snapshot, bool) {
	uc, ok := s.UseCase(ucID)
	if !ok || uc.Phrases.Index(phraseID) < 0 {
		return s, false
	}
	return s.UpdateUseCase(ucID, func(u UseCase) UseCase {
		u.Phrases, _ = filter(u.Phrases, func(p Phrase) bool { return p.ID != phraseID })
		u.AlternativeFlows, _ = filter(u.AlternativeFlows, func(af AlternativeFlow) bool {
			return af.ParentPhraseID != phraseID
		})
		for i := range u.AlternativeFlows {
			if u.AlternativeFlows[i].ReturnPhraseID == phraseID {
				u.AlternativeFlows[i].ReturnPhraseID = ""
			}
		}
		return u
	})
}

// AddAlternativeFlow appends af to use case ucID. The branch point must be a
// step of the use case's main flow, and so must the return step when set.
func (s Snapshot) AddAlternativeFlow(ucID string, af AlternativeFlow) (Snapshot, bool) {
	uc, ok := s.UseCase(ucID)
	if !ok || af.ParentPhraseID == "" || uc.Phrases.Index(af.ParentPhraseID) < 0 || !uc.hasReturnTarget(af.ReturnPhraseID) {
		return s, false
	}
	if af.Kind == "" {
		af.Kind = FlowKindAlternative
	}
	return s.UpdateUseCase(ucID, func(u UseCase) UseCase {
		u.AlternativeFlows = appendTo(u.AlternativeFlows, af)
		return u
	})
}

// updateAlternativeFlow applies fn to the alternative flow altID of use case ucID.
func (s Snapshot) updateAlternativeFlow(ucID, altID string, fn func(AlternativeFlow) (AlternativeFlow, bool)) (Snapshot, bool) {
	uc, ok := s.UseCase(ucID)
	if !ok {
		return s, false
	}
	i := alternativeFlowIndex(uc.AlternativeFlows, altID)
	if i < 0 {
		return s, false
	}
	next, changed := fn(uc.clone().AlternativeFlows[i])
	if !changed {
		return s, false
	}
	return s.UpdateUseCase(ucID, func(u UseCase) UseCase {
		u.AlternativeFlows[i] = next
		return u
	})
}

// hasReturnTarget reports whether id is empty or a step of the main flow.
func (u UseCase) hasReturnTarget(id string) bool {
	return id == "" || u.Phrases.Index(id) >= 0
}

func alternativeFlowIndex(flows []AlternativeFlow, id string) int {
	for i, af := range flows {
		if af.ID == id {
			return i
		}
	}
	return -1
}

// RenameAlternativeFlow replaces the name of an alternative flow.
func (s Snapshot) RenameAlternativeFlow(ucID, altID, name string) (Snapshot, bool) {
	return s.updateAlternativeFlow(ucID, altID, func(af AlternativeFlow) (AlternativeFlow, bool) {
		af.Name = name
		return af, true
	})
}

// RemoveAlternativeFlow drops an alternative flow.
func (s Snapshot) RemoveAlternativeFlow(ucID, altID string) (Snapshot, bool) {
	uc, ok := s.UseCase(ucID)
	if !ok || alternativeFlowIndex(uc.AlternativeFlows, altID) < 0 {
		return s, false
	}
	return s.UpdateUseCase(ucID, func(u UseCase) UseCase {
		u.AlternativeFlows, _ = filter(u.AlternativeFlows, func(af AlternativeFlow) bool { return af.ID != altID })
		return u
	})
}

// SetAlternativeFlowReturn sets the main-flow phrase the branch rejoins.
// An empty returnPhraseID makes the branch terminate the use case; an id that
// is not a main-flow step leaves the branch untouched.
func (s Snapshot) SetAlternativeFlowReturn(ucID, altID, returnPhraseID string) (Snapshot, bool) {
	if uc, ok := s.UseCase(ucID); !ok || !uc.hasReturnTarget(returnPhraseID) {
		return s, false
	}
	return s.updateAlternativeFlow(ucID, altID, func(af AlternativeFlow) (AlternativeFlow, bool) {
		af.ReturnPhraseID = returnPhraseID
		return af, true
	})
}

// SetAlternativeFlowKind switches a branch between alternative and exception.
func (s Snapshot) SetAlternativeFlowKind(ucID, altID string, kind FlowKind) (Snapshot, bool) {
	return s.updateAlternativeFlow(ucID, altID, func(af AlternativeFlow) (AlternativeFlow, bool) {
		af.Kind = kind
		return af, true
	})
}

// AddAlternativeFlowPhrase appends p to the steps of an alternative flow.
func (s Snapshot) AddAlternativeFlowPhrase(ucID, altID string, p Phrase) (Snapshot, bool) {
	return s.updateAlternativeFlow(ucID, altID, func(af AlternativeFlow) (AlternativeFlow, bool) {
		af.Flows = appendTo(af.Flows, p)
		return af, true
	})
}

// EditAlternativeFlowPhrase replaces the text of a step inside an alternative flow.
func (s Snapshot) EditAlternativeFlowPhrase(ucID, altID, phraseID, text string) (Snapshot, bool) {
	return s.updateAlternativeFlow(ucID, altID, func(af AlternativeFlow) (AlternativeFlow, bool) {
		i := af.Flows.Index(phraseID)
		if i < 0 {
			return af, false
		}
		af.Flows[i].Text = text
		return af, true
	})
}

// RemoveAlternativeFlowPhrase drops a step from an alternative flow.
func (s Snapshot) RemoveAlternativeFlowPhrase(ucID, altID, phraseID string) (Snapshot, bool) {
	return s.updateAlternativeFlow(ucID, altID, func(af AlternativeFlow) (AlternativeFlow, bool) {
		flows, changed := filter(af.Flows, func(p Phrase) bool { return p.ID != phraseID })
		af.Flows = flows
		return af, changed
	})
}
