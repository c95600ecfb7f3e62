package store

import (
	"context"

	"github.com/aretw0/umlweb/pkg/domain"
)

// AddUseCasePhrase appends a step to the main flow and returns its id.
// The returned id is empty when the use case does not exist.
func (s *Store) AddUseCasePhrase(ctx context.Context, ucID, text string) (string, error) {
	id := s.newID()
	added := false
	err := s.apply(ctx, OpAddPhrase, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		next, ok := snap.AddPhrase(ucID, domain.Phrase{ID: id, Text: text})
		added = ok
		return next, ok
	})
	if err != nil || !added {
		return "", err
	}
	return id, nil
}

func (s *Store) EditUseCasePhrase(ctx context.Context, ucID, phraseID, text string) error {
	return s.apply(ctx, OpEditPhrase, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		return snap.EditPhrase(ucID, phraseID, text)
	})
}

// RemoveUseCasePhrase removes a main-flow step together with the
// alternative flows branching from it.
func (s *Store) RemoveUseCasePhrase(ctx context.Context, ucID, phraseID string) error {
	return s.apply(ctx, OpRemovePhrase, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		return snap.RemovePhrase(ucID, phraseID)
	})
}

// AddAlternativeFlow creates an empty alternative flow branching from
// parentPhraseID and returns its id. An empty kind means alternative.
func (s *Store) AddAlternativeFlow(ctx context.Context, ucID, name string, kind domain.FlowKind, parentPhraseID, returnPhraseID string) (string, error) {
	af := domain.AlternativeFlow{
		ID:             s.newID(),
		Name:           name,
		Kind:           kind,
		ParentPhraseID: parentPhraseID,
		ReturnPhraseID: returnPhraseID,
		Flows:          domain.Phrases{},
	}
	added := false
	err := s.apply(ctx, OpAddAlternativeFlow, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		next, ok := snap.AddAlternativeFlow(ucID, af)
		added = ok
		return next, ok
	})
	if err != nil || !added {
		return "", err
	}
	return af.ID, nil
}

func (s *Store) RenameAlternativeFlow(ctx context.Context, ucID, altID, name string) error {
	return s.apply(ctx, OpRenameAlternativeFlow, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		return snap.RenameAlternativeFlow(ucID, altID, name)
	})
}

func (s *Store) RemoveAlternativeFlow(ctx context.Context, ucID, altID string) error {
	return s.apply(ctx, OpRemoveAlternativeFlow, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		return snap.RemoveAlternativeFlow(ucID, altID)
	})
}

// SetAlternativeFlowReturn sets the main-flow step the alternative flow
// returns to. An empty returnPhraseID clears it.
func (s *Store) SetAlternativeFlowReturn(ctx context.Context, ucID, altID, returnPhraseID string) error {
	return s.apply(ctx, OpSetAlternativeFlowReturn, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		return snap.SetAlternativeFlowReturn(ucID, altID, returnPhraseID)
	})
}

func (s *Store) SetAlternativeFlowKind(ctx context.Context, ucID, altID string, kind domain.FlowKind) error {
	return s.apply(ctx, OpSetAlternativeFlowKind, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		return snap.SetAlternativeFlowKind(ucID, altID, kind)
	})
}

// AddAlternativeFlowPhrase appends a step to an alternative flow and returns its id.
func (s *Store) AddAlternativeFlowPhrase(ctx context.Context, ucID, altID, text string) (string, error) {
	id := s.newID()
	added := false
	err := s.apply(ctx, OpAddAlternativeFlowPhrase, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		next, ok := snap.AddAlternativeFlowPhrase(ucID, altID, domain.Phrase{ID: id, Text: text})
		added = ok
		return next, ok
	})
	if err != nil || !added {
		return "", err
	}
	return id, nil
}

func (s *Store) EditAlternativeFlowPhrase(ctx context.Context, ucID, altID, phraseID, text string) error {
	return s.apply(ctx, OpEditAlternativeFlowPhrase, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		return snap.EditAlternativeFlowPhrase(ucID, altID, phraseID, text)
	})
}

func (s *Store) RemoveAlternativeFlowPhrase(ctx context.Context, ucID, altID, phraseID string) error {
	return s.apply(ctx, OpRemoveAlternativeFlowPhrase, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		return snap.RemoveAlternativeFlowPhrase(ucID, altID, phraseID)
	})
}
