package domain

import (
	"maps"
	"slices"
)

// appendTo returns a new slice with v appended, never writing into xs' backing array.
func appendTo[T any](xs []T, v T) []T {
	return append(slices.Clip(xs), v)
}

// filter returns the elements of xs for which keep is true and whether any was dropped.
// xs itself is left untouched.
func filter[T any](xs []T, keep func(T) bool) ([]T, bool) {
	out := make([]T, 0, len(xs))
	for _, x := range xs {
		if keep(x) {
			out = append(out, x)
		}
	}
	return out, len(out) != len(xs)
}

// replace applies fn to the first element matching match.
// It returns a new slice and whether an element matched.
func replace[T any](xs []T, match func(T) bool, fn func(T) T) ([]T, bool) {
	i := slices.IndexFunc(xs, match)
	if i < 0 {
		return xs, false
	}
	out := slices.Clone(xs)
	out[i] = fn(out[i])
	return out, true
}

// AddActor appends a. Ids are not checked for uniqueness.
func (s Snapshot) AddActor(a Actor) Snapshot {
	s.Actors = appendTo(s.Actors, a)
	return s
}

// RemoveActor drops the actor and every link referencing it.
func (s Snapshot) RemoveActor(id string) (Snapshot, bool) {
	actors, changed := filter(s.Actors, func(a Actor) bool { return a.ID != id })
	if !changed {
		return s, false
	}
	s.Actors = actors
	s.ActorUseCaseLinks, _ = filter(s.ActorUseCaseLinks, func(l ActorUseCaseLink) bool {
		return l.ActorID != id
	})
	return s, true
}

// RenameActor replaces the actor's name.
func (s Snapshot) RenameActor(id, name string) (Snapshot, bool) {
	return s.UpdateActor(id, func(a Actor) Actor {
		a.Name = name
		return a
	})
}

// UpdateActor applies fn to the actor with the given id.
func (s Snapshot) UpdateActor(id string, fn func(Actor) Actor) (Snapshot, bool) {
	actors, ok := replace(s.Actors, func(a Actor) bool { return a.ID == id }, fn)
	if !ok {
		return s, false
	}
	s.Actors = actors
	return s, true
}

// AddUseCase appends u. Ids are not checked for uniqueness.
func (s Snapshot) AddUseCase(u UseCase) Snapshot {
	s.UseCases = appendTo(s.UseCases, u.clone())
	return s
}

// RemoveUseCase drops the use case together with every link and
// association that references it on either side.
func (s Snapshot) RemoveUseCase(id string) (Snapshot, bool) {
	useCases, changed := filter(s.UseCases, func(u UseCase) bool { return u.ID != id })
	if !changed {
		return s, false
	}
	s.UseCases = useCases
	s.ActorUseCaseLinks, _ = filter(s.ActorUseCaseLinks, func(l ActorUseCaseLink) bool {
		return l.UseCaseID != id
	})
	s.UseCaseAssociations, _ = filter(s.UseCaseAssociations, func(a UseCaseAssociation) bool {
		return a.SourceID != id && a.TargetID != id
	})
	return s, true
}

// RenameUseCase replaces the use case's name.
func (s Snapshot) RenameUseCase(id, name string) (Snapshot, bool) {
	return s.UpdateUseCase(id, func(u UseCase) UseCase {
		u.Name = name
		return u
	})
}

// UpdateUseCase applies fn to a deep copy of the use case with the given id.
func (s Snapshot) UpdateUseCase(id string, fn func(UseCase) UseCase) (Snapshot, bool) {
	useCases, ok := replace(s.UseCases,
		func(u UseCase) bool { return u.ID == id },
		func(u UseCase) UseCase { return fn(u.clone()) },
	)
	if !ok {
		return s, false
	}
	s.UseCases = useCases
	return s, true
}

// AddActorUseCaseLink appends l without checking that its endpoints exist.
func (s Snapshot) AddActorUseCaseLink(l ActorUseCaseLink) Snapshot {
	s.ActorUseCaseLinks = appendTo(s.ActorUseCaseLinks, l)
	return s
}

// RemoveActorUseCaseLink drops the link with the given id.
func (s Snapshot) RemoveActorUseCaseLink(id string) (Snapshot, bool) {
	links, changed := filter(s.ActorUseCaseLinks, func(l ActorUseCaseLink) bool { return l.ID != id })
	if !changed {
		return s, false
	}
	s.ActorUseCaseLinks = links
	return s, true
}

// AddUseCaseAssociation appends a without checking that its endpoints exist.
func (s Snapshot) AddUseCaseAssociation(a UseCaseAssociation) Snapshot {
	s.UseCaseAssociations = appendTo(s.UseCaseAssociations, a)
	return s
}

// RemoveUseCaseAssociation drops the association with the given id.
func (s Snapshot) RemoveUseCaseAssociation(id string) (Snapshot, bool) {
	assocs, changed := filter(s.UseCaseAssociations, func(a UseCaseAssociation) bool { return a.ID != id })
	if !changed {
		return s, false
	}
	s.UseCaseAssociations = assocs
	return s, true
}

// SetNodePosition upserts the layout entry for id.
func (s Snapshot) SetNodePosition(id string, pos NodePosition) Snapshot {
	positions := maps.Clone(s.NodePositions)
	if positions == nil {
		positions = make(map[string]NodePosition, 1)
	}
	positions[id] = pos.clone()
	s.NodePositions = positions
	return s
}
