package domain

import (
	"reflect"
)

// ChangeSet lists the ids added, removed or modified within one collection.
type ChangeSet struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
	Changed []string `json:"changed,omitempty"`
}

// IsEmpty reports whether the change set carries no ids.
func (c ChangeSet) IsEmpty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// ProjectDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON so clients can refresh only what moved.
type ProjectDiff struct {
	Actors              ChangeSet `json:"actors"`
	UseCases            ChangeSet `json:"useCases"`
	ActorUseCaseLinks   ChangeSet `json:"actorUseCaseLinks"`
	UseCaseAssociations ChangeSet `json:"useCaseAssociations"`
	NodePositions       ChangeSet `json:"nodePositions"`
}

// Diff calculates the difference between old and new.
// If old is nil, everything in new counts as added (initial load).
// It returns nil when nothing changed.
func Diff(old *Snapshot, new Snapshot) *ProjectDiff {
	if old == nil {
		old = &Snapshot{}
	}

	diff := &ProjectDiff{
		Actors:              diffByID(old.Actors, new.Actors, func(a Actor) string { return a.ID }),
		UseCases:            diffByID(old.UseCases, new.UseCases, func(u UseCase) string { return u.ID }),
		ActorUseCaseLinks:   diffByID(old.ActorUseCaseLinks, new.ActorUseCaseLinks, func(l ActorUseCaseLink) string { return l.ID }),
		UseCaseAssociations: diffByID(old.UseCaseAssociations, new.UseCaseAssociations, func(a UseCaseAssociation) string { return a.ID }),
		NodePositions:       diffPositions(old.NodePositions, new.NodePositions),
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *ProjectDiff) IsEmpty() bool {
	return d.Actors.IsEmpty() &&
		d.UseCases.IsEmpty() &&
		d.ActorUseCaseLinks.IsEmpty() &&
		d.UseCaseAssociations.IsEmpty() &&
		d.NodePositions.IsEmpty()
}

// diffByID compares two collections keyed by id. With duplicate ids the
// first occurrence wins.
func diffByID[T any](old, new []T, id func(T) string) ChangeSet {
	var cs ChangeSet

	before := make(map[string]T, len(old))
	for _, v := range old {
		if _, seen := before[id(v)]; !seen {
			before[id(v)] = v
		}
	}
	after := make(map[string]bool, len(new))

	for _, v := range new {
		key := id(v)
		if after[key] {
			continue
		}
		after[key] = true

		prev, exists := before[key]
		switch {
		case !exists:
			cs.Added = append(cs.Added, key)
		case !reflect.DeepEqual(prev, v):
			cs.Changed = append(cs.Changed, key)
		}
	}

	for _, v := range old {
		key := id(v)
		if !after[key] {
			cs.Removed = append(cs.Removed, key)
			after[key] = true
		}
	}
	return cs
}

func diffPositions(old, new map[string]NodePosition) ChangeSet {
	var cs ChangeSet
	for _, key := range (Snapshot{NodePositions: new}).PositionIDs() {
		prev, exists := old[key]
		switch {
		case !exists:
			cs.Added = append(cs.Added, key)
		case !reflect.DeepEqual(prev, new[key]):
			cs.Changed = append(cs.Changed, key)
		}
	}
	for _, key := range (Snapshot{NodePositions: old}).PositionIDs() {
		if _, exists := new[key]; !exists {
			cs.Removed = append(cs.Removed, key)
		}
	}
	return cs
}
