package domain

import (
	"maps"
	"slices"
)

// EntityKind tells which collection an id belongs to.
type EntityKind string

const (
	KindActor   EntityKind = "actor"
	KindUseCase EntityKind = "use_case"
)

// Snapshot is the complete project graph.
// It is the value persisted by repositories and serialized by codecs.
type Snapshot struct {
	Actors              []Actor                 `json:"actors"`
	UseCases            []UseCase               `json:"useCases"`
	ActorUseCaseLinks   []ActorUseCaseLink      `json:"actorUseCaseLinks,omitempty"`
	UseCaseAssociations []UseCaseAssociation    `json:"useCaseAssociations,omitempty"`
	NodePositions       map[string]NodePosition `json:"nodePositions,omitempty"`
}

// NewSnapshot returns an empty project with every collection allocated.
func NewSnapshot() Snapshot {
	return Snapshot{
		Actors:              []Actor{},
		UseCases:            []UseCase{},
		ActorUseCaseLinks:   []ActorUseCaseLink{},
		UseCaseAssociations: []UseCaseAssociation{},
		NodePositions:       map[string]NodePosition{},
	}
}

// Normalize returns a copy of s where absent collections are empty instead of nil.
func (s Snapshot) Normalize() Snapshot {
	if s.Actors == nil {
		s.Actors = []Actor{}
	}
	if s.UseCases == nil {
		s.UseCases = []UseCase{}
	}
	if s.ActorUseCaseLinks == nil {
		s.ActorUseCaseLinks = []ActorUseCaseLink{}
	}
	if s.UseCaseAssociations == nil {
		s.UseCaseAssociations = []UseCaseAssociation{}
	}
	if s.NodePositions == nil {
		s.NodePositions = map[string]NodePosition{}
	}
	return s
}

// Clone returns a deep copy of s. Nil collections stay nil.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Actors:              slices.Clone(s.Actors),
		ActorUseCaseLinks:   slices.Clone(s.ActorUseCaseLinks),
		UseCaseAssociations: slices.Clone(s.UseCaseAssociations),
	}
	if s.UseCases != nil {
		out.UseCases = make([]UseCase, len(s.UseCases))
		for i, uc := range s.UseCases {
			out.UseCases[i] = uc.clone()
		}
	}
	if s.NodePositions != nil {
		out.NodePositions = make(map[string]NodePosition, len(s.NodePositions))
		for id, pos := range s.NodePositions {
			out.NodePositions[id] = pos.clone()
		}
	}
	return out
}

// Actor looks up an actor by id.
func (s Snapshot) Actor(id string) (Actor, bool) {
	i := slices.IndexFunc(s.Actors, func(a Actor) bool { return a.ID == id })
	if i < 0 {
		return Actor{}, false
	}
	return s.Actors[i], true
}

// UseCase looks up a use case by id.
func (s Snapshot) UseCase(id string) (UseCase, bool) {
	i := slices.IndexFunc(s.UseCases, func(u UseCase) bool { return u.ID == id })
	if i < 0 {
		return UseCase{}, false
	}
	return s.UseCases[i], true
}

// KindOf reports whether id names an actor or a use case.
// The second result is false for unknown ids.
func (s Snapshot) KindOf(id string) (EntityKind, bool) {
	if _, ok := s.Actor(id); ok {
		return KindActor, true
	}
	if _, ok := s.UseCase(id); ok {
		return KindUseCase, true
	}
	return "", false
}

// PositionIDs returns the keys of NodePositions in sorted order.
func (s Snapshot) PositionIDs() []string {
	return slices.Sorted(maps.Keys(s.NodePositions))
}
