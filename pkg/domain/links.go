package domain

// ActorUseCaseLink is an undirected association between an actor and a use case.
type ActorUseCaseLink struct {
	ID        string `json:"id"`
	ActorID   string `json:"actorId"`
	UseCaseID string `json:"useCaseId"`
}

// AssociationType is the UML relation kind between two use cases.
type AssociationType string

const (
	AssociationPlain          AssociationType = "association"
	AssociationInclude        AssociationType = "include"
	AssociationExtend         AssociationType = "extend"
	AssociationGeneralization AssociationType = "generalization"
)

// Valid reports whether t is a known association type.
func (t AssociationType) Valid() bool {
	switch t {
	case AssociationPlain, AssociationInclude, AssociationExtend, AssociationGeneralization:
		return true
	}
	return false
}

// NormalizeAssociationType maps unknown values to AssociationPlain.
func NormalizeAssociationType(s string) AssociationType {
	if t := AssociationType(s); t.Valid() {
		return t
	}
	return AssociationPlain
}

// UseCaseAssociation is a directed, typed relation from SourceID to TargetID.
type UseCaseAssociation struct {
	ID       string          `json:"id"`
	SourceID string          `json:"sourceId"`
	TargetID string          `json:"targetId"`
	Type     AssociationType `json:"type"`
}
