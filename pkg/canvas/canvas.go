// Package canvas derives the diagram view of a project (positioned nodes and
// styled edges) and turns canvas drops into store edits.
package canvas

import (
	"context"
	"fmt"

	"github.com/aretw0/umlweb/pkg/domain"
)

// Default placement for nodes without a stored position.
const (
	ActorColumnX   = 50
	ActorRowStep   = 120
	UseCaseColumnX = 400
	UseCaseRowStep = 100
)

// Edge colors.
const (
	LinkColor    = "#999"
	DefaultColor = "black"
)

var associationColors = map[domain.AssociationType]string{
	domain.AssociationInclude:        "blue",
	domain.AssociationExtend:         "orange",
	domain.AssociationGeneralization: "purple",
	domain.AssociationPlain:          "green",
}

// Node is one box on the canvas.
type Node struct {
	ID       string              `json:"id"`
	Kind     domain.EntityKind   `json:"type"`
	Label    string              `json:"label"`
	Icon     domain.ActorIcon    `json:"icon,omitempty"`
	Position domain.NodePosition `json:"position"`
	// Placed is false when Position is a default rather than a stored one.
	Placed bool `json:"placed"`
}

// EdgeKind tells links from associations.
type EdgeKind string

const (
	EdgeLink        EdgeKind = "link"
	EdgeAssociation EdgeKind = "association"
)

// Edge is one connector on the canvas.
type Edge struct {
	ID     string   `json:"id"`
	Kind   EdgeKind `json:"kind"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Label  string   `json:"label,omitempty"`
	Color  string   `json:"color"`
}

// Nodes returns actors first, then use cases, each at its stored position or
// stacked in its default column.
func Nodes(s domain.Snapshot) []Node {
	nodes := make([]Node, 0, len(s.Actors)+len(s.UseCases))
	for i, a := range s.Actors {
		pos, ok := s.NodePositions[a.ID]
		if !ok {
			pos = domain.NodePosition{X: ActorColumnX, Y: float64(i * ActorRowStep)}
		}
		nodes = append(nodes, Node{
			ID:       a.ID,
			Kind:     domain.KindActor,
			Label:    a.Name,
			Icon:     domain.NormalizeActorIcon(string(a.Icon)),
			Position: pos,
			Placed:   ok,
		})
	}
	for i, u := range s.UseCases {
		pos, ok := s.NodePositions[u.ID]
		if !ok {
			pos = domain.NodePosition{X: UseCaseColumnX, Y: float64(i * UseCaseRowStep)}
		}
		nodes = append(nodes, Node{
			ID:       u.ID,
			Kind:     domain.KindUseCase,
			Label:    u.Name,
			Position: pos,
			Placed:   ok,
		})
	}
	return nodes
}

// Edges returns the actor links followed by the use-case associations.
func Edges(s domain.Snapshot) []Edge {
	edges := make([]Edge, 0, len(s.ActorUseCaseLinks)+len(s.UseCaseAssociations))
	for _, l := range s.ActorUseCaseLinks {
		edges = append(edges, Edge{
			ID:     l.ID,
			Kind:   EdgeLink,
			Source: l.ActorID,
			Target: l.UseCaseID,
			Color:  LinkColor,
		})
	}
	for _, a := range s.UseCaseAssociations {
		color, ok := associationColors[a.Type]
		if !ok {
			color = DefaultColor
		}
		edges = append(edges, Edge{
			ID:     a.ID,
			Kind:   EdgeAssociation,
			Source: a.SourceID,
			Target: a.TargetID,
			Label:  string(a.Type),
			Color:  color,
		})
	}
	return edges
}

// Editor is the part of the project store the canvas gestures drive.
type Editor interface {
	AddActor(ctx context.Context, actor domain.Actor) (string, error)
	AddUseCase(ctx context.Context, useCase domain.UseCase) (string, error)
	SetNodePosition(ctx context.Context, id string, pos domain.NodePosition) error
}

// Default names for dropped entities.
const (
	NewActorName   = "New actor"
	NewUseCaseName = "New use case"
)

// Drop creates an actor or use case where it was dropped and returns its id.
// An empty name gets the default for kind.
func Drop(ctx context.Context, ed Editor, kind domain.EntityKind, name string, pos domain.NodePosition) (string, error) {
	var (
		id  string
		err error
	)
	switch kind {
	case domain.KindActor:
		if name == "" {
			name = NewActorName
		}
		id, err = ed.AddActor(ctx, domain.Actor{Name: name, Icon: domain.ActorIconPerson})
	case domain.KindUseCase:
		if name == "" {
			name = NewUseCaseName
		}
		id, err = ed.AddUseCase(ctx, domain.UseCase{Name: name, Phrases: domain.Phrases{}, AlternativeFlows: []domain.AlternativeFlow{}})
	default:
		return "", fmt.Errorf("cannot drop %q onto the canvas", kind)
	}
	if err != nil {
		return "", err
	}
	if err := ed.SetNodePosition(ctx, id, pos); err != nil {
		return "", err
	}
	return id, nil
}
