package graph

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/aretw0/umlweb/pkg/canvas"
	"github.com/aretw0/umlweb/pkg/domain"
)

// ToDOT converts a project to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Actors are drawn as person or component boxes, use cases as ellipses.
// Edges reuse the canvas colors; include and extend are dashed.
func ToDOT(s domain.Snapshot) string {
	var buf bytes.Buffer
	buf.WriteString("digraph UseCases {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"Helvetica\", fontsize=14];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=11, arrowhead=none];\n")
	buf.WriteString("\n")

	for _, n := range canvas.Nodes(s) {
		attrs := []string{fmt.Sprintf("label=%q", n.Label)}
		switch {
		case n.Kind == domain.KindActor && n.Icon == domain.ActorIconSystem:
			attrs = append(attrs, "shape=component")
		case n.Kind == domain.KindActor:
			attrs = append(attrs, "shape=box", "style=rounded")
		default:
			attrs = append(attrs, "shape=ellipse", "style=filled", "fillcolor=white")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range canvas.Edges(s) {
		attrs := []string{fmt.Sprintf("color=%q", e.Color)}
		if e.Kind == canvas.EdgeAssociation {
			attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
			switch domain.AssociationType(e.Label) {
			case domain.AssociationInclude, domain.AssociationExtend:
				attrs = append(attrs, "arrowhead=vee", "style=dashed")
			case domain.AssociationGeneralization:
				attrs = append(attrs, "arrowhead=empty")
			default:
				attrs = append(attrs, "arrowhead=vee")
			}
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
