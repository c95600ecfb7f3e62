package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/umlweb/pkg/canvas"
	"github.com/aretw0/umlweb/pkg/domain"
)

// Overlay contains selection state to highlight on the graph.
type Overlay struct {
	FocusedID   string
	InspectedID string
}

// GenerateMermaid produces a Mermaid flowchart for a use-case diagram.
// It applies semantic styling:
// - Person actor: ((Circle))
// - System actor: [[Subroutine]]
// - Use case: ([Stadium])
// Links are plain lines; associations are labelled arrows, dotted for
// include and extend. Overlay styles are applied if provided.
func GenerateMermaid(s domain.Snapshot, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, node := range canvas.Nodes(s) {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "([", "])"
		if node.Kind == domain.KindActor {
			opener, closer = "((", "))"
			if node.Icon == domain.ActorIconSystem {
				opener, closer = "[[", "]]"
			}
		}

		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, mermaidText(node.Label), closer))
	}

	for _, e := range canvas.Edges(s) {
		from, to := sanitizeMermaidID(e.Source), sanitizeMermaidID(e.Target)

		arrow := "---"
		if e.Kind == canvas.EdgeAssociation {
			label := mermaidText(e.Label)
			switch domain.AssociationType(e.Label) {
			case domain.AssociationInclude, domain.AssociationExtend:
				arrow = fmt.Sprintf("-. \"«%s»\" .->", label)
			default:
				arrow = fmt.Sprintf("-- \"%s\" -->", label)
			}
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", from, arrow, to))
	}

	if overlay != nil && (overlay.FocusedID != "" || overlay.InspectedID != "") {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef focused fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef inspected fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		if overlay.FocusedID != "" {
			sb.WriteString(fmt.Sprintf("    class %s focused;\n", sanitizeMermaidID(overlay.FocusedID)))
		}
		if overlay.InspectedID != "" {
			sb.WriteString(fmt.Sprintf("    class %s inspected;\n", sanitizeMermaidID(overlay.InspectedID)))
		}
	}

	return sb.String()
}

// mermaidText makes s safe inside a double-quoted Mermaid label.
func mermaidText(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
