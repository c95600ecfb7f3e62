// Package report renders use case scenarios as Markdown.
//
// The main flow is numbered 1..N. Alternative flows are labelled after the
// step that triggers them ("2a", "2b", ...) and end with the step they return
// to, or with a note that they terminate the use case.
package report

import (
	"fmt"
	"strings"

	"github.com/aretw0/umlweb/pkg/domain"
)

const untitled = "Untitled use case"

// UseCase renders the scenario of a single use case.
// The second result is false when id is unknown.
func UseCase(s domain.Snapshot, id string) (string, bool) {
	uc, ok := s.UseCase(id)
	if !ok {
		return "", false
	}
	var b strings.Builder
	writeUseCase(&b, s, uc, 1)
	return b.String(), true
}

// Project renders every actor and every use case scenario of the project.
func Project(s domain.Snapshot) string {
	var b strings.Builder
	b.WriteString("# Project\n\n")

	b.WriteString("## Actors\n\n")
	if len(s.Actors) == 0 {
		b.WriteString("_No actors._\n\n")
	}
	for _, a := range s.Actors {
		fmt.Fprintf(&b, "- **%s** (%s)", a.Name, domain.NormalizeActorIcon(string(a.Icon)))
		if a.Description != "" {
			fmt.Fprintf(&b, ": %s", a.Description)
		}
		b.WriteString("\n")
	}
	if len(s.Actors) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("## Use cases\n\n")
	if len(s.UseCases) == 0 {
		b.WriteString("_No use cases._\n")
	}
	for i, uc := range s.UseCases {
		if i > 0 {
			b.WriteString("\n")
		}
		writeUseCase(&b, s, uc, 3)
	}
	return b.String()
}

func writeUseCase(b *strings.Builder, s domain.Snapshot, uc domain.UseCase, level int) {
	name := uc.Name
	if name == "" {
		name = untitled
	}
	fmt.Fprintf(b, "%s %s\n\n", heading(level), name)
	if uc.Description != "" {
		fmt.Fprintf(b, "%s\n\n", uc.Description)
	}
	if actors := linkedActors(s, uc.ID); len(actors) > 0 {
		fmt.Fprintf(b, "**Actors:** %s\n\n", strings.Join(actors, ", "))
	}

	fmt.Fprintf(b, "%s Main flow\n\n", heading(level+1))
	writeSteps(b, uc.Phrases, "_No steps._")

	if len(uc.AlternativeFlows) == 0 {
		return
	}
	fmt.Fprintf(b, "%s Alternative flows\n\n", heading(level+1))
	seen := map[string]int{}
	for _, af := range uc.AlternativeFlows {
		label := flowLabel(uc.Phrases, af.ParentPhraseID, seen)
		kind := domain.NormalizeFlowKind(string(af.Kind))
		fmt.Fprintf(b, "%s %s %s (%s)\n\n", heading(level+2), label, af.Name, kind)
		writeSteps(b, af.Flows, "_No steps._")
		if i := uc.Phrases.Index(af.ReturnPhraseID); af.ReturnPhraseID != "" && i >= 0 {
			fmt.Fprintf(b, "Returns to step %d.\n\n", i+1)
		} else {
			b.WriteString("Ends the use case.\n\n")
		}
	}
}

func writeSteps(b *strings.Builder, steps domain.Phrases, empty string) {
	if len(steps) == 0 {
		fmt.Fprintf(b, "%s\n\n", empty)
		return
	}
	for i, p := range steps {
		fmt.Fprintf(b, "%d. %s\n", i+1, p.Text)
	}
	b.WriteString("\n")
}

// flowLabel numbers alternative flows per parent step: 2a, 2b, ...
// Flows whose parent step no longer exists are labelled with "?".
func flowLabel(main domain.Phrases, parentID string, seen map[string]int) string {
	n := seen[parentID]
	seen[parentID] = n + 1

	step := "?"
	if i := main.Index(parentID); parentID != "" && i >= 0 {
		step = fmt.Sprint(i + 1)
	}
	return step + suffix(n) + "."
}

func suffix(n int) string {
	if n < 26 {
		return string(rune('a' + n))
	}
	return fmt.Sprintf("-%d", n+1)
}

func linkedActors(s domain.Snapshot, ucID string) []string {
	var names []string
	for _, l := range s.ActorUseCaseLinks {
		if l.UseCaseID != ucID {
			continue
		}
		if a, ok := s.Actor(l.ActorID); ok {
			names = append(names, a.Name)
		}
	}
	return names
}

func heading(level int) string {
	return strings.Repeat("#", level)
}
