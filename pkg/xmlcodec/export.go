package xmlcodec

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/umlweb/pkg/domain"
)

const (
	// ExportedBy and FormatVersion are written to ext:meta.
	ExportedBy    = "uml-web"
	FormatVersion = "1.0"
)

// Options controls an export.
type Options struct {
	// CompatOnly drops the extension layer: no namespace declaration and
	// no ext element or attribute.
	CompatOnly bool
}

// Export renders snapshot as an XML document.
// The output is deterministic: equal snapshots give byte-equal documents.
func Export(snapshot domain.Snapshot, opts Options) string {
	w := &writer{compat: opts.CompatOnly}
	w.document(snapshot)
	return w.String()
}

// WriteXML writes the document for snapshot to out.
func WriteXML(out io.Writer, snapshot domain.Snapshot, opts Options) error {
	if _, err := io.WriteString(out, Export(snapshot, opts)); err != nil {
		return fmt.Errorf("write xml: %w", err)
	}
	return nil
}

type attr struct {
	name, value string
}

type writer struct {
	strings.Builder
	compat bool
}

func (w *writer) document(s domain.Snapshot) {
	w.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	if w.compat {
		w.WriteString("<root>\n")
	} else {
		w.WriteString(`<root xmlns:ext="` + domain.ExtNamespace + `">` + "\n")
	}

	var sections []string
	if len(s.UseCases) > 0 {
		blocks := make([]string, len(s.UseCases))
		for i, uc := range s.UseCases {
			blocks[i] = w.useCase(uc, i)
		}
		sections = append(sections, strings.Join(blocks, "\n"))
	}
	if !w.compat {
		sections = append(sections, w.extBlocks(s)...)
	}

	if len(sections) > 0 {
		w.WriteString(strings.Join(sections, "\n\n"))
		w.WriteString("\n")
	}
	w.WriteString("</root>\n")
}

// ext returns a in full mode and nil in compat mode.
func (w *writer) ext(a ...attr) []attr {
	if w.compat {
		return nil
	}
	return a
}

func (w *writer) useCase(uc domain.UseCase, index int) string {
	var b strings.Builder

	attrs := []attr{{"id", domain.UseCaseID(uc.ID, index)}}
	if uc.Description != "" {
		attrs = append(attrs, w.ext(attr{"ext:description", uc.Description})...)
	}
	b.WriteString("  " + startTag("use_case", attrs) + "\n")
	if uc.Name != "" {
		b.WriteString("    " + escapeText(uc.Name) + "\n")
	}

	b.WriteString("    <main_flow>\n")
	for _, p := range domain.WithPhraseIDs(uc.Phrases) {
		b.WriteString("      " + textElement("phrase", []attr{{"id", p.ID}}, p.Text) + "\n")
	}
	b.WriteString("    </main_flow>\n")

	for _, af := range domain.WithAlternativeFlowIDs(uc.AlternativeFlows) {
		afAttrs := []attr{{"id", af.ID}}
		if af.ParentPhraseID != "" {
			afAttrs = append(afAttrs, w.ext(attr{"ext:parent_phrase_id", af.ParentPhraseID})...)
		}
		if af.ReturnPhraseID != "" {
			afAttrs = append(afAttrs, w.ext(attr{"ext:return_phrase_id", af.ReturnPhraseID})...)
		}
		if af.Kind != "" {
			afAttrs = append(afAttrs, w.ext(attr{"ext:kind", string(af.Kind)})...)
		}

		b.WriteString("    " + startTag("alternative_flow", afAttrs) + "\n")
		if af.Name != "" {
			b.WriteString("      " + escapeText(af.Name) + "\n")
		}
		for _, f := range af.Flows {
			b.WriteString("      " + textElement("flow", []attr{{"id", f.ID}}, f.Text) + "\n")
		}
		b.WriteString("    </alternative_flow>\n")
	}

	b.WriteString("  </use_case>")
	return b.String()
}

func (w *writer) extBlocks(s domain.Snapshot) []string {
	var blocks []string

	if len(s.Actors) > 0 {
		rows := make([]string, len(s.Actors))
		for i, a := range s.Actors {
			icon := domain.ActorIconPerson
			if a.Icon == domain.ActorIconSystem {
				icon = domain.ActorIconSystem
			}
			attrs := []attr{{"id", a.ID}, {"name", a.Name}, {"type", string(icon)}}
			if a.Description != "" {
				attrs = append(attrs, attr{"description", a.Description})
			}
			rows[i] = emptyTag("ext:actor", attrs)
		}
		blocks = append(blocks, block("ext:actors", rows))
	}

	if len(s.ActorUseCaseLinks) > 0 {
		rows := make([]string, len(s.ActorUseCaseLinks))
		for i, l := range s.ActorUseCaseLinks {
			rows[i] = emptyTag("ext:link", []attr{{"id", l.ID}, {"actorId", l.ActorID}, {"useCaseId", l.UseCaseID}})
		}
		blocks = append(blocks, block("ext:actor_usecase_links", rows))
	}

	if len(s.UseCaseAssociations) > 0 {
		rows := make([]string, len(s.UseCaseAssociations))
		for i, a := range s.UseCaseAssociations {
			rows[i] = emptyTag("ext:association", []attr{
				{"id", a.ID}, {"sourceId", a.SourceID}, {"targetId", a.TargetID},
				{"type", string(domain.NormalizeAssociationType(string(a.Type)))},
			})
		}
		blocks = append(blocks, block("ext:usecase_associations", rows))
	}

	if len(s.NodePositions) > 0 {
		ids := s.PositionIDs()
		rows := make([]string, len(ids))
		for i, id := range ids {
			pos := s.NodePositions[id]
			attrs := []attr{
				{"refType", refType(s, id)}, {"refId", id},
				{"x", formatNumber(pos.X)}, {"y", formatNumber(pos.Y)},
			}
			if pos.W != nil {
				attrs = append(attrs, attr{"w", formatNumber(*pos.W)})
			}
			if pos.H != nil {
				attrs = append(attrs, attr{"h", formatNumber(*pos.H)})
			}
			rows[i] = emptyTag("ext:position", attrs)
		}
		blocks = append(blocks, block("ext:layout", rows))
	}

	meta := emptyTag("ext:meta", []attr{{"exportedBy", ExportedBy}, {"version", FormatVersion}})
	return append(blocks, "  "+meta)
}

// refType names what a layout entry points at; "node" for ids that no longer resolve.
func refType(s domain.Snapshot, id string) string {
	if kind, ok := s.KindOf(id); ok {
		return string(kind)
	}
	return "node"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func block(name string, rows []string) string {
	var b strings.Builder
	b.WriteString("  <" + name + ">\n")
	for _, r := range rows {
		b.WriteString("    " + r + "\n")
	}
	b.WriteString("  </" + name + ">")
	return b.String()
}

func writeAttrs(b *strings.Builder, attrs []attr) {
	for _, a := range attrs {
		b.WriteString(" " + a.name + `="` + escapeAttr(a.value) + `"`)
	}
}

func startTag(name string, attrs []attr) string {
	var b strings.Builder
	b.WriteString("<" + name)
	writeAttrs(&b, attrs)
	b.WriteString(">")
	return b.String()
}

func emptyTag(name string, attrs []attr) string {
	var b strings.Builder
	b.WriteString("<" + name)
	writeAttrs(&b, attrs)
	b.WriteString("/>")
	return b.String()
}

func textElement(name string, attrs []attr, text string) string {
	return startTag(name, attrs) + escapeText(text) + "</" + name + ">"
}
