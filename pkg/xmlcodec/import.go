package xmlcodec

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/aretw0/umlweb/pkg/domain"
)

// Importer parses documents into snapshots.
// The zero value is ready to use.
type Importer struct {
	// NewID generates ids for actors, links and associations that carry
	// none. Defaults to uuid.NewString.
	NewID func() string
}

// Import parses an XML document with the default Importer.
func Import(text string) (*domain.Snapshot, error) {
	return Importer{}.Import(text)
}

// ReadXML parses the document read from r with the default Importer.
func ReadXML(r io.Reader) (*domain.Snapshot, error) {
	return Importer{}.ReadXML(r)
}

// Import parses an XML document.
func (im Importer) Import(text string) (*domain.Snapshot, error) {
	return im.ReadXML(strings.NewReader(text))
}

// ReadXML parses the document read from r. Malformed XML yields an error
// wrapping domain.ErrInvalidDocument; anything else is recovered with defaults.
func (im Importer) ReadXML(r io.Reader) (*domain.Snapshot, error) {
	root, err := parse(r)
	if err != nil {
		return nil, err
	}

	newID := im.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	snap := domain.NewSnapshot()

	for i, el := range root.self(core("use_case")) {
		snap.UseCases = append(snap.UseCases, readUseCase(el, i))
	}

	for _, el := range root.self(ext("actor")) {
		snap.Actors = append(snap.Actors, domain.Actor{
			ID:          orDefault(el.attr("", "id"), newID),
			Name:        orValue(clean(el.attr("", "name")), domain.DefaultActorName),
			Description: clean(el.attr("", "description")),
			Icon:        domain.NormalizeActorIcon(el.attr("", "type")),
		})
	}

	for _, el := range root.self(ext("link")) {
		link := domain.ActorUseCaseLink{
			ActorID:   el.attr("", "actorId"),
			UseCaseID: el.attr("", "useCaseId"),
		}
		if link.ActorID == "" || link.UseCaseID == "" {
			continue
		}
		link.ID = orDefault(el.attr("", "id"), newID)
		snap.ActorUseCaseLinks = append(snap.ActorUseCaseLinks, link)
	}

	for _, el := range root.self(ext("association")) {
		assoc := domain.UseCaseAssociation{
			SourceID: el.attr("", "sourceId"),
			TargetID: el.attr("", "targetId"),
			Type:     domain.NormalizeAssociationType(el.attr("", "type")),
		}
		if assoc.SourceID == "" || assoc.TargetID == "" {
			continue
		}
		assoc.ID = orDefault(el.attr("", "id"), newID)
		snap.UseCaseAssociations = append(snap.UseCaseAssociations, assoc)
	}

	for _, el := range root.self(ext("position")) {
		refID := el.attr("", "refId")
		if refID == "" {
			continue
		}
		pos := domain.NodePosition{
			X: parseNumber(el.attr("", "x")),
			Y: parseNumber(el.attr("", "y")),
		}
		if el.hasAttr("", "w") {
			pos.W = domain.Dim(parseNumber(el.attr("", "w")))
		}
		if el.hasAttr("", "h") {
			pos.H = domain.Dim(parseNumber(el.attr("", "h")))
		}
		snap.NodePositions[refID] = pos
	}

	return &snap, nil
}

func readUseCase(el *element, index int) domain.UseCase {
	uc := domain.UseCase{
		ID:               domain.UseCaseID(el.attr("", "id"), index),
		Name:             clean(el.ownText()),
		Description:      clean(el.attr(domain.ExtNamespace, "description")),
		Phrases:          domain.Phrases{},
		AlternativeFlows: []domain.AlternativeFlow{},
	}

	for j, p := range el.descendants(core("phrase")) {
		uc.Phrases = append(uc.Phrases, domain.Phrase{
			ID:   domain.PhraseID(p.attr("", "id"), j),
			Text: clean(p.ownText()),
		})
	}

	for k, afEl := range el.descendants(core("alternative_flow")) {
		af := domain.AlternativeFlow{
			ID:             domain.AlternativeFlowID(afEl.attr("", "id"), k),
			Name:           clean(afEl.ownText()),
			Kind:           domain.NormalizeFlowKind(afEl.attr(domain.ExtNamespace, "kind")),
			ParentPhraseID: afEl.attr(domain.ExtNamespace, "parent_phrase_id"),
			ReturnPhraseID: afEl.attr(domain.ExtNamespace, "return_phrase_id"),
			Flows:          domain.Phrases{},
		}
		// Compat documents carry no branch point; attach to the first step.
		if af.ParentPhraseID == "" && len(uc.Phrases) > 0 {
			af.ParentPhraseID = uc.Phrases[0].ID
		}
		for m, f := range afEl.descendants(core("flow")) {
			af.Flows = append(af.Flows, domain.Phrase{
				ID:   domain.AlternativeFlowPhraseID(f.attr("", "id"), k, m),
				Text: clean(f.ownText()),
			})
		}
		uc.AlternativeFlows = append(uc.AlternativeFlows, af)
	}

	return uc
}

func clean(s string) string {
	return strings.TrimSpace(s)
}

func orValue(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func orDefault(s string, gen func() string) string {
	if s == "" {
		return gen()
	}
	return s
}

// parseNumber reads a coordinate; missing or non-numeric values are 0.
func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
