package store

import (
	"golang.org/x/text/unicode/norm"

	"github.com/aretw0/umlweb/pkg/domain"
)

// normalizeText returns s with every name, description and step in Unicode
// NFC, so text typed on different platforms compares equal. s is returned
// as is when it is already normalized; otherwise a deep copy is rewritten.
func normalizeText(s domain.Snapshot) domain.Snapshot {
	if isNFC(s) {
		return s
	}
	out := s.Clone()
	for i := range out.Actors {
		a := &out.Actors[i]
		a.Name = norm.NFC.String(a.Name)
		a.Description = norm.NFC.String(a.Description)
	}
	for i := range out.UseCases {
		uc := &out.UseCases[i]
		uc.Name = norm.NFC.String(uc.Name)
		uc.Description = norm.NFC.String(uc.Description)
		nfcPhrases(uc.Phrases)
		for j := range uc.AlternativeFlows {
			af := &uc.AlternativeFlows[j]
			af.Name = norm.NFC.String(af.Name)
			nfcPhrases(af.Flows)
		}
	}
	return out
}

func nfcPhrases(ps domain.Phrases) {
	for i := range ps {
		ps[i].Text = norm.NFC.String(ps[i].Text)
	}
}

func isNFC(s domain.Snapshot) bool {
	for _, a := range s.Actors {
		if !norm.NFC.IsNormalString(a.Name) || !norm.NFC.IsNormalString(a.Description) {
			return false
		}
	}
	for _, uc := range s.UseCases {
		if !norm.NFC.IsNormalString(uc.Name) || !norm.NFC.IsNormalString(uc.Description) || !phrasesNFC(uc.Phrases) {
			return false
		}
		for _, af := range uc.AlternativeFlows {
			if !norm.NFC.IsNormalString(af.Name) || !phrasesNFC(af.Flows) {
				return false
			}
		}
	}
	return true
}

func phrasesNFC(ps domain.Phrases) bool {
	for _, p := range ps {
		if !norm.NFC.IsNormalString(p.Text) {
			return false
		}
	}
	return true
}
