package xmlcodec_test

import (
	"github.com/aretw0/umlweb/pkg/domain"
)

// fixture is a project touching every part of the document.
func fixture() domain.Snapshot {
	return domain.Snapshot{
		Actors: []domain.Actor{
			{ID: "A1", Name: "Customer", Icon: domain.ActorIconPerson},
			{ID: "A2", Name: "Payment Gateway", Description: "Card processor", Icon: domain.ActorIconSystem},
		},
		UseCases: []domain.UseCase{
			{
				ID:          "UC1",
				Name:        "Checkout",
				Description: "Buy items in the cart",
				Phrases: domain.Phrases{
					{ID: "P1", Text: "Customer opens the cart"},
					{ID: "P2", Text: "Customer pays & confirms"},
				},
				AlternativeFlows: []domain.AlternativeFlow{{
					ID:             "AF1",
					Name:           "Card declined",
					Kind:           domain.FlowKindException,
					ParentPhraseID: "P2",
					ReturnPhraseID: "P1",
					Flows:          domain.Phrases{{ID: "AF1-1", Text: "Show <declined> message"}},
				}},
			},
			{ID: "UC2", Name: "Pay", Phrases: domain.Phrases{}, AlternativeFlows: []domain.AlternativeFlow{}},
		},
		ActorUseCaseLinks: []domain.ActorUseCaseLink{
			{ID: "L1", ActorID: "A1", UseCaseID: "UC1"},
		},
		UseCaseAssociations: []domain.UseCaseAssociation{
			{ID: "R1", SourceID: "UC1", TargetID: "UC2", Type: domain.AssociationInclude},
		},
		NodePositions: map[string]domain.NodePosition{
			"UC1":   {X: 400, Y: 0, W: domain.Dim(160), H: domain.Dim(60)},
			"A1":    {X: 50, Y: 120.5},
			"ghost": {X: 1, Y: 2},
		},
	}
}
