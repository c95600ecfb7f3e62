package store

import (
	"context"
	"time"

	"github.com/aretw0/umlweb/pkg/domain"
)

// Op names a store operation.
type Op string

const (
	OpAddActor                    Op = "add_actor"
	OpRemoveActor                 Op = "remove_actor"
	OpRenameActor                 Op = "rename_actor"
	OpUpdateActor                 Op = "update_actor"
	OpAddUseCase                  Op = "add_use_case"
	OpRemoveUseCase               Op = "remove_use_case"
	OpRenameUseCase               Op = "rename_use_case"
	OpSetUseCaseDescription       Op = "set_use_case_description"
	OpAddActorUseCaseLink         Op = "add_actor_use_case_link"
	OpRemoveActorUseCaseLink      Op = "remove_actor_use_case_link"
	OpAddUseCaseAssociation       Op = "add_use_case_association"
	OpRemoveUseCaseAssociation    Op = "remove_use_case_association"
	OpSetNodePosition             Op = "set_node_position"
	OpAddPhrase                   Op = "add_phrase"
	OpEditPhrase                  Op = "edit_phrase"
	OpRemovePhrase                Op = "remove_phrase"
	OpAddAlternativeFlow          Op = "add_alternative_flow"
	OpRenameAlternativeFlow       Op = "rename_alternative_flow"
	OpRemoveAlternativeFlow       Op = "remove_alternative_flow"
	OpSetAlternativeFlowReturn    Op = "set_alternative_flow_return"
	OpSetAlternativeFlowKind      Op = "set_alternative_flow_kind"
	OpAddAlternativeFlowPhrase    Op = "add_alternative_flow_phrase"
	OpEditAlternativeFlowPhrase   Op = "edit_alternative_flow_phrase"
	OpRemoveAlternativeFlowPhrase Op = "remove_alternative_flow_phrase"
	OpLoadProject                 Op = "load_project"
	OpReset                       Op = "reset"
	OpSelect                      Op = "select"
)

// Change is delivered to subscribers after a snapshot or selection is published.
type Change struct {
	Op        Op
	Snapshot  domain.Snapshot
	Selection Selection
	// Diff is nil for selection changes.
	Diff *domain.ProjectDiff
}

// MutationEvent describes one persisted mutation.
type MutationEvent struct {
	Op       Op
	Diff     *domain.ProjectDiff
	Duration time.Duration
}

// Hooks defines callbacks for store observability.
type Hooks struct {
	OnMutation  func(context.Context, *MutationEvent)
	OnSaveError func(context.Context, *MutationEvent, error)
}
