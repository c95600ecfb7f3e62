package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/umlweb/pkg/domain"
	"github.com/aretw0/umlweb/pkg/ports"
)

type observer struct {
	id int
	fn func(Change)
}

// Store is the single source of truth for one project.
// Safe for concurrent use; mutations are serialized.
type Store struct {
	mu        sync.Mutex
	snap      domain.Snapshot
	sel       Selection
	repo      ports.ProjectRepository
	observers []observer
	nextObsID int

	logger *slog.Logger
	newID  func() string
	hooks  Hooks

	// Changes waiting for delivery, in commit order.
	pending    []delivery
	delivering bool
}

type delivery struct {
	ctx       context.Context
	event     *MutationEvent // nil for selection changes
	change    Change
	observers []observer
}

// New creates a Store backed by repo and loads the persisted project.
// When nothing is stored the store starts with an empty project.
func New(ctx context.Context, repo ports.ProjectRepository, opts ...Option) (*Store, error) {
	s := &Store{
		snap:   domain.NewSnapshot(),
		repo:   repo,
		logger: slog.New(slog.DiscardHandler),
		newID:  defaultIDGenerator,
	}
	for _, opt := range opts {
		opt(s)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load project: %w: %w", domain.ErrStorageFailure, err)
	}
	if loaded != nil {
		s.snap = normalizeText(loaded.Normalize())
		s.logger.Debug("Project loaded",
			"actors", len(s.snap.Actors),
			"use_cases", len(s.snap.UseCases))
	}
	return s, nil
}

// Snapshot returns a deep copy of the current project.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Subscribe registers fn to be called after every published change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextObsID++
	id := s.nextObsID
	s.observers = append(s.observers, observer{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.observers = slices.DeleteFunc(s.observers, func(o observer) bool { return o.id == id })
	}
}

// observerList must be called with mu held.
func (s *Store) observerList() []observer {
	return slices.Clone(s.observers)
}

// enqueue must be called with mu held. It reports whether the caller has to
// drain the queue.
func (s *Store) enqueue(d delivery) bool {
	s.pending = append(s.pending, d)
	if s.delivering {
		return false
	}
	s.delivering = true
	return true
}

// drain delivers queued changes one at a time, outside the lock, until the
// queue is empty. Only one goroutine drains at a time, so hooks and observers
// see changes in commit order. An observer that writes to the store queues
// its change behind the one being delivered.
func (s *Store) drain() {
	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			s.delivering = false
			s.mu.Unlock()
			panic(r)
		}
	}()

	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.delivering = false
			s.pending = nil
			s.mu.Unlock()
			return
		}
		d := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()

		if d.event != nil && s.hooks.OnMutation != nil {
			s.hooks.OnMutation(d.ctx, d.event)
		}
		for _, o := range d.observers {
			o.fn(d.change)
		}
	}
}

// apply runs one mutation: compute, save, publish, notify.
func (s *Store) apply(ctx context.Context, op Op, fn func(domain.Snapshot) (domain.Snapshot, bool)) error {
	return s.commit(ctx, op, func(prev domain.Snapshot) (domain.Snapshot, bool, error) {
		next, changed := fn(prev)
		if !changed {
			return prev, false, nil
		}
		next = normalizeText(next)
		if err := s.repo.Save(ctx, next); err != nil {
			return prev, false, err
		}
		return next, true, nil
	})
}

func (s *Store) commit(ctx context.Context, op Op, persist func(domain.Snapshot) (domain.Snapshot, bool, error)) error {
	start := time.Now()

	s.mu.Lock()
	prev := s.snap
	next, changed, err := persist(prev)
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("Failed to persist project", "op", op, "err", err)
		if s.hooks.OnSaveError != nil {
			s.hooks.OnSaveError(ctx, &MutationEvent{Op: op, Duration: time.Since(start)}, err)
		}
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageFailure, err)
	}
	if !changed {
		s.mu.Unlock()
		s.logger.Debug("Mutation had no effect", "op", op)
		return nil
	}

	diff := domain.Diff(&prev, next)
	s.snap = next
	if op == OpLoadProject || op == OpReset {
		s.sel = Selection{}
	}
	mustDrain := s.enqueue(delivery{
		ctx:       ctx,
		event:     &MutationEvent{Op: op, Diff: diff, Duration: time.Since(start)},
		change:    Change{Op: op, Snapshot: next.Clone(), Selection: s.sel.clone(), Diff: diff},
		observers: s.observerList(),
	})
	s.mu.Unlock()

	s.logger.Debug("Project updated", "op", op)
	if mustDrain {
		s.drain()
	}
	return nil
}

func (s *Store) id(id string) string {
	if id != "" {
		return id
	}
	return s.newID()
}

// AddActor appends actor, assigning a generated id when actor.ID is empty.
// It returns the actor's id.
func (s *Store) AddActor(ctx context.Context, actor domain.Actor) (string, error) {
	actor.ID = s.id(actor.ID)
	if actor.Icon == "" {
		actor.Icon = domain.ActorIconPerson
	}
	err := s.apply(ctx, OpAddActor, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		return snap.AddActor(actor), true
	})
	return actor.ID, err
}

// RemoveActor removes the actor and every link referencing it.
func (s *Store) RemoveActor(ctx context.Context, id string) error {
	return s.apply(ctx, OpRemoveActor, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		return snap.RemoveActor(id)
	})
}

// RenameActor sets the actor's name.
func (s *Store) RenameActor(ctx context.Context, id, name string) error {
	return s.apply(ctx, OpRenameActor, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		return snap.RenameActor(id, name)
	})
}

// UpdateActor sets the actor's description and icon.
func (s *Store) UpdateActor(ctx context.Context, id, description string, icon domain.ActorIcon) error {
	return s.apply(ctx, OpUpdateActor, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		return snap.UpdateActor(id, func(a domain.Actor) domain.Actor {
			a.Description = description
			a.Icon = domain.NormalizeActorIcon(string(icon))
			return a
		})
	})
}

// AddUseCase appends useCase, assigning a generated id when useCase.ID is empty.
func (s *Store) AddUseCase(ctx context.Context, useCase domain.UseCase) (string, error) {
	useCase.ID = s.id(useCase.ID)
	err := s.apply(ctx, OpAddUseCase, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		return snap.AddUseCase(useCase), true
	})
	return useCase.ID, err
}

// RemoveUseCase removes the use case with its links and associations.
func (s *Store) RemoveUseCase(ctx context.Context, id string) error {
	return s.apply(ctx, OpRemoveUseCase, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		return snap.RemoveUseCase(id)
	})
}

// RenameUseCase sets the use case's name.
func (s *Store) RenameUseCase(ctx context.Context, id, name string) error {
	return s.apply(ctx, OpRenameUseCase, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		return snap.RenameUseCase(id, name)
	})
}

// SetUseCaseDescription sets the use case's free-text description.
func (s *Store) SetUseCaseDescription(ctx context.Context, id, description string) error {
	return s.apply(ctx, OpSetUseCaseDescription, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		return snap.UpdateUseCase(id, func(u domain.UseCase) domain.UseCase {
			u.Description = description
			return u
		})
	})
}

// AddActorUseCaseLink appends link. Endpoints are not validated.
func (s *Store) AddActorUseCaseLink(ctx context.Context, link domain.ActorUseCaseLink) (string, error) {
	link.ID = s.id(link.ID)
	err := s.apply(ctx, OpAddActorUseCaseLink, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		return snap.AddActorUseCaseLink(link), true
	})
	return link.ID, err
}

// RemoveActorUseCaseLink removes the link with the given id.
func (s *Store) RemoveActorUseCaseLink(ctx context.Context, id string) error {
	return s.apply(ctx, OpRemoveActorUseCaseLink, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		return snap.RemoveActorUseCaseLink(id)
	})
}

// AddUseCaseAssociation appends assoc. Endpoints are not validated.
func (s *Store) AddUseCaseAssociation(ctx context.Context, assoc domain.UseCaseAssociation) (string, error) {
	assoc.ID = s.id(assoc.ID)
	if assoc.Type == "" {
		assoc.Type = domain.AssociationPlain
	}
	err := s.apply(ctx, OpAddUseCaseAssociation, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		return snap.AddUseCaseAssociation(assoc), true
	})
	return assoc.ID, err
}

// RemoveUseCaseAssociation removes the association with the given id.
func (s *Store) RemoveUseCaseAssociation(ctx context.Context, id string) error {
	return s.apply(ctx, OpRemoveUseCaseAssociation, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		return snap.RemoveUseCaseAssociation(id)
	})
}

// SetNodePosition upserts the canvas position of id.
func (s *Store) SetNodePosition(ctx context.Context, id string, pos domain.NodePosition) error {
	return s.apply(ctx, OpSetNodePosition, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		return snap.SetNodePosition(id, pos), true
	})
}

// Connect handles a connection drawn on the canvas.
// Only actor to use case connections are accepted; they become a new link.
func (s *Store) Connect(ctx context.Context, sourceID, targetID string) (bool, error) {
	accepted := false
	err := s.apply(ctx, OpAddActorUseCaseLink, func(snap domain.Snapshot) (domain.Snapshot, bool) {
		src, ok := snap.KindOf(sourceID)
		if !ok || src != domain.KindActor {
			return snap, false
		}
		dst, ok := snap.KindOf(targetID)
		if !ok || dst != domain.KindUseCase {
			return snap, false
		}
		accepted = true
		return snap.AddActorUseCaseLink(domain.ActorUseCaseLink{
			ID:        s.newID(),
			ActorID:   sourceID,
			UseCaseID: targetID,
		}), true
	})
	if err != nil {
		return false, err
	}
	return accepted, nil
}

// LoadProject replaces the whole project, typically after an XML import.
// The selection is reset.
func (s *Store) LoadProject(ctx context.Context, snapshot domain.Snapshot) error {
	snapshot = snapshot.Normalize().Clone()
	return s.apply(ctx, OpLoadProject, func(domain.Snapshot) (domain.Snapshot, bool) {
		return snapshot, true
	})
}

// Reset clears the stored project and starts over with an empty one.
func (s *Store) Reset(ctx context.Context) error {
	return s.commit(ctx, OpReset, func(domain.Snapshot) (domain.Snapshot, bool, error) {
		if err := s.repo.Clear(ctx); err != nil {
			return domain.Snapshot{}, false, err
		}
		return domain.NewSnapshot(), true, nil
	})
}
