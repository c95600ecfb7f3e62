package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/aretw0/umlweb/pkg/adapters/memory"
	"github.com/aretw0/umlweb/pkg/domain"
	"github.com/aretw0/umlweb/pkg/persistence"
	"github.com/aretw0/umlweb/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRepo captures every save and can be told to fail.
type recordingRepo struct {
	mu      sync.Mutex
	saved   []domain.Snapshot
	stored  *domain.Snapshot
	failErr error
	cleared int
}

func (r *recordingRepo) Load(ctx context.Context) (*domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stored, nil
}

func (r *recordingRepo) Save(ctx context.Context, snap domain.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	r.saved = append(r.saved, snap.Clone())
	r.stored = &snap
	return nil
}

func (r *recordingRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	r.cleared++
	r.stored = nil
	return nil
}

func (r *recordingRepo) saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newStore(t *testing.T, repo *recordingRepo, opts ...store.Option) *store.Store {
	t.Helper()
	opts = append([]store.Option{store.WithIDGenerator(sequentialIDs())}, opts...)
	s, err := store.New(context.Background(), repo, opts...)
	require.NoError(t, err)
	return s
}

func TestNew_EmptyWhenNothingStored(t *testing.T) {
	s := newStore(t, &recordingRepo{})

	snap := s.Snapshot()
	assert.NotNil(t, snap.Actors)
	assert.NotNil(t, snap.UseCases)
	assert.NotNil(t, snap.ActorUseCaseLinks)
	assert.NotNil(t, snap.UseCaseAssociations)
	assert.NotNil(t, snap.NodePositions)
	assert.Empty(t, snap.Actors)
}

func TestNew_LoadsPersistedProject(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewRepository(memory.NewStore())

	first, err := store.New(ctx, repo)
	require.NoError(t, err)
	_, err = first.AddActor(ctx, domain.Actor{ID: "A1", Name: "Clerk"})
	require.NoError(t, err)

	second, err := store.New(ctx, repo)
	require.NoError(t, err)
	actor, ok := second.Snapshot().Actor("A1")
	require.True(t, ok)
	assert.Equal(t, "Clerk", actor.Name)
	assert.Equal(t, domain.ActorIconPerson, actor.Icon)
}

func TestStore_PersistsBeforePublishing(t *testing.T) {
	ctx := context.Background()
	repo := &recordingRepo{}
	s := newStore(t, repo)

	var seen []store.Change
	s.Subscribe(func(c store.Change) {
		// The snapshot an observer sees must already be persisted.
		assert.Equal(t, len(seen)+1, repo.saves())
		seen = append(seen, c)
	})

	id, err := s.AddUseCase(ctx, domain.UseCase{Name: "Checkout"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)

	require.Len(t, seen, 1)
	assert.Equal(t, store.OpAddUseCase, seen[0].Op)
	require.NotNil(t, seen[0].Diff)
	assert.Equal(t, []string{"id-1"}, seen[0].Diff.UseCases.Added)
	assert.Equal(t, repo.saved[0], seen[0].Snapshot)
}

func TestStore_SaveFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("quota exceeded")
	repo := &recordingRepo{}

	var hookErr error
	s := newStore(t, repo, store.WithHooks(store.Hooks{
		OnSaveError: func(_ context.Context, ev *store.MutationEvent, err error) {
			assert.Equal(t, store.OpAddActor, ev.Op)
			hookErr = err
		},
	}))

	calls := 0
	s.Subscribe(func(store.Change) { calls++ })

	repo.failErr = boom
	_, err := s.AddActor(ctx, domain.Actor{ID: "A1", Name: "Clerk"})

	assert.ErrorIs(t, err, domain.ErrStorageFailure)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, hookErr, boom)
	assert.Zero(t, calls)
	assert.Empty(t, s.Snapshot().Actors)
}

func TestStore_NoOpIsNotSaved(t *testing.T) {
	ctx := context.Background()
	repo := &recordingRepo{}
	s := newStore(t, repo)

	calls := 0
	s.Subscribe(func(store.Change) { calls++ })

	require.NoError(t, s.RemoveActor(ctx, "missing"))
	require.NoError(t, s.RenameUseCase(ctx, "missing", "x"))
	require.NoError(t, s.RemoveActorUseCaseLink(ctx, "missing"))
	id, err := s.AddUseCasePhrase(ctx, "missing", "text")
	require.NoError(t, err)

	assert.Empty(t, id)
	assert.Zero(t, repo.saves())
	assert.Zero(t, calls)
}

func TestStore_RemoveUseCaseCascades(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, &recordingRepo{})

	_, err := s.AddActor(ctx, domain.Actor{ID: "A1", Name: "Clerk"})
	require.NoError(t, err)
	_, err = s.AddUseCase(ctx, domain.UseCase{ID: "UC1", Name: "Checkout"})
	require.NoError(t, err)
	_, err = s.AddUseCase(ctx, domain.UseCase{ID: "UC2", Name: "Pay"})
	require.NoError(t, err)
	_, err = s.AddActorUseCaseLink(ctx, domain.ActorUseCaseLink{ID: "L1", ActorID: "A1", UseCaseID: "UC1"})
	require.NoError(t, err)
	_, err = s.AddUseCaseAssociation(ctx, domain.UseCaseAssociation{ID: "R1", SourceID: "UC2", TargetID: "UC1", Type: domain.AssociationInclude})
	require.NoError(t, err)

	require.NoError(t, s.RemoveUseCase(ctx, "UC1"))

	snap := s.Snapshot()
	assert.Len(t, snap.UseCases, 1)
	assert.Empty(t, snap.ActorUseCaseLinks)
	assert.Empty(t, snap.UseCaseAssociations)
}

func TestStore_RemoveActorCascades(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, &recordingRepo{})

	_, _ = s.AddActor(ctx, domain.Actor{ID: "A1", Name: "Clerk"})
	_, _ = s.AddUseCase(ctx, domain.UseCase{ID: "UC1", Name: "Checkout"})
	_, _ = s.AddActorUseCaseLink(ctx, domain.ActorUseCaseLink{ID: "L1", ActorID: "A1", UseCaseID: "UC1"})

	require.NoError(t, s.RemoveActor(ctx, "A1"))

	snap := s.Snapshot()
	assert.Empty(t, snap.Actors)
	assert.Empty(t, snap.ActorUseCaseLinks)
	assert.Len(t, snap.UseCases, 1)
}

func TestStore_Connect(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, &recordingRepo{})

	_, _ = s.AddActor(ctx, domain.Actor{ID: "A1", Name: "Clerk"})
	_, _ = s.AddUseCase(ctx, domain.UseCase{ID: "UC1", Name: "Checkout"})

	tests := []struct {
		name           string
		source, target string
		want           bool
	}{
		{"actor to use case", "A1", "UC1", true},
		{"use case to actor", "UC1", "A1", false},
		{"actor to actor", "A1", "A1", false},
		{"unknown source", "X", "UC1", false},
		{"unknown target", "A1", "X", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := s.Connect(ctx, tt.source, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	links := s.Snapshot().ActorUseCaseLinks
	require.Len(t, links, 1)
	assert.Equal(t, "A1", links[0].ActorID)
	assert.Equal(t, "UC1", links[0].UseCaseID)
	assert.NotEmpty(t, links[0].ID)
}

func TestStore_FlowEditing(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, &recordingRepo{})

	_, err := s.AddUseCase(ctx, domain.UseCase{ID: "UC1", Name: "Checkout"})
	require.NoError(t, err)

	p1, err := s.AddUseCasePhrase(ctx, "UC1", "Open cart")
	require.NoError(t, err)
	p2, err := s.AddUseCasePhrase(ctx, "UC1", "Pay")
	require.NoError(t, err)
	require.NoError(t, s.EditUseCasePhrase(ctx, "UC1", p2, "Pay by card"))

	af, err := s.AddAlternativeFlow(ctx, "UC1", "Card declined", "", p2, p1)
	require.NoError(t, err)
	require.NotEmpty(t, af)
	require.NoError(t, s.SetAlternativeFlowKind(ctx, "UC1", af, domain.FlowKindException))
	require.NoError(t, s.RenameAlternativeFlow(ctx, "UC1", af, "Declined"))

	step, err := s.AddAlternativeFlowPhrase(ctx, "UC1", af, "Show error")
	require.NoError(t, err)
	require.NoError(t, s.EditAlternativeFlowPhrase(ctx, "UC1", af, step, "Show decline reason"))

	uc, ok := s.Snapshot().UseCase("UC1")
	require.True(t, ok)
	assert.Equal(t, domain.Phrases{{ID: p1, Text: "Open cart"}, {ID: p2, Text: "Pay by card"}}, uc.Phrases)
	require.Len(t, uc.AlternativeFlows, 1)
	got := uc.AlternativeFlows[0]
	assert.Equal(t, "Declined", got.Name)
	assert.Equal(t, domain.FlowKindException, got.Kind)
	assert.Equal(t, p2, got.ParentPhraseID)
	assert.Equal(t, p1, got.ReturnPhraseID)
	assert.Equal(t, domain.Phrases{{ID: step, Text: "Show decline reason"}}, got.Flows)

	require.NoError(t, s.SetAlternativeFlowReturn(ctx, "UC1", af, ""))
	require.NoError(t, s.RemoveAlternativeFlowPhrase(ctx, "UC1", af, step))
	uc, _ = s.Snapshot().UseCase("UC1")
	assert.Empty(t, uc.AlternativeFlows[0].ReturnPhraseID)
	assert.Empty(t, uc.AlternativeFlows[0].Flows)

	// Removing the parent step removes the branch.
	require.NoError(t, s.RemoveUseCasePhrase(ctx, "UC1", p2))
	uc, _ = s.Snapshot().UseCase("UC1")
	assert.Len(t, uc.Phrases, 1)
	assert.Empty(t, uc.AlternativeFlows)
}

func TestStore_RemoveAlternativeFlow(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, &recordingRepo{})

	_, _ = s.AddUseCase(ctx, domain.UseCase{ID: "UC1", Name: "Checkout"})
	p1, _ := s.AddUseCasePhrase(ctx, "UC1", "Open cart")
	af, _ := s.AddAlternativeFlow(ctx, "UC1", "Empty", domain.FlowKindAlternative, p1, "")

	require.NoError(t, s.RemoveAlternativeFlow(ctx, "UC1", af))
	uc, _ := s.Snapshot().UseCase("UC1")
	assert.Empty(t, uc.AlternativeFlows)
}

func TestStore_ActorAndUseCaseDetails(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, &recordingRepo{})

	_, _ = s.AddActor(ctx, domain.Actor{ID: "A1", Name: "Clerk"})
	_, _ = s.AddUseCase(ctx, domain.UseCase{ID: "UC1", Name: "Checkout"})

	require.NoError(t, s.RenameActor(ctx, "A1", "Cashier"))
	require.NoError(t, s.UpdateActor(ctx, "A1", "Handles payments", domain.ActorIconSystem))
	require.NoError(t, s.SetUseCaseDescription(ctx, "UC1", "Buy the cart"))
	require.NoError(t, s.SetNodePosition(ctx, "A1", domain.NodePosition{X: 10, Y: 20}))

	snap := s.Snapshot()
	actor, _ := snap.Actor("A1")
	assert.Equal(t, domain.Actor{ID: "A1", Name: "Cashier", Description: "Handles payments", Icon: domain.ActorIconSystem}, actor)
	uc, _ := snap.UseCase("UC1")
	assert.Equal(t, "Buy the cart", uc.Description)
	assert.Equal(t, domain.NodePosition{X: 10, Y: 20}, snap.NodePositions["A1"])
}

func TestStore_LoadProjectResetsSelection(t *testing.T) {
	ctx := context.Background()
	repo := &recordingRepo{}
	s := newStore(t, repo)

	_, _ = s.AddActor(ctx, domain.Actor{ID: "A1", Name: "Clerk"})
	s.FocusElement("A1")
	s.OpenInspector(store.InspectorTarget{Kind: domain.KindActor, ID: "A1"})

	require.NoError(t, s.LoadProject(ctx, domain.Snapshot{
		UseCases: []domain.UseCase{{ID: "UC9", Name: "Imported"}},
	}))

	snap := s.Snapshot()
	assert.Empty(t, snap.Actors)
	assert.NotNil(t, snap.ActorUseCaseLinks)
	assert.Len(t, snap.UseCases, 1)
	assert.Equal(t, store.Selection{}, s.Selection())
	assert.Equal(t, snap, *repo.stored)
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	repo := &recordingRepo{}
	s := newStore(t, repo)

	_, _ = s.AddActor(ctx, domain.Actor{ID: "A1", Name: "Clerk"})
	require.NoError(t, s.Reset(ctx))

	assert.Empty(t, s.Snapshot().Actors)
	assert.Equal(t, 1, repo.cleared)
	assert.Nil(t, repo.stored)
}

func TestStore_SelectionIsNotPersisted(t *testing.T) {
	repo := &recordingRepo{}
	s := newStore(t, repo)

	var ops []store.Op
	unsubscribe := s.Subscribe(func(c store.Change) { ops = append(ops, c.Op) })

	s.FocusElement("A1")
	s.OpenInspector(store.InspectorTarget{Kind: domain.KindUseCase, ID: "UC1"})

	sel := s.Selection()
	assert.Equal(t, "A1", sel.FocusedID)
	require.NotNil(t, sel.Inspector)
	assert.Equal(t, domain.KindUseCase, sel.Inspector.Kind)

	s.CloseInspector()
	assert.Nil(t, s.Selection().Inspector)

	unsubscribe()
	s.FocusElement("")

	assert.Zero(t, repo.saves())
	assert.Equal(t, []store.Op{store.OpSelect, store.OpSelect, store.OpSelect}, ops)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, &recordingRepo{})
	_, _ = s.AddUseCase(ctx, domain.UseCase{ID: "UC1", Name: "Checkout", Phrases: domain.Phrases{{ID: "P1", Text: "a"}}})

	snap := s.Snapshot()
	snap.UseCases[0].Phrases[0].Text = "mutated"

	uc, _ := s.Snapshot().UseCase("UC1")
	assert.Equal(t, "a", uc.Phrases[0].Text)
}

func TestStore_ObserversInRegistrationOrder(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, &recordingRepo{})

	var order []int
	for i := range 3 {
		s.Subscribe(func(store.Change) { order = append(order, i) })
	}

	_, err := s.AddActor(ctx, domain.Actor{Name: "Clerk"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestStore_OnMutationHook(t *testing.T) {
	ctx := context.Background()
	var events []*store.MutationEvent
	s := newStore(t, &recordingRepo{}, store.WithHooks(store.Hooks{
		OnMutation: func(_ context.Context, ev *store.MutationEvent) { events = append(events, ev) },
	}))

	_, _ = s.AddActor(ctx, domain.Actor{ID: "A1", Name: "Clerk"})
	require.NoError(t, s.RemoveActor(ctx, "A1"))

	require.Len(t, events, 2)
	assert.Equal(t, store.OpAddActor, events[0].Op)
	assert.Equal(t, store.OpRemoveActor, events[1].Op)
	assert.Equal(t, []string{"A1"}, events[1].Diff.Actors.Removed)
}

func TestStore_ConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	s, err := store.New(ctx, persistence.NewRepository(memory.NewStore()))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AddActor(ctx, domain.Actor{Name: fmt.Sprintf("actor-%d", i)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, s.Snapshot().Actors, 20)
}

func TestStore_AlternativeFlowNeedsMainFlowSteps(t *testing.T) {
	ctx := context.Background()
	repo := &recordingRepo{}
	s := newStore(t, repo)

	_, _ = s.AddUseCase(ctx, domain.UseCase{ID: "UC1", Name: "Checkout"})
	p1, _ := s.AddUseCasePhrase(ctx, "UC1", "Pay")
	saves := repo.saves()

	af, err := s.AddAlternativeFlow(ctx, "UC1", "Declined", "", "NOPE", "")
	require.NoError(t, err)
	assert.Empty(t, af)

	af, err = s.AddAlternativeFlow(ctx, "UC1", "Declined", "", p1, "ALSO-NOPE")
	require.NoError(t, err)
	assert.Empty(t, af)
	assert.Equal(t, saves, repo.saves())

	af, err = s.AddAlternativeFlow(ctx, "UC1", "Declined", "", p1, p1)
	require.NoError(t, err)
	require.NotEmpty(t, af)

	require.NoError(t, s.SetAlternativeFlowReturn(ctx, "UC1", af, "GHOST"))
	uc, _ := s.Snapshot().UseCase("UC1")
	assert.Equal(t, p1, uc.AlternativeFlows[0].ReturnPhraseID)
}

func TestStore_StoresComposedText(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, &recordingRepo{})

	// Decomposed input: a base letter followed by a combining mark.
	_, err := s.AddActor(ctx, domain.Actor{ID: "A1", Name: "Jose\u0301", Description: "Cliente"})
	require.NoError(t, err)
	_, err = s.AddUseCase(ctx, domain.UseCase{ID: "UC1", Name: "Cafe\u0301"})
	require.NoError(t, err)
	p1, err := s.AddUseCasePhrase(ctx, "UC1", "Pagar o cafe\u0301")
	require.NoError(t, err)
	require.NoError(t, s.RenameActor(ctx, "A1", "Jose\u0301 Maria"))

	snap := s.Snapshot()
	assert.Equal(t, "Jos\u00e9 Maria", snap.Actors[0].Name)
	assert.Equal(t, "Caf\u00e9", snap.UseCases[0].Name)
	assert.Equal(t, domain.Phrases{{ID: p1, Text: "Pagar o caf\u00e9"}}, snap.UseCases[0].Phrases)

	require.NoError(t, s.LoadProject(ctx, domain.Snapshot{
		UseCases: []domain.UseCase{{ID: "UC9", Name: "Manha\u0303"}},
	}))
	assert.Equal(t, "Manh\u00e3", s.Snapshot().UseCases[0].Name)
}

func TestStore_ConcurrentChangesDeliveredInCommitOrder(t *testing.T) {
	ctx := context.Background()

	var (
		mu       sync.Mutex
		counts   []int
		observed []string
		hooked   []string
	)
	s, err := store.New(ctx, persistence.NewRepository(memory.NewStore()), store.WithHooks(store.Hooks{
		OnMutation: func(_ context.Context, ev *store.MutationEvent) {
			mu.Lock()
			defer mu.Unlock()
			hooked = append(hooked, ev.Diff.Actors.Added...)
		},
	}))
	require.NoError(t, err)
	s.Subscribe(func(c store.Change) {
		mu.Lock()
		defer mu.Unlock()
		counts = append(counts, len(c.Snapshot.Actors))
		observed = append(observed, c.Snapshot.Actors[len(c.Snapshot.Actors)-1].ID)
	})

	const n = 50
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AddActor(ctx, domain.Actor{Name: fmt.Sprintf("actor-%d", i)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	want := make([]int, n)
	for i := range want {
		want[i] = i + 1
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, want, counts)
	assert.Equal(t, observed, hooked)
}

func TestStore_ObserverMayWrite(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, &recordingRepo{})

	var ops []store.Op
	s.Subscribe(func(c store.Change) {
		ops = append(ops, c.Op)
		if c.Op == store.OpAddUseCase {
			_, err := s.AddActor(ctx, domain.Actor{Name: "Auto"})
			assert.NoError(t, err)
		}
	})

	_, err := s.AddUseCase(ctx, domain.UseCase{Name: "Checkout"})
	require.NoError(t, err)

	assert.Equal(t, []store.Op{store.OpAddUseCase, store.OpAddActor}, ops)
	assert.Len(t, s.Snapshot().Actors, 1)
}
