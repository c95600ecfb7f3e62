package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/umlweb/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunBlobStoreContract runs a suite of tests to verify that a BlobStore implementation
// adheres to the defined interface contract.
func RunBlobStoreContract(t *testing.T, store BlobStore) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Put and Get", func(t *testing.T) {
		value := []byte(`{"actors":[],"useCases":[]}`)

		err := store.Put(ctx, key, value)
		require.NoError(t, err, "Put should not return error")

		loaded, err := store.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, value, loaded)
	})

	t.Run("Put Overwrites", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, key, []byte("first")))
		require.NoError(t, store.Put(ctx, key, []byte("second")))

		loaded, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), loaded)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, key, []byte("bye")))

		err := store.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrProjectNotFound, "Get after Delete should return ErrProjectNotFound")
	})

	t.Run("Delete Non-Existent", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "non-existent-"+key))
	})

	t.Run("Keys Are Isolated", func(t *testing.T) {
		k1, k2 := key+"-1", key+"-2"
		require.NoError(t, store.Put(ctx, k1, []byte("one")))
		require.NoError(t, store.Put(ctx, k2, []byte("two")))
		defer func() {
			_ = store.Delete(ctx, k1)
			_ = store.Delete(ctx, k2)
		}()

		v1, err := store.Get(ctx, k1)
		require.NoError(t, err)
		v2, err := store.Get(ctx, k2)
		require.NoError(t, err)
		assert.Equal(t, "one", string(v1))
		assert.Equal(t, "two", string(v2))
	})
}

// RunProjectRepositoryContract verifies a ProjectRepository implementation.
// The repository must start empty.
func RunProjectRepositoryContract(t *testing.T, repo ProjectRepository) {
	ctx := context.Background()

	t.Run("Load Empty", func(t *testing.T) {
		snap, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, snap)
	})

	t.Run("Save and Load", func(t *testing.T) {
		want := domain.Snapshot{
			Actors: []domain.Actor{{ID: "A1", Name: "Customer", Icon: domain.ActorIconPerson}},
			UseCases: []domain.UseCase{{
				ID:      "UC1",
				Name:    "Checkout",
				Phrases: domain.Phrases{{ID: "P1", Text: "Open cart"}},
				AlternativeFlows: []domain.AlternativeFlow{{
					ID: "AF1", Name: "Empty cart", Kind: domain.FlowKindException, ParentPhraseID: "P1",
					Flows: domain.Phrases{{ID: "AF1-1", Text: "Show message"}},
				}},
			}},
			ActorUseCaseLinks:   []domain.ActorUseCaseLink{{ID: "L1", ActorID: "A1", UseCaseID: "UC1"}},
			UseCaseAssociations: []domain.UseCaseAssociation{{ID: "R1", SourceID: "UC1", TargetID: "UC1", Type: domain.AssociationInclude}},
			NodePositions:       map[string]domain.NodePosition{"A1": {X: 50, Y: 120, W: domain.Dim(80)}},
		}

		require.NoError(t, repo.Save(ctx, want))

		got, err := repo.Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, want, *got)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, repo.Clear(ctx))

		snap, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, snap)
	})
}
