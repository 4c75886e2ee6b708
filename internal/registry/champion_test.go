package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferloop/modelreg/pkg/constants"
	apperrors "github.com/inferloop/modelreg/pkg/errors"
	"github.com/inferloop/modelreg/pkg/models"
)

func TestChampionEmptyRegistry(t *testing.T) {
	store := newTestStore(t)

	pointer, err := store.Champion()
	require.NoError(t, err)
	assert.Nil(t, pointer)

	dir, err := store.ChampionDir()
	require.NoError(t, err)
	assert.Empty(t, dir)

	metrics, err := store.ChampionMetrics()
	require.NoError(t, err)
	assert.Nil(t, metrics)
}

func TestPromoteFirstVersion(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Register("v1.0.0", writeBundle(t, ""), RegisterOptions{})
	require.NoError(t, err)

	require.NoError(t, store.Promote("v1.0.0", constants.PromotedByManual))

	pointer, err := store.Champion()
	require.NoError(t, err)
	require.NotNil(t, pointer)
	assert.Equal(t, "v1.0.0", pointer.Version)
	assert.Equal(t, constants.PromotedByManual, pointer.PromotedBy)
	assert.Empty(t, pointer.PreviousChampion)

	manifest, err := store.GetManifest("v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, models.StatusChampion, manifest.Status)
	assert.NotNil(t, manifest.PromotedAt)

	dir, err := store.ChampionDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.Dir(), "v1.0.0"), dir)
}

func TestPromoteUnknownVersion(t *testing.T) {
	store := newTestStore(t)

	err := store.Promote("v9.9.9", constants.PromotedByManual)

	assert.ErrorIs(t, err, apperrors.ErrVersionNotFound)
}

func TestPromoteDisplacesChampion(t *testing.T) {
	store := newTestStore(t)
	for _, id := range []string{"v1.0.0", "v2.0.0"} {
		_, err := store.Register(id, writeBundle(t, ""), RegisterOptions{})
		require.NoError(t, err)
	}

	require.NoError(t, store.Promote("v1.0.0", constants.PromotedByManual))
	require.NoError(t, store.Promote("v2.0.0", constants.PromotedByRetrain))

	pointer, err := store.Champion()
	require.NoError(t, err)
	assert.Equal(t, "v2.0.0", pointer.Version)
	assert.Equal(t, "v1.0.0", pointer.PreviousChampion)

	// exactly one champion manifest at any time
	versions, err := store.ListVersions()
	require.NoError(t, err)
	champions := 0
	for _, v := range versions {
		if v.Status == models.StatusChampion {
			champions++
			assert.Equal(t, "v2.0.0", v.Version)
		}
	}
	assert.Equal(t, 1, champions)

	// the displaced champion keeps its promotion timestamp as lineage
	old, err := store.GetManifest("v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRegistered, old.Status)
	assert.NotNil(t, old.PromotedAt)
}

func TestPromoteIdempotent(t *testing.T) {
	store := newTestStore(t)
	for _, id := range []string{"v1.0.0", "v2.0.0"} {
		_, err := store.Register(id, writeBundle(t, ""), RegisterOptions{})
		require.NoError(t, err)
	}
	require.NoError(t, store.Promote("v1.0.0", constants.PromotedByManual))
	require.NoError(t, store.Promote("v2.0.0", constants.PromotedByManual))

	// re-promoting the current champion keeps its lineage intact
	require.NoError(t, store.Promote("v2.0.0", constants.PromotedByManual))

	pointer, err := store.Champion()
	require.NoError(t, err)
	assert.Equal(t, "v2.0.0", pointer.Version)
	assert.Equal(t, "v1.0.0", pointer.PreviousChampion)
}

func TestChampionMetricsMissingDocumentTreatedAsNoChampion(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Register("v1.0.0", writeBundle(t, ""), RegisterOptions{})
	require.NoError(t, err)
	require.NoError(t, store.Promote("v1.0.0", constants.PromotedByManual))

	// a champion that never recorded metrics cannot gate anything
	require.NoError(t, os.Remove(filepath.Join(store.Dir(), "v1.0.0", constants.ArtifactMetrics)))

	metrics, err := store.ChampionMetrics()
	require.NoError(t, err)
	assert.Nil(t, metrics)

	// the pointer itself is untouched
	pointer, err := store.Champion()
	require.NoError(t, err)
	require.NotNil(t, pointer)
	assert.Equal(t, "v1.0.0", pointer.Version)
}

func TestChampionMetrics(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Register("v1.0.0", writeBundle(t, `{"recall": 0.81, "roc_auc": 0.85}`), RegisterOptions{})
	require.NoError(t, err)
	require.NoError(t, store.Promote("v1.0.0", constants.PromotedByManual))

	metrics, err := store.ChampionMetrics()
	require.NoError(t, err)
	require.NotNil(t, metrics)
	assert.InDelta(t, 0.81, metrics.RecallOr(0), 1e-9)
	assert.InDelta(t, 0.85, metrics.ROCAUCOr(0), 1e-9)
}
