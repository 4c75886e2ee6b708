package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferloop/modelreg/pkg/constants"
	apperrors "github.com/inferloop/modelreg/pkg/errors"
	"github.com/inferloop/modelreg/pkg/models"
)

func registerAndPromote(t *testing.T, store *Store, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := store.Register(id, writeBundle(t, ""), RegisterOptions{})
		require.NoError(t, err)
		require.NoError(t, store.Promote(id, constants.PromotedByManual))
	}
}

func TestRollbackRestoresPreviousChampion(t *testing.T) {
	store := newTestStore(t)
	registerAndPromote(t, store, "v1.0.0", "v2.0.0")

	changed, err := store.RollbackTo("v1.0.0", "elevated false negatives")
	require.NoError(t, err)
	assert.True(t, changed)

	pointer, err := store.Champion()
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", pointer.Version)
	assert.Equal(t, "v2.0.0", pointer.PreviousChampion)
	assert.Equal(t, constants.PromotedByRollbackPrefix+"elevated false negatives", pointer.PromotedBy)

	// the rolled-back-from version is demoted, not removed
	manifest, err := store.GetManifest("v2.0.0")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRegistered, manifest.Status)
}

func TestRollbackToCurrentChampionIsNoOp(t *testing.T) {
	store := newTestStore(t)
	registerAndPromote(t, store, "v1.0.0")

	changed, err := store.RollbackTo("v1.0.0", "mistake")

	require.NoError(t, err)
	assert.False(t, changed)

	// no audit entry for a no-op
	entries, err := store.RollbackLog()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRollbackUnknownVersion(t *testing.T) {
	store := newTestStore(t)
	registerAndPromote(t, store, "v1.0.0")

	_, err := store.RollbackTo("v9.9.9", "whatever")

	assert.ErrorIs(t, err, apperrors.ErrVersionNotFound)
}

func TestRollbackLogAppendOnly(t *testing.T) {
	store := newTestStore(t)
	registerAndPromote(t, store, "v1.0.0", "v2.0.0")

	changed, err := store.RollbackTo("v1.0.0", "first rollback")
	require.NoError(t, err)
	require.True(t, changed)

	require.NoError(t, store.Promote("v2.0.0", constants.PromotedByManual))
	changed, err = store.RollbackTo("v1.0.0", "second rollback")
	require.NoError(t, err)
	require.True(t, changed)

	entries, err := store.RollbackLog()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	reasons := []string{entries[0].Reason, entries[1].Reason}
	assert.ElementsMatch(t, []string{"first rollback", "second rollback"}, reasons)
	for _, e := range entries {
		assert.Equal(t, "v2.0.0", e.FromVersion)
		assert.Equal(t, "v1.0.0", e.ToVersion)
		assert.False(t, e.Timestamp.IsZero())
	}

	// entry files carry the timestamped naming scheme
	files, err := os.ReadDir(filepath.Join(store.Dir(), constants.RollbackDirName))
	require.NoError(t, err)
	for _, f := range files {
		assert.True(t, strings.HasPrefix(f.Name(), constants.RollbackFilePrefix), f.Name())
		assert.True(t, strings.HasSuffix(f.Name(), ".json"), f.Name())
	}
}

func TestRollbackLogEmptyWithoutRollbacks(t *testing.T) {
	store := newTestStore(t)

	entries, err := store.RollbackLog()

	require.NoError(t, err)
	assert.Empty(t, entries)
}
