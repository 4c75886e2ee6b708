package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferloop/modelreg/pkg/constants"
	apperrors "github.com/inferloop/modelreg/pkg/errors"
)

func TestVerifyIntegrityAllMatch(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Register("v1.0.0", writeBundle(t, ""), RegisterOptions{
		BaselineDir: writeBaseline(t),
	})
	require.NoError(t, err)

	report, err := store.VerifyIntegrity("v1.0.0")
	require.NoError(t, err)

	assert.True(t, report.AllMatch)
	assert.Empty(t, report.Mismatches())
	// canonical artifacts plus baseline files
	assert.Len(t, report.Results, len(constants.RequiredArtifacts)+len(constants.BaselineFiles))
}

func TestVerifyIntegrityLocalizesTamper(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Register("v1.0.0", writeBundle(t, ""), RegisterOptions{})
	require.NoError(t, err)

	tampered := filepath.Join(store.Dir(), "v1.0.0", constants.ArtifactModel)
	require.NoError(t, os.WriteFile(tampered, []byte("corrupted payload"), 0644))

	report, err := store.VerifyIntegrity("v1.0.0")
	require.NoError(t, err)

	assert.False(t, report.AllMatch)
	assert.Equal(t, []string{constants.ArtifactModel}, report.Mismatches())
	assert.True(t, report.Results[constants.ArtifactMetrics])
	assert.True(t, report.Results[constants.ArtifactMetadata])
}

func TestVerifyIntegrityMissingArtifact(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Register("v1.0.0", writeBundle(t, ""), RegisterOptions{})
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(store.Dir(), "v1.0.0", constants.ArtifactMetrics)))

	report, err := store.VerifyIntegrity("v1.0.0")
	require.NoError(t, err)

	assert.False(t, report.AllMatch)
	assert.Contains(t, report.Mismatches(), constants.ArtifactMetrics)
}

func TestVerifyIntegrityUnknownVersion(t *testing.T) {
	store := newTestStore(t)

	_, err := store.VerifyIntegrity("v9.9.9")

	assert.ErrorIs(t, err, apperrors.ErrVersionNotFound)
}
