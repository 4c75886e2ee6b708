package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/inferloop/modelreg/pkg/constants"
)

// newTestStore returns a store rooted in a fresh temp directory with a quiet
// logger.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewStore(filepath.Join(t.TempDir(), "registry"), logger)
}

// writeBundle creates a complete artifact bundle in a fresh temp directory
// and returns its path. metricsJSON overrides the metrics document when
// non-empty.
func writeBundle(t *testing.T, metricsJSON string) string {
	t.Helper()
	dir := t.TempDir()

	if metricsJSON == "" {
		metricsJSON = `{"recall": 0.78, "precision": 0.42, "roc_auc": 0.82, "brier_score": 0.13}`
	}
	files := map[string]string{
		constants.ArtifactModel:     "binary model payload",
		constants.ArtifactMetadata:  `{"model_version": "test", "model_family": "lightgbm", "features": ["fase_2023"]}`,
		constants.ArtifactSignature: `{"inputs": [{"name": "fase_2023", "type": "double"}], "outputs": [{"name": "score", "type": "double"}]}`,
		constants.ArtifactMetrics:   metricsJSON,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

// writeBaseline creates a monitoring baseline directory.
func writeBaseline(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range constants.BaselineFiles {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(`{"profile": true}`), 0644))
	}
	return dir
}
