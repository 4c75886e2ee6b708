package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inferloop/modelreg/internal/observability/metrics"
	"github.com/inferloop/modelreg/pkg/constants"
	"github.com/inferloop/modelreg/pkg/errors"
	"github.com/inferloop/modelreg/pkg/models"
)

// Store persists one directory per model version under a registry root and
// owns the champion pointer file. The registry is a shared mutable resource
// with a single-writer-at-a-time design assumption: within one process the
// mutex serializes every read-modify-write of the pointer and of any
// manifest. Registrations of distinct version ids own disjoint directories
// and only contend on the mutex briefly for the manifest write.
type Store struct {
	dir     string
	logger  *logrus.Logger
	metrics *metrics.Metrics
	mu      sync.Mutex
}

// NewStore creates a store rooted at dir. The directory is created lazily on
// first registration.
func NewStore(dir string, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{
		dir:    dir,
		logger: logger,
	}
}

// UseMetrics attaches a metrics collector. Safe to skip; a nil collector
// records nothing.
func (s *Store) UseMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// Dir returns the registry root.
func (s *Store) Dir() string {
	return s.dir
}

// RegisterOptions carries the optional inputs to Register.
type RegisterOptions struct {
	BaselineDir string
	Notes       string
	PromotedBy  string
}

// Register validates the artifact bundle in artifactsDir and stores it as
// version id. An already-registered id is overwritten with a logged warning,
// never a hard failure; operators re-register versions after fixing training
// outputs and depend on that behavior. The bundle is copied under canonical
// names, hashed, and described by an atomically written manifest.
func (s *Store) Register(id, artifactsDir string, opts RegisterOptions) (*models.Manifest, error) {
	if id == "" {
		return nil, errors.NewValidationError(errors.CodeInvalidConfig, "version id is required")
	}
	if _, err := os.Stat(artifactsDir); err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeValidation, errors.CodeIncompleteBundle,
			fmt.Sprintf("artifacts directory does not exist: %s", artifactsDir))
	}

	if missing := missingArtifacts(artifactsDir); len(missing) > 0 {
		return nil, errors.NewIncompleteBundleError(missing)
	}

	versionDir := filepath.Join(s.dir, id)
	if _, err := os.Stat(versionDir); err == nil {
		s.logger.WithField("version", id).Warn("Version already exists, overwriting")
		if err := os.RemoveAll(versionDir); err != nil {
			return nil, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeWriteFailed,
				fmt.Sprintf("failed to remove existing version directory %s", versionDir))
		}
	}
	if err := os.MkdirAll(versionDir, 0755); err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeWriteFailed,
			fmt.Sprintf("failed to create version directory %s", versionDir))
	}

	// Copy artifacts under canonical names, decoupling the registry layout
	// from whatever the training step called its outputs.
	copied := make([]string, 0, len(constants.RequiredArtifacts))
	for _, target := range constants.RequiredArtifacts {
		source := findArtifact(artifactsDir, target)
		if source == "" {
			// validated above; a concurrent removal still loses
			return nil, errors.NewIncompleteBundleError([]string{target})
		}
		if err := copyFile(source, filepath.Join(versionDir, target)); err != nil {
			return nil, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeWriteFailed,
				fmt.Sprintf("failed to copy %s", source))
		}
		copied = append(copied, target)
		s.logger.WithFields(logrus.Fields{
			"source": filepath.Base(source),
			"target": target,
		}).Info("Copied artifact")
	}

	hasBaseline := false
	if opts.BaselineDir != "" {
		if _, err := os.Stat(opts.BaselineDir); err == nil {
			baselineDest := filepath.Join(versionDir, constants.BaselineDirName)
			if err := os.MkdirAll(baselineDest, 0755); err != nil {
				return nil, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeWriteFailed,
					fmt.Sprintf("failed to create baseline directory %s", baselineDest))
			}
			for _, name := range constants.BaselineFiles {
				src := filepath.Join(opts.BaselineDir, name)
				if _, err := os.Stat(src); err != nil {
					continue
				}
				if err := copyFile(src, filepath.Join(baselineDest, name)); err != nil {
					return nil, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeWriteFailed,
						fmt.Sprintf("failed to copy baseline file %s", name))
				}
				copied = append(copied, filepath.Join(constants.BaselineDirName, name))
				hasBaseline = true
				s.logger.WithField("file", name).Info("Copied monitoring baseline file")
			}
		}
	}

	hashes := make(map[string]string, len(copied))
	for _, rel := range copied {
		digest, err := hashFile(filepath.Join(versionDir, rel))
		if err != nil {
			return nil, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeReadFailed,
				fmt.Sprintf("failed to hash %s", rel))
		}
		hashes[rel] = digest
	}

	promotedBy := opts.PromotedBy
	if promotedBy == "" {
		promotedBy = constants.PromotedByAuto
	}

	manifest := &models.Manifest{
		Version:     id,
		CreatedAt:   time.Now().UTC(),
		PromotedBy:  promotedBy,
		Notes:       opts.Notes,
		Status:      models.StatusRegistered,
		Hashes:      hashes,
		Artifacts:   copied,
		HasBaseline: hasBaseline,
	}

	s.mu.Lock()
	err := writeJSONAtomic(filepath.Join(versionDir, constants.ManifestFileName), manifest)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.metrics.IncRegistration(string(models.StatusRegistered))
	s.logger.WithFields(logrus.Fields{
		"version": id,
		"dir":     versionDir,
	}).Info("Model version registered")

	return manifest, nil
}

// GetManifest reads a version's manifest.
func (s *Store) GetManifest(id string) (*models.Manifest, error) {
	versionDir := filepath.Join(s.dir, id)
	if _, err := os.Stat(versionDir); err != nil {
		return nil, errors.NewVersionNotFoundError(id)
	}

	var manifest models.Manifest
	if err := readJSON(filepath.Join(versionDir, constants.ManifestFileName), &manifest); err != nil {
		return nil, errors.NewMissingManifestError(id, err)
	}
	return &manifest, nil
}

// ListVersions re-reads the registry and returns every valid version in
// lexicographic directory order, champion flag included. Directories that
// are not versions (the rollback log, stray files) are skipped, not errors.
func (s *Store) ListVersions() ([]models.VersionInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeReadFailed,
			fmt.Sprintf("failed to read registry directory %s", s.dir))
	}

	champion, err := s.Champion()
	if err != nil {
		return nil, err
	}
	championVersion := ""
	if champion != nil {
		championVersion = champion.Version
	}

	versions := make([]models.VersionInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == constants.RollbackDirName {
			continue
		}
		var manifest models.Manifest
		manifestPath := filepath.Join(s.dir, entry.Name(), constants.ManifestFileName)
		if err := readJSON(manifestPath, &manifest); err != nil {
			continue
		}
		versions = append(versions, models.VersionInfo{
			Manifest:   manifest,
			IsChampion: manifest.Version == championVersion && championVersion != "",
		})
	}

	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Version < versions[j].Version
	})
	return versions, nil
}

// MarkRejected records a guardrail rejection on a registered version. The
// version stays in the registry, inspectable and manually re-promotable.
func (s *Store) MarkRejected(id, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	manifest, err := s.GetManifest(id)
	if err != nil {
		return err
	}

	manifest.Status = models.StatusRejected
	manifest.RejectionReason = reason

	manifestPath := filepath.Join(s.dir, id, constants.ManifestFileName)
	if err := writeJSONAtomic(manifestPath, manifest); err != nil {
		return err
	}

	s.metrics.IncRegistration(string(models.StatusRejected))
	s.logger.WithFields(logrus.Fields{
		"version": id,
		"reason":  reason,
	}).Warn("Challenger rejected by guardrails")
	return nil
}

// LoadMetrics reads a version's stored metrics document.
func (s *Store) LoadMetrics(id string) (*models.ModelMetrics, error) {
	if _, err := os.Stat(filepath.Join(s.dir, id)); err != nil {
		return nil, errors.NewVersionNotFoundError(id)
	}
	var m models.ModelMetrics
	if err := readJSON(filepath.Join(s.dir, id, constants.ArtifactMetrics), &m); err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeReadFailed,
			fmt.Sprintf("failed to read metrics for version %s", id))
	}
	return &m, nil
}

// LoadMetadata reads a version's stored metadata document.
func (s *Store) LoadMetadata(id string) (*models.ModelMetadata, error) {
	if _, err := os.Stat(filepath.Join(s.dir, id)); err != nil {
		return nil, errors.NewVersionNotFoundError(id)
	}
	var m models.ModelMetadata
	if err := readJSON(filepath.Join(s.dir, id, constants.ArtifactMetadata), &m); err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeReadFailed,
			fmt.Sprintf("failed to read metadata for version %s", id))
	}
	return &m, nil
}

// LoadSignature reads a version's stored signature document.
func (s *Store) LoadSignature(id string) (*models.ModelSignature, error) {
	if _, err := os.Stat(filepath.Join(s.dir, id)); err != nil {
		return nil, errors.NewVersionNotFoundError(id)
	}
	var sig models.ModelSignature
	if err := readJSON(filepath.Join(s.dir, id, constants.ArtifactSignature), &sig); err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeReadFailed,
			fmt.Sprintf("failed to read signature for version %s", id))
	}
	return &sig, nil
}

// missingArtifacts returns the canonical names with no acceptable source
// file in dir.
func missingArtifacts(dir string) []string {
	var missing []string
	for _, target := range constants.RequiredArtifacts {
		if findArtifact(dir, target) == "" {
			missing = append(missing, target)
		}
	}
	return missing
}

// findArtifact locates the source file for a canonical artifact name,
// tolerating the legacy _v1 suffix variants.
func findArtifact(dir, target string) string {
	for _, candidate := range constants.ArtifactSourceCandidates[target] {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
