package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inferloop/modelreg/pkg/constants"
	"github.com/inferloop/modelreg/pkg/errors"
	"github.com/inferloop/modelreg/pkg/models"
)

// Champion reads the champion pointer. A nil pointer (with nil error) means
// no version has ever been promoted.
func (s *Store) Champion() (*models.ChampionPointer, error) {
	path := filepath.Join(s.dir, constants.ChampionFileName)
	var pointer models.ChampionPointer
	if err := readJSON(path, &pointer); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeReadFailed,
			"failed to read champion pointer")
	}
	return &pointer, nil
}

// ChampionDir resolves the current champion's version directory, or "" when
// there is no champion. The serving layer performs the same resolution on
// its own schedule.
func (s *Store) ChampionDir() (string, error) {
	pointer, err := s.Champion()
	if err != nil {
		return "", err
	}
	if pointer == nil {
		return "", nil
	}
	dir := filepath.Join(s.dir, pointer.Version)
	if _, err := os.Stat(dir); err != nil {
		return "", errors.NewVersionNotFoundError(pointer.Version)
	}
	return dir, nil
}

// ChampionMetrics loads the current champion's metrics document. Returns nil
// when no champion exists, and also when the champion's metrics document is
// missing: a champion that never recorded metrics cannot gate a challenger,
// so callers fall back to their no-champion behavior.
func (s *Store) ChampionMetrics() (*models.ModelMetrics, error) {
	pointer, err := s.Champion()
	if err != nil {
		return nil, err
	}
	if pointer == nil {
		return nil, nil
	}
	metricsPath := filepath.Join(s.dir, pointer.Version, constants.ArtifactMetrics)
	if _, err := os.Stat(metricsPath); os.IsNotExist(err) {
		s.logger.WithField("version", pointer.Version).
			Warn("Champion has no metrics document, treating as no champion")
		return nil, nil
	}
	return s.LoadMetrics(pointer.Version)
}

// Promote makes version id the champion. It captures the previous champion
// in the new pointer, demotes the old champion's manifest back to
// registered, and updates the promoted version's manifest. Promoting the
// current champion is idempotent: nothing changes beyond timestamps.
func (s *Store) Promote(id, promotedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.promoteLocked(id, promotedBy)
}

// promoteLocked is the single code path that mutates the champion pointer.
// Rollback reuses it so the one-champion invariant is enforced identically.
// Caller must hold s.mu.
func (s *Store) promoteLocked(id, promotedBy string) error {
	versionDir := filepath.Join(s.dir, id)
	if _, err := os.Stat(versionDir); err != nil {
		return errors.NewVersionNotFoundError(id)
	}

	manifestPath := filepath.Join(versionDir, constants.ManifestFileName)
	var manifest models.Manifest
	if err := readJSON(manifestPath, &manifest); err != nil {
		return errors.NewMissingManifestError(id, err)
	}

	previous, err := s.Champion()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	pointer := &models.ChampionPointer{
		Version:    id,
		PromotedAt: now,
		PromotedBy: promotedBy,
	}
	switch {
	case previous == nil:
		// first promotion ever
	case previous.Version == id:
		// re-promotion of the current champion keeps its lineage
		pointer.PreviousChampion = previous.PreviousChampion
	default:
		pointer.PreviousChampion = previous.Version
	}

	if err := writeJSONAtomic(filepath.Join(s.dir, constants.ChampionFileName), pointer); err != nil {
		return err
	}

	manifest.Status = models.StatusChampion
	manifest.PromotedAt = &now
	if err := writeJSONAtomic(manifestPath, &manifest); err != nil {
		return err
	}

	// Demote the displaced champion. Its manifest may have been purged
	// manually; that is not fatal, the pointer already moved.
	if previous != nil && previous.Version != id {
		if err := s.demoteLocked(previous.Version); err != nil {
			s.logger.WithError(err).WithField("version", previous.Version).
				Warn("Failed to demote previous champion manifest")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"version":     id,
		"promoted_by": promotedBy,
	}).Info("Version promoted to champion")
	if pointer.PreviousChampion != "" {
		s.logger.WithField("previous_champion", pointer.PreviousChampion).
			Info("Previous champion recorded")
	}
	return nil
}

// demoteLocked flips a former champion's manifest back to registered. The
// promoted_at timestamp is kept as lineage. Caller must hold s.mu.
func (s *Store) demoteLocked(id string) error {
	manifestPath := filepath.Join(s.dir, id, constants.ManifestFileName)
	var manifest models.Manifest
	if err := readJSON(manifestPath, &manifest); err != nil {
		return errors.NewMissingManifestError(id, err)
	}
	if manifest.Status != models.StatusChampion {
		return nil
	}
	manifest.Status = models.StatusRegistered
	if err := writeJSONAtomic(manifestPath, &manifest); err != nil {
		return fmt.Errorf("failed to rewrite manifest for %s: %w", id, err)
	}
	return nil
}
