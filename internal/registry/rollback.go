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

// RollbackTo reverts the champion pointer to a previously registered
// version. Rollback is an operator decision and deliberately bypasses the
// guardrails: the target's metrics are not re-evaluated. Returns false with
// a nil error when id is already the champion (informational no-op).
func (s *Store) RollbackTo(id, reason string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(filepath.Join(s.dir, id)); err != nil {
		return false, errors.NewVersionNotFoundError(id)
	}

	current, err := s.Champion()
	if err != nil {
		return false, err
	}

	if current != nil && current.Version == id {
		s.logger.WithField("version", id).Warn("Version is already the current champion")
		return false, nil
	}

	fromVersion := ""
	if current != nil {
		fromVersion = current.Version
	}

	now := time.Now()
	entry := &models.RollbackLogEntry{
		Timestamp:   now.UTC(),
		FromVersion: fromVersion,
		ToVersion:   id,
		Reason:      reason,
	}

	rollbackDir := filepath.Join(s.dir, constants.RollbackDirName)
	if err := os.MkdirAll(rollbackDir, 0755); err != nil {
		return false, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeWriteFailed,
			fmt.Sprintf("failed to create rollback directory %s", rollbackDir))
	}

	// second-resolution timestamps can collide under rapid successive
	// rollbacks; suffix until the name is free
	base := constants.RollbackFilePrefix + now.Format(constants.RollbackTimeLayout)
	entryName := base + ".json"
	for i := 1; ; i++ {
		if _, err := os.Stat(filepath.Join(rollbackDir, entryName)); os.IsNotExist(err) {
			break
		}
		entryName = fmt.Sprintf("%s_%d.json", base, i)
	}
	if err := writeJSONAtomic(filepath.Join(rollbackDir, entryName), entry); err != nil {
		return false, err
	}

	if err := s.promoteLocked(id, constants.PromotedByRollbackPrefix+reason); err != nil {
		return false, err
	}

	s.metrics.IncRollback()
	s.metrics.IncPromotion("rollback")
	s.logger.WithFields(logrus.Fields{
		"from": fromVersion,
		"to":   id,
	}).Info("Rollback completed")
	return true, nil
}

// RollbackLog returns every recorded rollback entry, oldest first.
func (s *Store) RollbackLog() ([]models.RollbackLogEntry, error) {
	rollbackDir := filepath.Join(s.dir, constants.RollbackDirName)
	dirEntries, err := os.ReadDir(rollbackDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeReadFailed,
			"failed to read rollback log directory")
	}

	entries := make([]models.RollbackLogEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".json" {
			continue
		}
		var entry models.RollbackLogEntry
		if err := readJSON(filepath.Join(rollbackDir, de.Name()), &entry); err != nil {
			s.logger.WithError(err).WithField("file", de.Name()).
				Warn("Skipping unreadable rollback log entry")
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
