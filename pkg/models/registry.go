package models

import (
	"time"
)

// VersionStatus is the lifecycle state of a registered model version.
type VersionStatus string

const (
	StatusRegistered VersionStatus = "registered"
	StatusChampion   VersionStatus = "champion"
	StatusRejected   VersionStatus = "rejected"
)

// Manifest is the per-version record written to manifest.json. It is created
// once at registration; only the status/promoted_at transition and the
// rejection annotation mutate it afterwards.
type Manifest struct {
	Version         string            `json:"version"`
	CreatedAt       time.Time         `json:"created_at"`
	PromotedAt      *time.Time        `json:"promoted_at,omitempty"`
	PromotedBy      string            `json:"promoted_by"`
	Notes           string            `json:"notes"`
	Status          VersionStatus     `json:"status"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	Hashes          map[string]string `json:"hashes"`
	Artifacts       []string          `json:"artifacts"`
	HasBaseline     bool              `json:"has_baseline"`
}

// VersionInfo is a Manifest cross-referenced against the champion pointer,
// as returned by Store.ListVersions.
type VersionInfo struct {
	Manifest
	IsChampion bool `json:"is_champion"`
}

// ChampionPointer records which version currently serves production traffic.
// Exactly one pointer file exists per registry; it keeps one level of lineage.
type ChampionPointer struct {
	Version          string    `json:"version"`
	PromotedAt       time.Time `json:"promoted_at"`
	PromotedBy       string    `json:"promoted_by"`
	PreviousChampion string    `json:"previous_champion,omitempty"`
}

// RollbackLogEntry is one append-only record under registry/rollback/.
type RollbackLogEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	FromVersion string    `json:"from_version"`
	ToVersion   string    `json:"to_version"`
	Reason      string    `json:"reason"`
}

// ThresholdPolicy describes how the decision threshold was chosen at
// training time.
type ThresholdPolicy struct {
	Objective      string  `json:"objective"`
	MinRecall      float64 `json:"min_recall"`
	ThresholdValue float64 `json:"threshold_value"`
}

// ModelMetadata is the model_metadata.json artifact produced by the training
// step.
type ModelMetadata struct {
	ModelVersion     string          `json:"model_version"`
	ModelFamily      string          `json:"model_family"`
	Features         []string        `json:"features"`
	TrainingPeriods  []string        `json:"training_periods"`
	TargetDefinition string          `json:"target_definition,omitempty"`
	PopulationFilter string          `json:"population_filter,omitempty"`
	Calibration      string          `json:"calibration,omitempty"`
	BlockedFields    []string        `json:"blocked_fields,omitempty"`
	ThresholdPolicy  ThresholdPolicy `json:"threshold_policy"`
}

// SignatureField is one named, typed field in a model signature.
type SignatureField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ModelSignature is the model_signature.json artifact: ordered input
// features and output fields with declared types.
type ModelSignature struct {
	Inputs  []SignatureField `json:"inputs"`
	Outputs []SignatureField `json:"outputs"`
}

// InputNames returns the declared input feature names in signature order.
func (s *ModelSignature) InputNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.Inputs))
	for i, f := range s.Inputs {
		names[i] = f.Name
	}
	return names
}
