// Package validation checks training and inference datasets against the
// model's expected schema before any training compute is spent: required
// features, forbidden PII columns, a binary target for training data, and
// soft range checks on indicator values.
package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/inferloop/modelreg/pkg/errors"
	"github.com/inferloop/modelreg/pkg/models"
)

// Mode selects training or inference validation rules.
type Mode string

const (
	ModeTraining  Mode = "training"
	ModeInference Mode = "inference"
)

// ExtraPolicy controls how unexpected columns are treated.
type ExtraPolicy string

const (
	ExtraReject ExtraPolicy = "reject"
	ExtraIgnore ExtraPolicy = "ignore"
)

// TargetColumn is the binary label required in training datasets.
const TargetColumn = "em_risco_2024"

// DefaultExpectedFeatures is the v1.x feature set, used when no model
// signature is available to derive the expectation from.
var DefaultExpectedFeatures = []string{
	"fase_2023", "iaa_2023", "ian_2023", "ida_2023", "idade_2023",
	"ieg_2023", "instituicao_2023", "ipp_2023", "ips_2023", "ipv_2023",
	"max_indicador", "media_indicadores", "min_indicador",
	"range_indicadores", "std_indicadores",
}

// PIIFields are columns that must never reach a training or inference
// dataset.
var PIIFields = map[string]bool{
	"ra":         true,
	"nome":       true,
	"student_id": true,
	"email":      true,
	"telefone":   true,
	"endereco":   true,
	"id":         true,
}

type valueRange struct {
	min, max float64
}

// Soft expected ranges per feature; violations warn, they do not fail.
var featureRanges = map[string]valueRange{
	"fase_2023":         {0, 8},
	"iaa_2023":          {0, 10},
	"ian_2023":          {0, 10},
	"ida_2023":          {0, 10},
	"idade_2023":        {5, 25},
	"ieg_2023":          {0, 10},
	"ipp_2023":          {0, 10},
	"ips_2023":          {0, 10},
	"ipv_2023":          {0, 10},
	"max_indicador":     {0, 10},
	"media_indicadores": {0, 10},
	"min_indicador":     {0, 10},
	"range_indicadores": {0, 10},
	"std_indicadores":   {0, 5},
}

// Options configures a dataset validation pass.
type Options struct {
	Mode        Mode
	ExtraPolicy ExtraPolicy
	CheckRanges bool
	CheckPII    bool
	Signature   *models.ModelSignature
}

// TrainingOptions returns the options used for a retrain cycle's input
// check: extra columns ignored, ranges and PII enforced.
func TrainingOptions(signature *models.ModelSignature) Options {
	return Options{
		Mode:        ModeTraining,
		ExtraPolicy: ExtraIgnore,
		CheckRanges: true,
		CheckPII:    true,
		Signature:   signature,
	}
}

// Result carries the non-fatal findings of a validation pass.
type Result struct {
	Warnings []string
}

// ExpectedFeatures derives the expected feature set from the signature when
// present, falling back to the v1.x default list.
func ExpectedFeatures(signature *models.ModelSignature) []string {
	if names := signature.InputNames(); len(names) > 0 {
		return names
	}
	out := make([]string, len(DefaultExpectedFeatures))
	copy(out, DefaultExpectedFeatures)
	return out
}

// ValidateDataset checks a dataset against the schema rules. Hard failures
// are returned as a single DataValidationFailed error listing every
// violation; soft findings are logged and returned as warnings.
func ValidateDataset(ds *Dataset, opts Options, logger *logrus.Logger) (*Result, error) {
	if logger == nil {
		logger = logrus.New()
	}

	var errs []string
	result := &Result{}

	expected := ExpectedFeatures(opts.Signature)
	received := make(map[string]bool, len(ds.Columns))
	for _, c := range ds.Columns {
		received[c] = true
	}

	var missing []string
	for _, f := range expected {
		if !received[f] {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		errs = append(errs, fmt.Sprintf("required features missing: %v", missing))
	}

	expectedSet := make(map[string]bool, len(expected))
	for _, f := range expected {
		expectedSet[f] = true
	}
	var extra []string
	for _, c := range ds.Columns {
		if expectedSet[c] || PIIFields[c] {
			continue
		}
		if c == TargetColumn {
			continue
		}
		extra = append(extra, c)
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		if opts.ExtraPolicy == ExtraReject {
			errs = append(errs, fmt.Sprintf("unexpected extra features: %v", extra))
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf("ignoring extra features: %v", extra))
		}
	}

	if opts.CheckPII {
		var pii []string
		for _, c := range ds.Columns {
			if PIIFields[c] {
				pii = append(pii, c)
			}
		}
		if len(pii) > 0 {
			sort.Strings(pii)
			errs = append(errs, fmt.Sprintf("forbidden PII fields present: %v", pii))
		}
	}

	if opts.Mode == ModeTraining {
		if !ds.HasColumn(TargetColumn) {
			errs = append(errs, fmt.Sprintf("target column %q required for training", TargetColumn))
		} else if bad := nonBinaryTargetValues(ds); len(bad) > 0 {
			errs = append(errs, fmt.Sprintf("target must be binary 0/1, found: %v", bad))
		}
	}

	if opts.CheckRanges {
		for feature, r := range featureRanges {
			values, ok := ds.Column(feature)
			if !ok {
				continue
			}
			outOfRange := 0
			for _, raw := range values {
				v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
				if err != nil {
					continue
				}
				if v < r.min || v > r.max {
					outOfRange++
				}
			}
			if outOfRange > 0 {
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"feature %q: %d values outside range [%g, %g]",
					feature, outOfRange, r.min, r.max))
			}
		}
	}

	if opts.Mode == ModeTraining {
		if ds.NumRows() < 100 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("training dataset very small: %d samples", ds.NumRows()))
		}
		if w := classBalanceWarning(ds); w != "" {
			result.Warnings = append(result.Warnings, w)
		}
	}

	for _, w := range result.Warnings {
		logger.Warn(w)
	}

	if len(errs) > 0 {
		details := strings.Join(errs, "; ")
		logger.WithField("mode", opts.Mode).Error("Schema validation failed: " + details)
		return result, errors.NewDataValidationError(details)
	}

	logger.WithFields(logrus.Fields{
		"mode":     opts.Mode,
		"features": len(expected),
		"rows":     ds.NumRows(),
	}).Info("Schema validated")
	return result, nil
}

// nonBinaryTargetValues returns the distinct non-0/1 target values, sorted.
func nonBinaryTargetValues(ds *Dataset) []string {
	values, _ := ds.Column(TargetColumn)
	seen := make(map[string]bool)
	for _, raw := range values {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || (v != 0 && v != 1) {
			seen[raw] = true
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// classBalanceWarning flags a minority class below 10% of the samples.
func classBalanceWarning(ds *Dataset) string {
	values, ok := ds.Column(TargetColumn)
	if !ok || len(values) == 0 {
		return ""
	}
	var positives, negatives int
	for _, raw := range values {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			continue
		}
		if v == 1 {
			positives++
		} else if v == 0 {
			negatives++
		}
	}
	total := positives + negatives
	if total == 0 {
		return ""
	}
	minority := positives
	if negatives < positives {
		minority = negatives
	}
	ratio := float64(minority) / float64(total)
	if ratio < 0.1 {
		return fmt.Sprintf("imbalanced dataset: minority class is %.1f%% of samples", ratio*100)
	}
	return ""
}
