// Package guardrail implements the automated statistical gate a challenger
// must pass before it may replace the champion. Comparison is pure: no I/O,
// no logging, identical inputs always produce the identical verdict.
package guardrail

import (
	"fmt"
	"strings"

	"github.com/inferloop/modelreg/pkg/models"
)

// Thresholds are the fixed deltas a challenger may not exceed. The ranking
// metric (roc_auc) carries a hard rule instead: it must never regress at
// all, so it has no configurable slack here.
type Thresholds struct {
	MaxRecallDrop    float64 `json:"max_recall_drop" yaml:"max_recall_drop" mapstructure:"max_recall_drop"`
	MaxPrecisionDrop float64 `json:"max_precision_drop" yaml:"max_precision_drop" mapstructure:"max_precision_drop"`
	MaxBrierIncrease float64 `json:"max_brier_increase" yaml:"max_brier_increase" mapstructure:"max_brier_increase"`
}

// DefaultThresholds returns the production guardrail configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxRecallDrop:    0.02,
		MaxPrecisionDrop: 0.05,
		MaxBrierIncrease: 0.02,
	}
}

// Verdict is the outcome of a guardrail comparison. A rejection is a normal,
// reportable outcome, not an error.
type Verdict struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason"`
}

// Baselines applied when a metric is absent from a document. Champion-side
// defaults are permissive historical production values; challenger-side
// defaults are worst-case, so a challenger that fails to report a metric
// fails the corresponding guardrail.
const (
	defaultChampionRecall    = 0.75
	defaultChampionPrecision = 0.40
	defaultChampionBrier     = 0.15
	defaultChampionAUC       = 0.80

	defaultChallengerRecall    = 0.0
	defaultChallengerPrecision = 0.0
	defaultChallengerBrier     = 1.0
	defaultChallengerAUC       = 0.0
)

// Compare evaluates a challenger's metrics against the champion's. All
// violated guardrails are collected into one reason string, so an operator
// sees every violation at once rather than only the first. A nil champion
// means the registry has no champion to compare against and the challenger
// is approved automatically.
func Compare(challenger, champion *models.ModelMetrics, th Thresholds) Verdict {
	if champion == nil {
		return Verdict{Approved: true, Reason: "no champion to compare"}
	}

	champRecall := champion.RecallOr(defaultChampionRecall)
	challRecall := challenger.RecallOr(defaultChallengerRecall)
	champPrecision := champion.PrecisionOr(defaultChampionPrecision)
	challPrecision := challenger.PrecisionOr(defaultChallengerPrecision)
	champBrier := champion.BrierScoreOr(defaultChampionBrier)
	challBrier := challenger.BrierScoreOr(defaultChallengerBrier)
	champAUC := champion.ROCAUCOr(defaultChampionAUC)
	challAUC := challenger.ROCAUCOr(defaultChallengerAUC)

	var reasons []string

	if champRecall-challRecall > th.MaxRecallDrop {
		reasons = append(reasons, fmt.Sprintf(
			"recall dropped too far: %.3f vs %.3f (delta > %g)",
			challRecall, champRecall, th.MaxRecallDrop))
	}
	if champPrecision-challPrecision > th.MaxPrecisionDrop {
		reasons = append(reasons, fmt.Sprintf(
			"precision dropped too far: %.3f vs %.3f (delta > %g)",
			challPrecision, champPrecision, th.MaxPrecisionDrop))
	}
	if challBrier-champBrier > th.MaxBrierIncrease {
		reasons = append(reasons, fmt.Sprintf(
			"brier score worsened: %.3f vs %.3f (delta > %g)",
			challBrier, champBrier, th.MaxBrierIncrease))
	}
	if challAUC < champAUC {
		reasons = append(reasons, fmt.Sprintf(
			"roc_auc regressed: %.3f vs %.3f", challAUC, champAUC))
	}

	if len(reasons) > 0 {
		return Verdict{Approved: false, Reason: strings.Join(reasons, "; ")}
	}

	return Verdict{
		Approved: true,
		Reason: fmt.Sprintf("challenger approved (recall=%.3f, roc_auc=%.3f)",
			challRecall, challAUC),
	}
}
