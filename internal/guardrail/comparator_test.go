package guardrail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferloop/modelreg/pkg/models"
)

func metrics(recall, precision, auc, brier float64) *models.ModelMetrics {
	return &models.ModelMetrics{
		Recall:     models.Float(recall),
		Precision:  models.Float(precision),
		ROCAUC:     models.Float(auc),
		BrierScore: models.Float(brier),
	}
}

func TestCompareNoChampion(t *testing.T) {
	verdict := Compare(metrics(0.5, 0.3, 0.7, 0.2), nil, DefaultThresholds())

	assert.True(t, verdict.Approved)
	assert.Equal(t, "no champion to compare", verdict.Reason)
}

func TestCompareRecallDropRejected(t *testing.T) {
	champion := metrics(0.75, 0.40, 0.80, 0.15)
	// recall down 0.05, precision and brier improved, auc improved
	challenger := metrics(0.70, 0.42, 0.82, 0.14)

	verdict := Compare(challenger, champion, DefaultThresholds())

	require.False(t, verdict.Approved)
	assert.Contains(t, verdict.Reason, "recall")
	assert.NotContains(t, verdict.Reason, "precision")
	assert.NotContains(t, verdict.Reason, "brier")
	assert.NotContains(t, verdict.Reason, "roc_auc")
}

func TestCompareApprovedWithinTolerances(t *testing.T) {
	champion := metrics(0.75, 0.40, 0.80, 0.15)
	challenger := metrics(0.76, 0.41, 0.81, 0.14)

	verdict := Compare(challenger, champion, DefaultThresholds())

	require.True(t, verdict.Approved)
	assert.Contains(t, verdict.Reason, "approved")
}

func TestCompareAUCHardRule(t *testing.T) {
	champion := metrics(0.75, 0.40, 0.80, 0.15)
	// everything better except an infinitesimal auc regression
	challenger := metrics(0.80, 0.45, 0.7999, 0.10)

	verdict := Compare(challenger, champion, DefaultThresholds())

	require.False(t, verdict.Approved)
	assert.Contains(t, verdict.Reason, "roc_auc")
}

func TestCompareSmallDropsWithinTolerancePass(t *testing.T) {
	champion := metrics(0.75, 0.40, 0.80, 0.15)
	// every delta inside its tolerance, auc merely unchanged
	challenger := metrics(0.74, 0.37, 0.80, 0.16)

	verdict := Compare(challenger, champion, DefaultThresholds())

	assert.True(t, verdict.Approved, verdict.Reason)
}

func TestCompareCollectsAllViolations(t *testing.T) {
	champion := metrics(0.75, 0.40, 0.80, 0.15)
	challenger := metrics(0.60, 0.20, 0.70, 0.30)

	verdict := Compare(challenger, champion, DefaultThresholds())

	require.False(t, verdict.Approved)
	parts := strings.Split(verdict.Reason, "; ")
	assert.Len(t, parts, 4)
}

func TestCompareMissingChallengerMetricsFail(t *testing.T) {
	champion := metrics(0.75, 0.40, 0.80, 0.15)

	verdict := Compare(&models.ModelMetrics{}, champion, DefaultThresholds())

	require.False(t, verdict.Approved)
	assert.Contains(t, verdict.Reason, "recall")
	assert.Contains(t, verdict.Reason, "roc_auc")
}

func TestCompareNestedValidationMetrics(t *testing.T) {
	champion := metrics(0.75, 0.40, 0.80, 0.15)
	challenger := &models.ModelMetrics{
		Validation: metrics(0.76, 0.41, 0.81, 0.14),
	}

	verdict := Compare(challenger, champion, DefaultThresholds())

	assert.True(t, verdict.Approved, verdict.Reason)
}

func TestCompareDeterministic(t *testing.T) {
	champion := metrics(0.75, 0.40, 0.80, 0.15)
	challenger := metrics(0.60, 0.20, 0.70, 0.30)

	first := Compare(challenger, champion, DefaultThresholds())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Compare(challenger, champion, DefaultThresholds()))
	}
}
