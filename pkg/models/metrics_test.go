package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsAccessorFallbackChain(t *testing.T) {
	// direct value wins over nested and default
	m := &ModelMetrics{
		Recall:     Float(0.80),
		Validation: &ModelMetrics{Recall: Float(0.70)},
	}
	assert.InDelta(t, 0.80, m.RecallOr(0.50), 1e-9)

	// nested value wins over default
	m = &ModelMetrics{Validation: &ModelMetrics{Recall: Float(0.70)}}
	assert.InDelta(t, 0.70, m.RecallOr(0.50), 1e-9)

	// default when absent everywhere
	m = &ModelMetrics{}
	assert.InDelta(t, 0.50, m.RecallOr(0.50), 1e-9)

	// nil receiver is safe
	var nilMetrics *ModelMetrics
	assert.InDelta(t, 0.50, nilMetrics.RecallOr(0.50), 1e-9)
}

func TestMetricsNestedValidationDocument(t *testing.T) {
	raw := `{
		"n_samples": 900,
		"validation": {
			"recall": 0.76,
			"precision": 0.41,
			"roc_auc": 0.81,
			"brier_score": 0.14
		}
	}`

	var m ModelMetrics
	require.NoError(t, json.Unmarshal([]byte(raw), &m))

	assert.Equal(t, 900, m.NSamples)
	assert.InDelta(t, 0.76, m.RecallOr(0), 1e-9)
	assert.InDelta(t, 0.41, m.PrecisionOr(0), 1e-9)
	assert.InDelta(t, 0.81, m.ROCAUCOr(0), 1e-9)
	assert.InDelta(t, 0.14, m.BrierScoreOr(1), 1e-9)
}

func TestSignatureInputNames(t *testing.T) {
	sig := &ModelSignature{
		Inputs: []SignatureField{
			{Name: "z_first", Type: "double"},
			{Name: "a_second", Type: "long"},
		},
	}

	// declaration order, not alphabetical
	assert.Equal(t, []string{"z_first", "a_second"}, sig.InputNames())

	var nilSig *ModelSignature
	assert.Nil(t, nilSig.InputNames())
}
