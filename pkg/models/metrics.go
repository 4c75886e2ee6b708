package models

// ModelMetrics is the metrics.json artifact produced by the training step.
// Training pipelines have emitted this document in slightly different shapes
// over time, sometimes nesting the headline numbers under a "validation"
// sub-document, so every field is optional and read through an accessor that
// falls back to the nested document and then to a caller-supplied default.
type ModelMetrics struct {
	Recall     *float64 `json:"recall,omitempty"`
	Precision  *float64 `json:"precision,omitempty"`
	ROCAUC     *float64 `json:"roc_auc,omitempty"`
	BrierScore *float64 `json:"brier_score,omitempty"`
	F1         *float64 `json:"f1,omitempty"`
	F2         *float64 `json:"f2,omitempty"`
	PRAUC      *float64 `json:"pr_auc,omitempty"`
	NSamples   int      `json:"n_samples,omitempty"`
	NPositive  int      `json:"n_positive,omitempty"`

	Validation *ModelMetrics `json:"validation,omitempty"`
}

func (m *ModelMetrics) lookup(pick func(*ModelMetrics) *float64, def float64) float64 {
	if m != nil {
		if v := pick(m); v != nil {
			return *v
		}
		if m.Validation != nil {
			if v := pick(m.Validation); v != nil {
				return *v
			}
		}
	}
	return def
}

// RecallOr returns the recall metric, or def when absent.
func (m *ModelMetrics) RecallOr(def float64) float64 {
	return m.lookup(func(x *ModelMetrics) *float64 { return x.Recall }, def)
}

// PrecisionOr returns the precision metric, or def when absent.
func (m *ModelMetrics) PrecisionOr(def float64) float64 {
	return m.lookup(func(x *ModelMetrics) *float64 { return x.Precision }, def)
}

// ROCAUCOr returns the ranking metric, or def when absent.
func (m *ModelMetrics) ROCAUCOr(def float64) float64 {
	return m.lookup(func(x *ModelMetrics) *float64 { return x.ROCAUC }, def)
}

// BrierScoreOr returns the calibration error, or def when absent.
func (m *ModelMetrics) BrierScoreOr(def float64) float64 {
	return m.lookup(func(x *ModelMetrics) *float64 { return x.BrierScore }, def)
}

// Float is a convenience for building optional metric fields in tests and
// fixtures.
func Float(v float64) *float64 { return &v }
