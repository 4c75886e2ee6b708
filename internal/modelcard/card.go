// Package modelcard renders a human-readable markdown summary of a
// registered model version from its manifest, metadata, and metrics.
package modelcard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/inferloop/modelreg/pkg/models"
)

// Input bundles the documents a card is rendered from. Metadata and Metrics
// are optional; a card degrades gracefully when a document is missing.
type Input struct {
	Manifest   *models.Manifest
	Metadata   *models.ModelMetadata
	Metrics    *models.ModelMetrics
	IsChampion bool
}

// Render produces the markdown model card.
func Render(in Input) string {
	var b strings.Builder

	m := in.Manifest

	fmt.Fprintf(&b, "# Model Card: %s\n\n", m.Version)
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().UTC().Format(time.RFC3339))

	b.WriteString("## Status\n\n")
	fmt.Fprintf(&b, "- Status: %s\n", m.Status)
	if in.IsChampion {
		b.WriteString("- Serving role: champion\n")
	}
	fmt.Fprintf(&b, "- Registered: %s\n", m.CreatedAt.Format(time.RFC3339))
	if m.PromotedAt != nil {
		fmt.Fprintf(&b, "- Promoted: %s by %s\n", m.PromotedAt.Format(time.RFC3339), m.PromotedBy)
	}
	if m.RejectionReason != "" {
		fmt.Fprintf(&b, "- Rejection reason: %s\n", m.RejectionReason)
	}
	if m.Notes != "" {
		fmt.Fprintf(&b, "- Notes: %s\n", m.Notes)
	}
	b.WriteString("\n")

	if md := in.Metadata; md != nil {
		b.WriteString("## Model\n\n")
		if md.ModelFamily != "" {
			fmt.Fprintf(&b, "- Family: %s\n", md.ModelFamily)
		}
		if md.TargetDefinition != "" {
			fmt.Fprintf(&b, "- Target: %s\n", md.TargetDefinition)
		}
		if md.PopulationFilter != "" {
			fmt.Fprintf(&b, "- Population: %s\n", md.PopulationFilter)
		}
		if md.Calibration != "" {
			fmt.Fprintf(&b, "- Calibration: %s\n", md.Calibration)
		}
		if len(md.TrainingPeriods) > 0 {
			fmt.Fprintf(&b, "- Training periods: %s\n", strings.Join(md.TrainingPeriods, ", "))
		}
		if md.ThresholdPolicy.Objective != "" {
			fmt.Fprintf(&b, "- Threshold policy: %s (min_recall=%.2f, threshold=%.3f)\n",
				md.ThresholdPolicy.Objective,
				md.ThresholdPolicy.MinRecall,
				md.ThresholdPolicy.ThresholdValue)
		}
		b.WriteString("\n")

		if len(md.Features) > 0 {
			fmt.Fprintf(&b, "## Features (%d)\n\n", len(md.Features))
			for _, f := range md.Features {
				fmt.Fprintf(&b, "- `%s`\n", f)
			}
			b.WriteString("\n")
		}
		if len(md.BlockedFields) > 0 {
			b.WriteString("## Blocked Fields\n\n")
			b.WriteString("Never used as model inputs:\n\n")
			for _, f := range md.BlockedFields {
				fmt.Fprintf(&b, "- `%s`\n", f)
			}
			b.WriteString("\n")
		}
	}

	if mt := in.Metrics; mt != nil {
		b.WriteString("## Validation Metrics\n\n")
		b.WriteString("| Metric | Value |\n|--------|-------|\n")
		writeMetricRow(&b, "Recall", mt.Recall, orNested(mt, func(v *models.ModelMetrics) *float64 { return v.Recall }))
		writeMetricRow(&b, "Precision", mt.Precision, orNested(mt, func(v *models.ModelMetrics) *float64 { return v.Precision }))
		writeMetricRow(&b, "ROC AUC", mt.ROCAUC, orNested(mt, func(v *models.ModelMetrics) *float64 { return v.ROCAUC }))
		writeMetricRow(&b, "Brier score", mt.BrierScore, orNested(mt, func(v *models.ModelMetrics) *float64 { return v.BrierScore }))
		writeMetricRow(&b, "F1", mt.F1, orNested(mt, func(v *models.ModelMetrics) *float64 { return v.F1 }))
		writeMetricRow(&b, "F2", mt.F2, orNested(mt, func(v *models.ModelMetrics) *float64 { return v.F2 }))
		writeMetricRow(&b, "PR AUC", mt.PRAUC, orNested(mt, func(v *models.ModelMetrics) *float64 { return v.PRAUC }))
		if mt.NSamples > 0 {
			fmt.Fprintf(&b, "| Samples | %d |\n", mt.NSamples)
		}
		if mt.NPositive > 0 {
			fmt.Fprintf(&b, "| Positives | %d |\n", mt.NPositive)
		}
		b.WriteString("\n")
	}

	if len(m.Hashes) > 0 {
		b.WriteString("## Artifact Integrity\n\n")
		names := make([]string, 0, len(m.Hashes))
		for name := range m.Hashes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "- `%s`: `sha256:%s`\n", name, m.Hashes[name])
		}
		b.WriteString("\n")
	}

	if m.HasBaseline {
		b.WriteString("## Monitoring\n\n")
		b.WriteString("A monitoring baseline (feature profile and score distribution) is stored alongside this version.\n")
	}

	return b.String()
}

func orNested(m *models.ModelMetrics, pick func(*models.ModelMetrics) *float64) *float64 {
	if m.Validation == nil {
		return nil
	}
	return pick(m.Validation)
}

func writeMetricRow(b *strings.Builder, label string, direct, nested *float64) {
	v := direct
	if v == nil {
		v = nested
	}
	if v == nil {
		return
	}
	fmt.Fprintf(b, "| %s | %.4f |\n", label, *v)
}
