package modelcard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/inferloop/modelreg/pkg/models"
)

func testManifest() *models.Manifest {
	promoted := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &models.Manifest{
		Version:    "v2.1.0",
		CreatedAt:  time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC),
		PromotedAt: &promoted,
		PromotedBy: "retrain_pipeline",
		Status:     models.StatusChampion,
		Hashes: map[string]string{
			"model.joblib": "abc123",
			"metrics.json": "def456",
		},
		Artifacts:   []string{"model.joblib", "metrics.json"},
		HasBaseline: true,
	}
}

func TestRenderFullCard(t *testing.T) {
	card := Render(Input{
		Manifest: testManifest(),
		Metadata: &models.ModelMetadata{
			ModelFamily:     "lightgbm",
			Features:        []string{"fase_2023", "iaa_2023"},
			TrainingPeriods: []string{"2022", "2023"},
			BlockedFields:   []string{"nome", "ra"},
			ThresholdPolicy: models.ThresholdPolicy{
				Objective:      "min_recall",
				MinRecall:      0.75,
				ThresholdValue: 0.31,
			},
		},
		Metrics: &models.ModelMetrics{
			Recall:     models.Float(0.78),
			Precision:  models.Float(0.42),
			ROCAUC:     models.Float(0.83),
			BrierScore: models.Float(0.13),
			NSamples:   1200,
		},
		IsChampion: true,
	})

	assert.Contains(t, card, "# Model Card: v2.1.0")
	assert.Contains(t, card, "Serving role: champion")
	assert.Contains(t, card, "lightgbm")
	assert.Contains(t, card, "`fase_2023`")
	assert.Contains(t, card, "min_recall")
	assert.Contains(t, card, "| Recall | 0.7800 |")
	assert.Contains(t, card, "| Samples | 1200 |")
	assert.Contains(t, card, "`model.joblib`: `sha256:abc123`")
	assert.Contains(t, card, "monitoring baseline")
	assert.Contains(t, card, "Blocked Fields")
}

func TestRenderPartialCardWithoutOptionalDocuments(t *testing.T) {
	manifest := testManifest()
	manifest.Status = models.StatusRejected
	manifest.RejectionReason = "recall dropped too far"
	manifest.PromotedAt = nil
	manifest.HasBaseline = false

	card := Render(Input{Manifest: manifest})

	assert.Contains(t, card, "# Model Card: v2.1.0")
	assert.Contains(t, card, "rejected")
	assert.Contains(t, card, "recall dropped too far")
	assert.NotContains(t, card, "Validation Metrics")
	assert.NotContains(t, card, "## Model\n")
	assert.NotContains(t, card, "Monitoring")
}

func TestRenderNestedValidationMetrics(t *testing.T) {
	card := Render(Input{
		Manifest: testManifest(),
		Metrics: &models.ModelMetrics{
			Validation: &models.ModelMetrics{
				Recall: models.Float(0.71),
				ROCAUC: models.Float(0.79),
			},
		},
	})

	assert.Contains(t, card, "| Recall | 0.7100 |")
	assert.Contains(t, card, "| ROC AUC | 0.7900 |")
}
