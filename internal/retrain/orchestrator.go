// Package retrain drives one champion/challenger retraining cycle end to
// end: validate the input data, invoke the external training step, gate the
// result through the guardrails, register the challenger, and promote it or
// record the rejection.
package retrain

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/inferloop/modelreg/internal/guardrail"
	"github.com/inferloop/modelreg/internal/observability/metrics"
	"github.com/inferloop/modelreg/internal/registry"
	"github.com/inferloop/modelreg/internal/validation"
	"github.com/inferloop/modelreg/pkg/constants"
	"github.com/inferloop/modelreg/pkg/models"
)

// CycleState names the phases of a retrain cycle, used for logging and
// metrics.
type CycleState string

const (
	StateValidatingInput CycleState = "validating_input"
	StateTraining        CycleState = "training"
	StateComparing       CycleState = "comparing"
	StateRegistering     CycleState = "registering"
	StatePromoting       CycleState = "promoting"

	StatePromoted CycleState = "promoted"
	StateRejected CycleState = "rejected"
	StateFailed   CycleState = "failed"
)

// MinTrainingSamples is the floor below which a dataset triggers a warning.
// Deliberately a warning, not a failure: small cohorts are expected early in
// an academic year.
const MinTrainingSamples = 500

// Orchestrator runs retrain cycles against a registry store.
type Orchestrator struct {
	store      *registry.Store
	trainer    Trainer
	thresholds guardrail.Thresholds
	minSamples int
	logger     *logrus.Logger
	metrics    *metrics.Metrics
}

// Config configures an Orchestrator.
type Config struct {
	Thresholds guardrail.Thresholds
	MinSamples int
	Metrics    *metrics.Metrics
}

// NewOrchestrator creates an orchestrator. A zero Config selects the
// default guardrail thresholds and sample floor.
func NewOrchestrator(store *registry.Store, trainer Trainer, cfg Config, logger *logrus.Logger) *Orchestrator {
	if logger == nil {
		logger = logrus.New()
	}
	thresholds := cfg.Thresholds
	if thresholds == (guardrail.Thresholds{}) {
		thresholds = guardrail.DefaultThresholds()
	}
	minSamples := cfg.MinSamples
	if minSamples <= 0 {
		minSamples = MinTrainingSamples
	}
	return &Orchestrator{
		store:      store,
		trainer:    trainer,
		thresholds: thresholds,
		minSamples: minSamples,
		logger:     logger,
		metrics:    cfg.Metrics,
	}
}

// CycleOptions are the per-cycle inputs.
type CycleOptions struct {
	NewVersion   string
	DataPath     string
	ArtifactsDir string
	BaselineDir  string
	DryRun       bool
	Force        bool
}

// CycleResult reports the outcome of one retrain cycle. A guardrail
// rejection is an expected outcome: Promoted=false with a nil error.
type CycleResult struct {
	CycleID  string `json:"cycle_id"`
	Version  string `json:"version"`
	Approved bool   `json:"approved"`
	Promoted bool   `json:"promoted"`
	Reason   string `json:"reason"`
}

// Run executes one retrain cycle. Any validation, training, or IO error
// aborts the cycle without partial registry mutation up to the point of
// failure; there is no automatic retry.
func (o *Orchestrator) Run(ctx context.Context, opts CycleOptions) (*CycleResult, error) {
	cycleID := uuid.NewString()
	log := o.logger.WithFields(logrus.Fields{
		"cycle_id": cycleID,
		"version":  opts.NewVersion,
	})

	result := &CycleResult{CycleID: cycleID, Version: opts.NewVersion}

	champion, err := o.store.Champion()
	if err != nil {
		o.metrics.IncRetrainCycle(string(StateFailed))
		return nil, err
	}
	var championSignature *models.ModelSignature
	if champion != nil {
		log.WithField("champion", champion.Version).Info("Current champion loaded")
		if sig, err := o.store.LoadSignature(champion.Version); err != nil {
			log.WithError(err).Warn("Champion signature unavailable, using default feature expectation")
		} else {
			championSignature = sig
		}
	} else {
		log.Warn("No champion found, first registration will auto-approve")
	}

	// ValidatingInput: fail before any training compute is spent. The
	// expected feature set follows the champion's signature when one exists.
	log.WithField("state", StateValidatingInput).Info("Validating training data")
	dataset, err := validation.LoadCSV(opts.DataPath)
	if err != nil {
		o.metrics.IncRetrainCycle(string(StateFailed))
		return nil, err
	}
	if _, err := validation.ValidateDataset(dataset, validation.TrainingOptions(championSignature), o.logger); err != nil {
		o.metrics.IncRetrainCycle(string(StateFailed))
		return nil, err
	}
	if dataset.NumRows() < o.minSamples {
		log.WithFields(logrus.Fields{
			"rows":  dataset.NumRows(),
			"floor": o.minSamples,
		}).Warn("Training dataset below sample floor")
	}

	championMetrics, err := o.store.ChampionMetrics()
	if err != nil {
		o.metrics.IncRetrainCycle(string(StateFailed))
		return nil, err
	}

	// Training: opaque external step, cancellable, duration observed.
	log.WithField("state", StateTraining).Info("Training challenger")
	start := time.Now()
	if err := o.trainer.Train(ctx, opts.DataPath, opts.ArtifactsDir); err != nil {
		o.metrics.IncRetrainCycle(string(StateFailed))
		return nil, err
	}
	o.metrics.ObserveTrainingDuration(time.Since(start).Seconds())

	challengerMetrics := o.loadChallengerMetrics(opts.ArtifactsDir, log)

	// Comparing: the guardrail verdict, never an error.
	log.WithField("state", StateComparing).Info("Comparing challenger against champion")
	verdict := guardrail.Compare(challengerMetrics, championMetrics, o.thresholds)
	o.metrics.IncGuardrailVerdict(verdict.Approved)
	result.Approved = verdict.Approved
	result.Reason = verdict.Reason
	log.WithFields(logrus.Fields{
		"approved": verdict.Approved,
		"reason":   verdict.Reason,
	}).Info("Guardrail verdict")

	if opts.DryRun {
		log.WithField("approved", verdict.Approved).Info("Dry run, skipping registration")
		return result, nil
	}

	// Registering: always, so rejected challengers remain inspectable and
	// re-promotable later.
	log.WithField("state", StateRegistering).Info("Registering challenger")
	if _, err := o.store.Register(opts.NewVersion, opts.ArtifactsDir, registry.RegisterOptions{
		BaselineDir: opts.BaselineDir,
		Notes:       verdict.Reason,
		PromotedBy:  constants.PromotedByRetrain,
	}); err != nil {
		o.metrics.IncRetrainCycle(string(StateFailed))
		return nil, err
	}

	if verdict.Approved || opts.Force {
		log.WithField("state", StatePromoting).Info("Promoting challenger to champion")
		if err := o.store.Promote(opts.NewVersion, constants.PromotedByRetrain); err != nil {
			o.metrics.IncRetrainCycle(string(StateFailed))
			return nil, err
		}
		trigger := "retrain"
		if !verdict.Approved {
			trigger = "forced"
			log.Warn("Guardrail verdict overridden by force flag")
		}
		o.metrics.IncPromotion(trigger)
		o.metrics.IncRetrainCycle(string(StatePromoted))
		result.Promoted = true
		log.Info("Challenger promoted to champion")
		return result, nil
	}

	if err := o.store.MarkRejected(opts.NewVersion, verdict.Reason); err != nil {
		o.metrics.IncRetrainCycle(string(StateFailed))
		return nil, err
	}
	o.metrics.IncRetrainCycle(string(StateRejected))
	log.WithField("reason", verdict.Reason).Warn("Challenger rejected, champion unchanged")
	return result, nil
}

// loadChallengerMetrics reads the metrics document the training step
// produced. A missing document yields an empty metrics struct, which the
// guardrail defaults treat as worst-case.
func (o *Orchestrator) loadChallengerMetrics(artifactsDir string, log *logrus.Entry) *models.ModelMetrics {
	for _, name := range constants.ArtifactSourceCandidates[constants.ArtifactMetrics] {
		path := filepath.Join(artifactsDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var m models.ModelMetrics
		if err := json.Unmarshal(data, &m); err != nil {
			log.WithError(err).WithField("file", name).Warn("Unparseable challenger metrics document")
			continue
		}
		return &m
	}
	log.Warn("Training produced no metrics document")
	return &models.ModelMetrics{}
}
