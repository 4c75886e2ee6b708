package retrain

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/inferloop/modelreg/pkg/errors"
)

// Trainer invokes the external model-fitting step. The contract is opaque:
// given a dataset path and an output directory, a successful run deposits
// the four bundle artifacts into that directory; any other outcome is a
// TrainingFailed error.
type Trainer interface {
	Train(ctx context.Context, dataPath, artifactsDir string) error
}

// CommandTrainer shells out to a configured training command, appending
// --data and --artifacts arguments. The invocation is cancellable through
// the context; training is the only long-running operation in a retrain
// cycle.
type CommandTrainer struct {
	command []string
	logger  *logrus.Logger
}

// NewCommandTrainer creates a trainer for the given command line, e.g.
// ["python", "-m", "src.train"].
func NewCommandTrainer(command []string, logger *logrus.Logger) (*CommandTrainer, error) {
	if len(command) == 0 {
		return nil, errors.NewAppError(errors.ErrorTypeConfiguration, errors.CodeInvalidConfig,
			"training command is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &CommandTrainer{command: command, logger: logger}, nil
}

// Train runs the training command and waits for it to finish.
func (t *CommandTrainer) Train(ctx context.Context, dataPath, artifactsDir string) error {
	args := append([]string{}, t.command[1:]...)
	args = append(args, "--data", dataPath, "--artifacts", artifactsDir)

	t.logger.WithFields(logrus.Fields{
		"command":   strings.Join(t.command, " "),
		"data":      dataPath,
		"artifacts": artifactsDir,
	}).Info("Invoking training step")

	cmd := exec.CommandContext(ctx, t.command[0], args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return errors.NewTrainingFailedError(detail, err)
	}
	return nil
}
