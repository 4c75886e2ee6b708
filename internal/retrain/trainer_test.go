package retrain

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/inferloop/modelreg/pkg/errors"
)

func TestNewCommandTrainerRequiresCommand(t *testing.T) {
	_, err := NewCommandTrainer(nil, quietLogger())

	assert.Error(t, err)
}

func TestCommandTrainerSuccess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell-based test")
	}
	trainer, err := NewCommandTrainer([]string{"sh", "-c", "exit 0"}, quietLogger())
	require.NoError(t, err)

	assert.NoError(t, trainer.Train(context.Background(), "data.csv", t.TempDir()))
}

func TestCommandTrainerFailureCapturesStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell-based test")
	}
	trainer, err := NewCommandTrainer([]string{"sh", "-c", "echo training exploded >&2; exit 3"}, quietLogger())
	require.NoError(t, err)

	err = trainer.Train(context.Background(), "data.csv", t.TempDir())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTrainingFailed)
	assert.Contains(t, err.Error(), "training exploded")
}

func TestCommandTrainerCancellation(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell-based test")
	}
	trainer, err := NewCommandTrainer([]string{"sleep", "60"}, quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = trainer.Train(ctx, "data.csv", t.TempDir())

	assert.Error(t, err)
}
