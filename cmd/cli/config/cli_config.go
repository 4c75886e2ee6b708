package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/inferloop/modelreg/internal/guardrail"
	"github.com/inferloop/modelreg/pkg/constants"
)

type CLIConfig struct {
	RegistryDir        string               `mapstructure:"registry_dir"`
	ArtifactsDir       string               `mapstructure:"artifacts_dir"`
	TrainCommand       []string             `mapstructure:"train_command"`
	MinTrainingSamples int                  `mapstructure:"min_training_samples"`
	Guardrails         guardrail.Thresholds `mapstructure:"guardrails"`
}

// LoadConfig resolves the CLI configuration from viper, which cobra has
// already pointed at the config file and the MODELREG_* environment.
func LoadConfig() (*CLIConfig, error) {
	defaults := guardrail.DefaultThresholds()

	viper.SetDefault("registry_dir", constants.DefaultRegistryDir)
	viper.SetDefault("artifacts_dir", constants.DefaultArtifactsDir)
	viper.SetDefault("train_command", constants.DefaultTrainCommand)
	viper.SetDefault("min_training_samples", 500)
	viper.SetDefault("guardrails.max_recall_drop", defaults.MaxRecallDrop)
	viper.SetDefault("guardrails.max_precision_drop", defaults.MaxPrecisionDrop)
	viper.SetDefault("guardrails.max_brier_increase", defaults.MaxBrierIncrease)

	config := &CLIConfig{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if config.Guardrails.MaxRecallDrop < 0 || config.Guardrails.MaxPrecisionDrop < 0 || config.Guardrails.MaxBrierIncrease < 0 {
		return nil, fmt.Errorf("guardrail thresholds must be non-negative")
	}
	return config, nil
}
