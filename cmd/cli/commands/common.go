package commands

import (
	"github.com/sirupsen/logrus"

	"github.com/inferloop/modelreg/cmd/cli/config"
	"github.com/inferloop/modelreg/internal/registry"
)

// newEnv resolves the CLI configuration and builds the registry store every
// command operates on. A --registry flag value overrides the configured root.
func newEnv(registryDir string) (*config.CLIConfig, *registry.Store, *logrus.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	if registryDir != "" {
		cfg.RegistryDir = registryDir
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	store := registry.NewStore(cfg.RegistryDir, logger)
	return cfg, store, logger, nil
}
