package commands

import (
	"log/slog"

	"github.com/leapstack-labs/leapfuzz/internal/cli/config"
	"github.com/leapstack-labs/leapfuzz/pkg/adapter"
	"github.com/leapstack-labs/leapfuzz/pkg/conninfo"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Target conninfo.Descriptor
}

// NewCommandContext collects the loaded configuration, the logger and the
// parsed target descriptor.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := getConfig()
	desc, err := cfg.Descriptor()
	if err != nil {
		return nil, err
	}
	return &CommandContext{
		Cfg:    cfg,
		Logger: config.GetLogger(cmd.Context()),
		Target: desc,
	}, nil
}

// Factory returns the adapter factory of the configured target.
func (c *CommandContext) Factory() (adapter.Factory, error) {
	factory, ok := adapter.Get(c.Cfg.Target.Type)
	if !ok {
		return nil, &adapter.UnknownAdapterError{Type: c.Cfg.Target.Type, Available: adapter.ListAdapters()}
	}
	return factory, nil
}

// getConfig returns the current configuration, or the defaults when none
// has been loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		Target:         config.TargetConfig{Type: config.DefaultTargetType},
		FailureLog:     config.DefaultFailureLog,
		StatusInterval: config.DefaultStatusInterval,
	}
}
