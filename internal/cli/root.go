// Package cli implements the memagent commands.
package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/petasbytes/memagent/internal/config"
	"github.com/petasbytes/memagent/internal/logging"
	"github.com/petasbytes/memagent/internal/provider"
	"github.com/petasbytes/memagent/internal/runner"
	"github.com/petasbytes/memagent/internal/telemetry"
	"github.com/petasbytes/memagent/memory"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *log.Logger
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:           "memagent",
	Short:         "A conversational agent with persistent, self-edited memory",
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(cfgFile); err != nil {
			return err
		}
		logger = logging.New(cmd.ErrOrStderr(), cfg.Log.Level)
		telemetry.SetLogger(logger.WithPrefix("memagent/telemetry"))
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "memagent.yml", "config file (missing file uses built-in defaults)")
}

// warnConfig logs configuration warnings once; called by commands that
// talk to the model.
func warnConfig() {
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}
}

func newRunner(ctx context.Context, store memory.Store) (*runner.Runner, error) {
	model, err := provider.New(provider.Settings{
		Kind:        cfg.Provider,
		Model:       cfg.Model,
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		return nil, err
	}
	r, err := runner.New(ctx, model, store, runner.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("start runner: %w", err)
	}
	logger.Info("agent ready", "provider", cfg.Provider, "model", model.Name(), "store", cfg.Store.Backend)
	return r, nil
}
