package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/reelnotes/reelnotes/internal/core/ports/driven"
	"github.com/reelnotes/reelnotes/internal/core/ports/driving"
	"github.com/reelnotes/reelnotes/internal/core/services"
	"github.com/reelnotes/reelnotes/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

// Services the commands drive. The entrypoint injects concrete
// adapters before Execute runs; commands nil-check what they need.
var (
	harvestOrchestrator driving.HarvestOrchestrator
	apiFactory          services.APIFactory
	configStore         driven.ConfigStore
)

// Dependencies holds the wired services the CLI commands use.
type Dependencies struct {
	HarvestOrchestrator driving.HarvestOrchestrator
	APIFactory          services.APIFactory
	ConfigStore         driven.ConfigStore
}

// SetDependencies injects the services the commands use.
func SetDependencies(deps *Dependencies) {
	if deps == nil {
		return
	}
	harvestOrchestrator = deps.HarvestOrchestrator
	apiFactory = deps.APIFactory
	configStore = deps.ConfigStore
}

var (
	verbose bool
	token   string
)

var rootCmd = &cobra.Command{
	Use:   "reelnotes",
	Short: "Harvest review feedback from Frame.io projects",
	Long: `Reelnotes collects comments and drawn annotations from a Frame.io
project's asset tree and assembles them into a single report.

Runs are checkpointed after every asset, so an interrupted harvest
resumes where it left off instead of re-fetching finished assets.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose diagnostic output")
	rootCmd.PersistentFlags().StringVar(&token, "token", "",
		"Frame.io bearer token (defaults to $REELNOTES_TOKEN)")
}

// resolveToken returns the bearer token from the --token flag or the
// REELNOTES_TOKEN environment variable.
func resolveToken() (string, error) {
	if token != "" {
		return token, nil
	}
	if env := os.Getenv("REELNOTES_TOKEN"); env != "" {
		return env, nil
	}
	return "", errors.New("no token provided: use --token or set REELNOTES_TOKEN")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
