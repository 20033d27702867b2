package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/reelnotes/reelnotes/internal/adapters/driven/checkpoint/file"
	configfile "github.com/reelnotes/reelnotes/internal/adapters/driven/config/file"
	"github.com/reelnotes/reelnotes/internal/adapters/driving/cli"
	"github.com/reelnotes/reelnotes/internal/connectors/frameio"
	"github.com/reelnotes/reelnotes/internal/core/domain"
	"github.com/reelnotes/reelnotes/internal/core/ports/driven"
	"github.com/reelnotes/reelnotes/internal/core/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("failed to open config store: %w", err)
	}

	checkpoints, err := file.NewStore(configStore.GetString(configfile.KeyStateDir))
	if err != nil {
		return fmt.Errorf("failed to open checkpoint store: %w", err)
	}

	clientCfg := frameio.DefaultConfig()
	if delay := configStore.GetFloat(configfile.KeyRequestDelay); delay > 0 {
		clientCfg.RequestDelay = time.Duration(delay * float64(time.Second))
	}
	if retries := configStore.GetInt(configfile.KeyMaxRetries); retries > 0 {
		clientCfg.MaxRetries = retries
	}

	factory := func(ctx context.Context, token string) driven.ReviewAPI {
		return frameio.NewService(ctx, token, clientCfg)
	}

	opts := services.Options{
		Exclusion: domain.NewContainerExclusion(
			configStore.GetStringSlice(configfile.KeyExcludeContainers)...),
		Palette: configStore.GetStringSlice(configfile.KeyPalette),
	}
	if w := configStore.GetFloat(configfile.KeyFrameWidth); w > 0 {
		opts.Frame.Width = w
	}
	if h := configStore.GetFloat(configfile.KeyFrameHeight); h > 0 {
		opts.Frame.Height = h
	}

	harvester := services.NewHarvester(factory, checkpoints, opts)

	cli.SetDependencies(&cli.Dependencies{
		HarvestOrchestrator: harvester,
		APIFactory:          factory,
		ConfigStore:         configStore,
	})

	return cli.Execute()
}
