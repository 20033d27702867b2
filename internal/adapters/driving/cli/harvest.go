package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/reelnotes/reelnotes/internal/core/domain"
	"github.com/reelnotes/reelnotes/internal/core/ports/driving"
)

var (
	harvestFilter string
	harvestLinks  bool
	harvestFlat   bool
	harvestResume bool
	harvestOut    string
)

var harvestCmd = &cobra.Command{
	Use:   "harvest [project-id]",
	Short: "Harvest comments and annotations from a project",
	Long: `Walks the project's folder tree, fetches every comment and drawn
annotation on eligible assets and assembles them into a JSON report.

Progress is checkpointed after each asset. If the run is interrupted,
re-running the same command resumes from the checkpoint instead of
re-fetching assets that already completed.`,
	Args: cobra.ExactArgs(1),
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().StringVar(&harvestFilter, "filter", "",
		"comma-separated terms an asset name must all contain")
	harvestCmd.Flags().BoolVar(&harvestLinks, "include-review-links", false,
		"also harvest assets referenced by the project's review links")
	harvestCmd.Flags().BoolVar(&harvestFlat, "flat", false,
		"emit a flat most-recent-first report instead of folder groups")
	harvestCmd.Flags().BoolVar(&harvestResume, "resume", true,
		"resume from the run's checkpoint; --resume=false starts over")
	harvestCmd.Flags().StringVarP(&harvestOut, "out", "o", "",
		"write the JSON report to a file instead of stdout")
	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	if harvestOrchestrator == nil {
		return errors.New("harvest service not configured")
	}

	tok, err := resolveToken()
	if err != nil {
		return err
	}

	in := domain.HarvestInput{
		Token:              tok,
		ProjectID:          args[0],
		Filter:             domain.ParseNameFilter(harvestFilter),
		IncludeReviewLinks: harvestLinks,
		Grouped:            !harvestFlat,
		Fresh:              !harvestResume,
	}

	cmd.Printf("Harvesting project: %s...\n", in.ProjectID)

	report, err := harvestWithProgress(context.Background(), cmd, harvestOrchestrator, in)
	if err != nil {
		return fmt.Errorf("harvest failed: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if harvestOut != "" {
		if err := os.WriteFile(harvestOut, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		cmd.Printf("Report written to %s (%d comments).\n",
			harvestOut, report.TotalComments())
		return nil
	}

	cmd.Println(string(data))
	return nil
}

type harvestResult struct {
	report *domain.Report
	err    error
}

// harvestWithProgress runs the harvest while displaying progress updates.
func harvestWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	orch driving.HarvestOrchestrator,
	in domain.HarvestInput,
) (*domain.Report, error) {
	// Run the harvest in a goroutine
	resCh := make(chan harvestResult, 1)
	go func() {
		report, err := orch.Harvest(ctx, in)
		resCh <- harvestResult{report: report, err: err}
	}()

	// Poll status every 500ms
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	runID := in.RunID()
	lastCount := 0
	for {
		select {
		case res := <-resCh:
			// Print final status (ignore status error - best effort)
			status, statusErr := orch.Status(ctx, runID)
			if statusErr == nil && status != nil && status.AssetsProcessed > 0 {
				cmd.Printf("\rProcessed %d assets (%d errors)\n",
					status.AssetsProcessed, status.ErrorCount)
			}
			return res.report, res.err
		case <-ticker.C:
			// Check progress (ignore status error - best effort)
			status, statusErr := orch.Status(ctx, runID)
			if statusErr == nil && status != nil && status.AssetsProcessed > lastCount {
				cmd.Printf("\rProcessing... %d of %d assets",
					status.AssetsProcessed, status.AssetsFound)
				lastCount = status.AssetsProcessed
			}
		}
	}
}
