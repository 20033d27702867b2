package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reelnotes/reelnotes/internal/core/domain"
)

var projectsCmd = &cobra.Command{
	Use:   "projects [team-id]",
	Short: "List harvestable projects",
	Long: `Lists the projects of a team. If no team ID is provided, projects
of every accessible team are listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProjects,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, args []string) error {
	if apiFactory == nil {
		return errors.New("review API not configured")
	}

	tok, err := resolveToken()
	if err != nil {
		return err
	}

	ctx := context.Background()
	api := apiFactory(ctx, tok)

	if len(args) > 0 {
		projects, err := api.TeamProjects(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}
		printProjects(cmd, projects)
		return nil
	}

	teams, err := api.Teams(ctx)
	if err != nil {
		return fmt.Errorf("failed to list teams: %w", err)
	}

	for _, team := range teams {
		projects, err := api.TeamProjects(ctx, team.ID)
		if err != nil {
			return fmt.Errorf("failed to list projects of team %s: %w", team.ID, err)
		}
		cmd.Printf("%s:\n", team.Name)
		printProjects(cmd, projects)
	}
	return nil
}

func printProjects(cmd *cobra.Command, projects []domain.Project) {
	if len(projects) == 0 {
		cmd.Println("  No projects found.")
		return
	}
	for _, p := range projects {
		cmd.Printf("  %s  %s\n", p.ID, p.Name)
	}
}
