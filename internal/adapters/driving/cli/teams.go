package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List teams the token can access",
	RunE:  runTeams,
}

func init() {
	rootCmd.AddCommand(teamsCmd)
}

func runTeams(cmd *cobra.Command, _ []string) error {
	if apiFactory == nil {
		return errors.New("review API not configured")
	}

	tok, err := resolveToken()
	if err != nil {
		return err
	}

	ctx := context.Background()
	api := apiFactory(ctx, tok)

	teams, err := api.Teams(ctx)
	if err != nil {
		return fmt.Errorf("failed to list teams: %w", err)
	}

	if len(teams) == 0 {
		cmd.Println("No teams found.")
		return nil
	}

	cmd.Println("Teams:")
	for _, team := range teams {
		cmd.Printf("  %s  %s\n", team.ID, team.Name)
	}
	return nil
}
