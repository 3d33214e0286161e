package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <deployment-id>",
	Short: "Show stored record counts for a deployment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deploymentID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid deployment id %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		stats, err := s.DeploymentStats(cmd.Context(), deploymentID)
		if err != nil {
			return err
		}

		fmt.Printf("deployment %s\n", stats.DeploymentID)
		fmt.Printf("  progress records: %d\n", stats.Records)
		fmt.Printf("  students:         %d\n", stats.Students)
		fmt.Printf("  attempts:         %d\n", stats.Attempts)
		if stats.AvgCompletionValue != nil {
			fmt.Printf("  avg completion:   %.3f\n", *stats.AvgCompletionValue)
		}
		for _, tc := range stats.ByElementType {
			fmt.Printf("  %-12s %d\n", tc.ElementType, tc.Count)
		}
		return nil
	},
}
