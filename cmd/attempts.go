package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var attemptsCmd = &cobra.Command{
	Use:   "attempts",
	Short: "Show the attempt ledger for an element and student, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		key, err := keyFromFlags(cmd)
		if err != nil {
			return err
		}
		latestOnly, _ := cmd.Flags().GetBool("latest")
		pretty, _ := cmd.Flags().GetBool("pretty")

		repo := s.Attempts()
		if latestOnly {
			a, err := repo.FindLatest(cmd.Context(), key.deploymentID, key.elementID, key.studentID)
			if err != nil {
				return err
			}
			if a == nil {
				fmt.Println("no attempts recorded")
				return nil
			}
			return printJSON(a, pretty)
		}

		history, err := repo.History(cmd.Context(), key.deploymentID, key.elementID, key.studentID)
		if err != nil {
			return err
		}
		for _, a := range history {
			if err := printJSON(a, pretty); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	addKeyFlags(attemptsCmd)
	attemptsCmd.Flags().Bool("latest", false, "Only print the most recent attempt")
	attemptsCmd.Flags().Bool("pretty", false, "Indent JSON output")
}
