package cmd

import (
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show progress history for an element and student, newest first",
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
		kind, _ := cmd.Flags().GetString("kind")
		limit, _ := cmd.Flags().GetInt("limit")
		pretty, _ := cmd.Flags().GetBool("pretty")

		records, err := historyByKind(cmd.Context(), s, kind, key, limit)
		if err != nil {
			return err
		}
		for _, record := range records {
			if err := printJSON(record, pretty); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	addKeyFlags(historyCmd)
	historyCmd.Flags().String("kind", "GENERAL", "Progress kind: GENERAL, ACTIVITY, LINEAR, FREE, GRAPH, RANDOM, BKT")
	historyCmd.Flags().Int("limit", 0, "Maximum number of records (0 = all)")
	historyCmd.Flags().Bool("pretty", false, "Indent JSON output")
}
