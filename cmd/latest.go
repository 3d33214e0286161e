package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the latest progress record for an element and student",
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
		pretty, _ := cmd.Flags().GetBool("pretty")

		record, err := latestByKind(cmd.Context(), s, kind, key)
		if err != nil {
			return err
		}
		if record == nil {
			fmt.Println("no progress recorded")
			return nil
		}
		return printJSON(record, pretty)
	},
}

func init() {
	addKeyFlags(latestCmd)
	latestCmd.Flags().String("kind", "GENERAL", "Progress kind: GENERAL, ACTIVITY, LINEAR, FREE, GRAPH, RANDOM, BKT")
	latestCmd.Flags().Bool("pretty", false, "Indent JSON output")
}
