package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/traverse-learning/traverse/internal/ingest"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import progress and attempt records from a JSON document",
	Long: `Import validates the document against the record schema before
writing anything, then applies every record as an idempotent batch.
Re-importing the same document is safe.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		doc, err := ingest.Load(data)
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		sum, err := doc.Apply(cmd.Context(), s)
		if err != nil {
			return err
		}
		fmt.Printf("imported %d attempts, %d progress records\n", sum.Attempts, sum.Progress)
		return nil
	},
}
