package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/traverse-learning/traverse/internal/store"
)

// coursewareKey is the (deployment, element, student) triple every
// per-courseware query takes.
type coursewareKey struct {
	deploymentID uuid.UUID
	elementID    uuid.UUID
	studentID    uuid.UUID
}

func addKeyFlags(cmd *cobra.Command) {
	cmd.Flags().String("deployment", "", "Deployment id")
	cmd.Flags().String("element", "", "Courseware element id")
	cmd.Flags().String("student", "", "Student id")
	cmd.MarkFlagRequired("deployment")
	cmd.MarkFlagRequired("element")
	cmd.MarkFlagRequired("student")
}

func keyFromFlags(cmd *cobra.Command) (coursewareKey, error) {
	var key coursewareKey
	var err error

	flags := []struct {
		name string
		dst  *uuid.UUID
	}{
		{"deployment", &key.deploymentID},
		{"element", &key.elementID},
		{"student", &key.studentID},
	}
	for _, f := range flags {
		raw, _ := cmd.Flags().GetString(f.name)
		if *f.dst, err = uuid.Parse(raw); err != nil {
			return key, fmt.Errorf("invalid --%s %q: %w", f.name, raw, err)
		}
	}
	return key, nil
}

// latestByKind fetches the most recent record of the requested variant.
// A nil result with a nil error means nothing is stored.
func latestByKind(ctx context.Context, s *store.Store, kind string, k coursewareKey) (any, error) {
	records, err := historyByKind(ctx, s, kind, k, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// historyByKind fetches records of the requested variant, newest first.
// n <= 0 means the full history.
func historyByKind(ctx context.Context, s *store.Store, kind string, k coursewareKey, n int) ([]any, error) {
	switch strings.ToUpper(kind) {
	case "GENERAL":
		return generalize(s.GeneralProgress().LatestN(ctx, k.deploymentID, k.elementID, k.studentID, n))
	case "ACTIVITY":
		return generalize(s.ActivityProgress().LatestN(ctx, k.deploymentID, k.elementID, k.studentID, n))
	case "LINEAR":
		return generalize(s.LinearProgress().LatestN(ctx, k.deploymentID, k.elementID, k.studentID, n))
	case "FREE":
		return generalize(s.FreeProgress().LatestN(ctx, k.deploymentID, k.elementID, k.studentID, n))
	case "GRAPH":
		return generalize(s.GraphProgress().LatestN(ctx, k.deploymentID, k.elementID, k.studentID, n))
	case "RANDOM":
		return generalize(s.RandomProgress().LatestN(ctx, k.deploymentID, k.elementID, k.studentID, n))
	case "BKT":
		return generalize(s.BKTProgress().LatestN(ctx, k.deploymentID, k.elementID, k.studentID, n))
	default:
		return nil, fmt.Errorf("unknown progress kind %q", kind)
	}
}

func generalize[D any](records []*D, err error) ([]any, error) {
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(records))
	for _, r := range records {
		out = append(out, r)
	}
	return out, nil
}

// printJSON writes one value per line, indented only when pretty is set.
func printJSON(v any, pretty bool) error {
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
