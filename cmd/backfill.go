package main

import (
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/campuspulse/wellbeing-cli/internal/schema"
	"github.com/campuspulse/wellbeing-cli/internal/tabular"
)

var backfillPath string

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Backfill predictions from the self-reported outcome column",
	Long: `Rewrites the predictions column of the merged store from the
outcome label: a self-reported "Yes" becomes 1, everything else 0.
One-off repair for datasets scored before the classifier existed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		path := backfillPath
		if path == "" {
			path = cfg.Data.MergedStore()
		}

		t, err := tabular.Load(path)
		if err != nil {
			return err
		}

		updated := 0
		for i := range t.Rows {
			actual := strings.TrimSpace(t.Cell(i, schema.FieldActual))
			pred := "0"
			if strings.EqualFold(actual, "Yes") {
				pred = "1"
			}
			if t.Cell(i, schema.FieldPredictions) != pred {
				updated++
			}
			t.SetCell(i, schema.FieldPredictions, pred)
		}

		if err := tabular.Write(path, t); err != nil {
			return err
		}

		zap.L().Info("backfill complete",
			zap.String("path", path),
			zap.Int("rows", len(t.Rows)),
			zap.Int("updated", updated),
		)
		return nil
	},
}

func init() {
	backfillCmd.Flags().StringVar(&backfillPath, "path", "", "store to backfill (default: merged store)")
	rootCmd.AddCommand(backfillCmd)
}
