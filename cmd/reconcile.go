package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/campuspulse/wellbeing-cli/internal/reconcile"
	"github.com/campuspulse/wellbeing-cli/internal/tabular"
)

var reconcilePath string

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Re-derive predictions for unknown-outcome rows",
	Long: `Runs the prediction reconciler over a store without a new
submission: rows whose outcome label is the unknown sentinel get a
fresh classifier score. Useful after a crash between the merged-store
append and the fan-out writes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, false)
		if err != nil {
			return err
		}
		defer env.Close()

		path := reconcilePath
		if path == "" {
			path = cfg.Data.MergedStore()
		}

		t, err := tabular.Load(path)
		if err != nil {
			return err
		}

		res, err := reconcile.Reconcile(ctx, t, env.clf)
		if err != nil {
			return err
		}

		if err := tabular.Write(path, t); err != nil {
			return err
		}

		zap.L().Info("reconcile complete",
			zap.String("path", path),
			zap.Int("scored", res.Scored),
			zap.Int("sentinel_rows", res.Sentinel),
			zap.Int("updated", res.Updated),
			zap.Int("at_risk", res.AtRisk),
			zap.Int("not_at_risk", res.NotAtRisk),
		)
		return nil
	},
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcilePath, "path", "", "store to reconcile (default: merged store)")
	rootCmd.AddCommand(reconcileCmd)
}
