package main

import (
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/campuspulse/wellbeing-cli/internal/merge"
	"github.com/campuspulse/wellbeing-cli/internal/tabular"
)

var mergeOutput string

var mergeCmd = &cobra.Command{
	Use:   "merge TAG=path [TAG=path ...]",
	Short: "Merge source datasets into one normalized store",
	Long: `Concatenates heterogeneous survey spreadsheets into a single
normalized dual-header store, tagging each row with its origin.

Example:
  wellbeing-cli merge SOL=data/sol_raw.xlsx UAL1=data/ual1_raw.xlsx`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, false)
		if err != nil {
			return err
		}
		defer env.Close()

		sources := make([]merge.Source, 0, len(args))
		for _, arg := range args {
			tag, path, ok := strings.Cut(arg, "=")
			if !ok || tag == "" || path == "" {
				return eris.Errorf("merge: bad source %q, want TAG=path", arg)
			}
			sources = append(sources, merge.Source{Path: path, Tag: strings.ToUpper(tag)})
		}

		out, err := merge.New(env.schema, env.norm).Merge(ctx, sources)
		if err != nil {
			return err
		}

		dest := mergeOutput
		if dest == "" {
			dest = cfg.Data.MergedStore()
		}
		if err := tabular.Write(dest, out); err != nil {
			return err
		}

		zap.L().Info("merge complete",
			zap.String("output", dest),
			zap.Int("rows", len(out.Rows)),
			zap.Int("sources", len(sources)),
		)
		return nil
	},
}

func init() {
	mergeCmd.Flags().StringVar(&mergeOutput, "output", "", "output path (default: merged store)")
	rootCmd.AddCommand(mergeCmd)
}
