package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/campuspulse/wellbeing-cli/internal/auth"
	"github.com/campuspulse/wellbeing-cli/internal/ingest"
	"github.com/campuspulse/wellbeing-cli/internal/report"
	"github.com/campuspulse/wellbeing-cli/internal/server"
	"github.com/campuspulse/wellbeing-cli/pkg/narrative"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the survey API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, true)
		if err != nil {
			return err
		}
		defer env.Close()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		pipeline := ingest.New(cfg.Data, env.schema, env.norm, env.clf,
			ingest.WithAudit(env.db))

		narr := narrative.NewClient(cfg.Anthropic.Key, narrative.Options{
			Model:       cfg.Anthropic.Model,
			MaxTokens:   cfg.Anthropic.MaxTokens,
			Temperature: cfg.Anthropic.Temperature,
			RPS:         cfg.Anthropic.RPS,
		})
		reports := report.NewGenerator(cfg.Data, narr, report.WithStore(env.db))

		creds := auth.NewCredentials(cfg.Data.CredentialStore())

		srv := server.New(cfg, env.schema, pipeline, reports, creds, env.db)
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
