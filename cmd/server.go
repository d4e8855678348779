/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/accordmanpower/cmsapi/config"
	"github.com/accordmanpower/cmsapi/internal/db"
	"github.com/accordmanpower/cmsapi/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serverAutoMigrate bool

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the CMS API server",
	Long: `Starts the CMS API server. Usage:

	cmsapi server [--migrate]
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		dsn, err := cfg.Database.DSN()
		if err != nil {
			log.Error("invalid configuration", zap.Error(err))
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if serverAutoMigrate {
			if err := db.MigrateUp(dsn); err != nil {
				log.Error("migrations failed", zap.Error(err))
				return err
			}
			log.Info("migrations applied")
		}

		srv, err := server.New(ctx, cfg, log)
		if err != nil {
			log.Error("failed to start server", zap.Error(err))
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			_ = srv.Shutdown(context.Background())
			if err != nil {
				log.Error("server error", zap.Error(err))
			}
			return err
		case <-ctx.Done():
			log.Info("shutting down")
			if err := srv.Shutdown(context.Background()); err != nil {
				log.Error("graceful shutdown failed", zap.Error(err))
				return err
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().BoolVar(&serverAutoMigrate, "migrate", false, "apply pending migrations before serving")
}
