/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/accordmanpower/cmsapi/config"
	"github.com/accordmanpower/cmsapi/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cmsapi",
	Short: "Content and lead management API for the staffing website",
	Long: `cmsapi serves the public content API (pages, blog, SEO settings,
sitemap, inquiry form) and the authenticated admin API behind the
marketing site. Usage:

	cmsapi server
	cmsapi migrate up
	cmsapi createadmin --username admin --email admin@example.com --password ...
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the process logger from config and installs it as the
// zap global.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	zap.ReplaceGlobals(log)
	return log, nil
}
