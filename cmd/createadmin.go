/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/accordmanpower/cmsapi/config"
	"github.com/accordmanpower/cmsapi/internal/db"
	"github.com/accordmanpower/cmsapi/internal/services"
	"github.com/accordmanpower/cmsapi/internal/store"
	"github.com/spf13/cobra"
)

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

// createAdminCmd seeds the first administrator account.
var createAdminCmd = &cobra.Command{
	Use:   "createadmin",
	Short: "Create an admin user if it does not exist",
	Long: `Creates an admin account. Running it again with the same username
is a no-op. Usage:

	cmsapi createadmin --username admin --email admin@example.com --password secret123
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminPassword == "" {
			return errors.New("--password is required")
		}

		cfg := config.LoadConfig()
		conn, err := db.Open(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer conn.Close()

		users := services.NewUserService(store.NewUserRepository(conn))
		user, created, err := users.EnsureAdmin(cmd.Context(), adminUsername, adminEmail, adminPassword)
		if err != nil {
			return err
		}

		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %q (id %d)\n", user.Username, user.ID)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "user %q already exists (id %d, role %s)\n", user.Username, user.ID, user.Role)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createAdminCmd)

	createAdminCmd.Flags().StringVar(&adminUsername, "username", "admin", "admin username")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "admin@accordmanpower.com", "admin email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password (min 8 characters)")
}
