package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/henrietta/dispatch/internal/config"
	"github.com/henrietta/dispatch/internal/db"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Notes database management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the notes database",
		Long:  "Opens the configured notes database and migrates all tables. Safe to run more than once.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "dispatch.yaml", "path to Dispatch config file")
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gdb, err := openNotesDB(cfg)
	if err != nil {
		return err
	}
	switch cfg.Notes.Driver {
	case "mysql":
		fmt.Fprintf(out, "Connected to MySQL at %s:%d/%s\n", cfg.Notes.Host, cfg.Notes.Port, cfg.Notes.Database)
	default:
		fmt.Fprintf(out, "Opened SQLite database %s\n", cfg.Notes.Path)
	}

	if err := db.AutoMigrate(gdb); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))

	fmt.Fprintln(out, "\nNotes database initialized successfully.")
	return nil
}

// openNotesDB opens the configured notes database without migrating.
func openNotesDB(cfg *config.Config) (*gorm.DB, error) {
	return db.Open(db.Options{
		Driver:   cfg.Notes.Driver,
		Path:     cfg.Notes.Path,
		Host:     cfg.Notes.Host,
		Port:     cfg.Notes.Port,
		User:     cfg.Notes.User,
		Database: cfg.Notes.Database,
	})
}
