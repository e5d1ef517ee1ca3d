package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/henrietta/dispatch/internal/config"
	"github.com/henrietta/dispatch/internal/pipeline"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Dispatch is a production job status dashboard",
		Long:  "Dispatch reconciles periodic ERP snapshot exports into a per-job production status board with filters, colors, and notes.",
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newLoadCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newNoteCmd())
	cmd.AddCommand(newDBCmd())
	cmd.AddCommand(newDoctorCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dispatch %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

// sourcePaths resolves the configured source files into pipeline paths.
func sourcePaths(cfg *config.Config) pipeline.Paths {
	return pipeline.Paths{
		ShopOrders:        cfg.SourcePath(cfg.Sources.ShopOrders),
		LaborHistory:      cfg.SourcePath(cfg.Sources.LaborHistory),
		OrderBacklog:      cfg.SourcePath(cfg.Sources.OrderBacklog),
		PartInventory:     cfg.SourcePath(cfg.Sources.PartInventory),
		MaterialNotIssued: cfg.SourcePath(cfg.Sources.MaterialNotIssued),
		OpenPO:            cfg.SourcePath(cfg.Sources.OpenPO),
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
