package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/henrietta/dispatch/internal/config"
)

func newDoctorCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and source files",
		Long:  "Runs diagnostic checks on Dispatch prerequisites: config, each configured snapshot export, and the notes database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "dispatch.yaml", "path to Dispatch config file")
	return cmd
}

type checkResult struct {
	name   string
	status string // "PASS", "FAIL", "WARN"
	detail string
}

func runDoctor(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Dispatch Doctor")
	fmt.Fprintln(out, "===============")

	var results []checkResult

	// 1. Config
	cfg, cfgResult := checkConfig(configPath)
	results = append(results, cfgResult)

	// 2. Source files. Shop orders is required; everything else degrades.
	if cfg != nil {
		results = append(results, checkSource("Shop orders", cfg.SourcePath(cfg.Sources.ShopOrders), true))
		results = append(results, checkSource("Labor history", cfg.SourcePath(cfg.Sources.LaborHistory), false))
		results = append(results, checkSource("Order backlog", cfg.SourcePath(cfg.Sources.OrderBacklog), false))
		results = append(results, checkSource("Part inventory", cfg.SourcePath(cfg.Sources.PartInventory), false))
		results = append(results, checkSource("Material not issued", cfg.SourcePath(cfg.Sources.MaterialNotIssued), false))
		results = append(results, checkSource("Open POs", cfg.SourcePath(cfg.Sources.OpenPO), false))
	} else {
		results = append(results, checkResult{"Source files", "FAIL", "skipped (no config)"})
	}

	// 3. Notes database
	if cfg != nil {
		results = append(results, checkNotesDB(cfg))
	} else {
		results = append(results, checkResult{"Notes database", "FAIL", "skipped (no config)"})
	}

	// Print results.
	passed, failed, warned := 0, 0, 0
	for _, r := range results {
		printCheckResult(out, r)
		switch r.status {
		case "PASS":
			passed++
		case "FAIL":
			failed++
		case "WARN":
			warned++
		}
	}

	fmt.Fprintf(out, "\n%d passed, %d failed, %d warning\n", passed, failed, warned)

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}

func printCheckResult(out io.Writer, r checkResult) {
	fmt.Fprintf(out, "[%s] %s: %s\n", r.status, r.name, r.detail)
}

func checkConfig(path string) (*config.Config, checkResult) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, checkResult{"Config file", "FAIL", fmt.Sprintf("%s: %v", path, err)}
	}
	return cfg, checkResult{"Config file", "PASS", path}
}

func checkSource(name, path string, required bool) checkResult {
	if path == "" {
		if required {
			return checkResult{name, "FAIL", "not configured"}
		}
		return checkResult{name, "WARN", "not configured"}
	}

	info, err := os.Stat(path)
	if err != nil {
		if required {
			return checkResult{name, "FAIL", fmt.Sprintf("%s: %v", path, err)}
		}
		return checkResult{name, "WARN", fmt.Sprintf("%s: %v (will load as degraded)", path, err)}
	}

	detail := fmt.Sprintf("%s (%d bytes, modified %s)", path, info.Size(), info.ModTime().Format("01/02/2006 3:04 PM"))
	if time.Since(info.ModTime()) > 24*time.Hour {
		return checkResult{name, "WARN", detail + ", older than 24h"}
	}
	return checkResult{name, "PASS", detail}
}

func checkNotesDB(cfg *config.Config) checkResult {
	gdb, err := openNotesDB(cfg)
	if err != nil {
		return checkResult{"Notes database", "FAIL", err.Error()}
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return checkResult{"Notes database", "FAIL", fmt.Sprintf("get sql.DB: %v", err)}
	}
	if err := sqlDB.Ping(); err != nil {
		return checkResult{"Notes database", "FAIL", fmt.Sprintf("ping failed: %v", err)}
	}
	if !gdb.Migrator().HasTable("notes") {
		return checkResult{"Notes database", "WARN", "reachable, notes table missing (run dispatch db init)"}
	}
	var count int64
	if err := gdb.Table("notes").Count(&count).Error; err != nil {
		return checkResult{"Notes database", "WARN", fmt.Sprintf("count notes: %v", err)}
	}
	return checkResult{"Notes database", "PASS", fmt.Sprintf("reachable, %d note(s)", count)}
}
