package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/henrietta/dispatch/internal/config"
	"github.com/henrietta/dispatch/internal/pipeline"
)

func newLoadCmd() *cobra.Command {
	var (
		configPath string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Run one load cycle and print a summary",
		Long:  "Reads the configured snapshot sources, derives per-job status, and prints a summary with load diagnostics. Useful for verifying exports before serving the dashboard.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, configPath, asJSON)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "dispatch.yaml", "path to Dispatch config file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full snapshot as JSON")
	return cmd
}

func runLoad(cmd *cobra.Command, configPath string, asJSON bool) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sn, err := pipeline.Run(sourcePaths(cfg), time.Now())
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sn)
	}

	fmt.Fprintf(out, "Loaded %d jobs at %s\n", len(sn.Records), sn.BuiltAt.Format("01/02/2006 3:04 PM"))

	// Status distribution.
	counts := make(map[string]int)
	pastDue := 0
	for i := range sn.Records {
		counts[sn.Records[i].Status.DisplayName()]++
		if sn.Records[i].PastDue {
			pastDue++
		}
	}
	for _, name := range []string{"Unengineered", "In-Work", "Can Ship", "Partial", "Not Started"} {
		fmt.Fprintf(out, "  %-14s %d\n", name, counts[name])
	}
	fmt.Fprintf(out, "  %-14s %d\n", "Past due", pastDue)

	// Source diagnostics.
	fmt.Fprintln(out, "\nSources:")
	for _, rep := range sn.Diag.Sources {
		if !rep.Available {
			fmt.Fprintf(out, "  %-20s UNAVAILABLE (%s)\n", rep.Source, rep.Error)
			continue
		}
		fmt.Fprintf(out, "  %-20s %d rows", rep.Source, rep.Rows)
		if rep.Skipped > 0 {
			fmt.Fprintf(out, " (%d skipped)", rep.Skipped)
		}
		if !rep.ModTime.IsZero() {
			fmt.Fprintf(out, ", modified %s", rep.ModTime.Format("01/02/2006 3:04 PM"))
		}
		fmt.Fprintln(out)
	}

	if len(sn.Diag.Warnings) > 0 {
		fmt.Fprintf(out, "\n%d field coercion warnings (first %d shown):\n",
			len(sn.Diag.Warnings), min(len(sn.Diag.Warnings), 10))
		for i, w := range sn.Diag.Warnings {
			if i >= 10 {
				break
			}
			fmt.Fprintf(out, "  %s row %d: %s %q is not a valid %s\n",
				w.Source, w.Row, w.Field, truncate(w.Raw, 40), w.Kind)
		}
	}

	if len(sn.Suppliers) > 0 {
		fmt.Fprintf(out, "\nOpen POs: %d lines across %d suppliers\n", len(sn.POLines), len(sn.Suppliers))
	}

	return nil
}
