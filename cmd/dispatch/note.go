package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/henrietta/dispatch/internal/config"
	"github.com/henrietta/dispatch/internal/db"
	"github.com/henrietta/dispatch/internal/notes"
)

func newNoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage per-job notes",
	}

	cmd.AddCommand(newNoteAddCmd())
	cmd.AddCommand(newNoteListCmd())
	cmd.AddCommand(newNoteRmCmd())
	return cmd
}

func newNoteAddCmd() *cobra.Command {
	var (
		configPath string
		author     string
	)

	cmd := &cobra.Command{
		Use:   "add <job> <text>",
		Short: "Add a note to a job",
		Long:  "Appends a note to the given job number. Notes survive refreshes and are kept even if the job later drops out of the export.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNoteAdd(cmd, configPath, args[0], strings.Join(args[1:], " "), author)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "dispatch.yaml", "path to Dispatch config file")
	cmd.Flags().StringVar(&author, "author", "", "note author (defaults to \"User\")")
	return cmd
}

func runNoteAdd(cmd *cobra.Command, configPath, jobID, text, author string) error {
	store, err := openNoteStore(configPath)
	if err != nil {
		return err
	}

	id, err := store.Append(jobID, text, author)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added note %d to job %s\n", id, jobID)
	return nil
}

func newNoteListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list [job]",
		Short: "List notes, newest first",
		Long:  "Lists notes for a job, or all notes when no job is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID := ""
			if len(args) > 0 {
				jobID = args[0]
			}
			return runNoteList(cmd, configPath, jobID)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "dispatch.yaml", "path to Dispatch config file")
	return cmd
}

func runNoteList(cmd *cobra.Command, configPath, jobID string) error {
	out := cmd.OutOrStdout()

	store, err := openNoteStore(configPath)
	if err != nil {
		return err
	}

	var list []notesRow
	if jobID != "" {
		found, err := store.ListFor(jobID)
		if err != nil {
			return err
		}
		for _, n := range found {
			list = append(list, notesRow{n.ID, n.JobID, n.Text, n.CreatedBy, n.CreatedAt.Format("01/02/2006 3:04 PM")})
		}
	} else {
		found, err := store.ListAll()
		if err != nil {
			return err
		}
		for _, n := range found {
			list = append(list, notesRow{n.ID, n.JobID, n.Text, n.CreatedBy, n.CreatedAt.Format("01/02/2006 3:04 PM")})
		}
	}

	if len(list) == 0 {
		fmt.Fprintln(out, "No notes found.")
		return nil
	}

	for _, n := range list {
		fmt.Fprintf(out, "#%-5d %-12s %-20s %s  %s\n", n.id, n.jobID, n.createdAt, n.author, truncate(n.text, 60))
	}
	fmt.Fprintf(out, "\n%d note(s)\n", len(list))
	return nil
}

type notesRow struct {
	id        uint
	jobID     string
	text      string
	author    string
	createdAt string
}

func newNoteRmCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a note by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNoteRm(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "dispatch.yaml", "path to Dispatch config file")
	return cmd
}

func runNoteRm(cmd *cobra.Command, configPath, rawID string) error {
	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid note id %q", rawID)
	}

	store, err := openNoteStore(configPath)
	if err != nil {
		return err
	}

	if err := store.Delete(uint(id)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %d\n", id)
	return nil
}

// openNoteStore loads config, opens the notes database, and migrates it.
func openNoteStore(configPath string) (*notes.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	gdb, err := openNotesDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(gdb); err != nil {
		return nil, err
	}
	return notes.NewStore(gdb), nil
}
