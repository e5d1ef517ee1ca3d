package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/henrietta/dispatch/internal/config"
	"github.com/henrietta/dispatch/internal/dashboard"
	"github.com/henrietta/dispatch/internal/db"
	"github.com/henrietta/dispatch/internal/notes"
	"github.com/henrietta/dispatch/internal/notify"
	"github.com/henrietta/dispatch/internal/notify/discord"
	"github.com/henrietta/dispatch/internal/notify/slack"
	"github.com/henrietta/dispatch/internal/pipeline"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dispatch dashboard",
		Long:  "Runs an initial load, then serves the record set over HTTP and refreshes it on the configured cron schedule. Refreshes triggered while one is in flight are coalesced, never run concurrently.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "dispatch.yaml", "path to Dispatch config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if port <= 0 {
		port = cfg.Dashboard.Port
	}

	sched, err := cronParser.Parse(cfg.Refresh.Cron)
	if err != nil {
		return fmt.Errorf("refresh.cron %q: %w", cfg.Refresh.Cron, err)
	}

	// Notes store.
	gdb, err := openNotesDB(cfg)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gdb); err != nil {
		return err
	}
	noteStore := notes.NewStore(gdb)

	// Chat notifications, when configured.
	notifier, err := buildNotifier(cfg)
	if err != nil {
		return err
	}
	defer notifier.Close()

	store := &pipeline.Store{}
	refresher := &pipeline.Refresher{
		Paths: sourcePaths(cfg),
		Store: store,
		OnComplete: func(sn *pipeline.Snapshot, err error) {
			if !notifier.Enabled() {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err != nil {
				notifier.Publish(ctx, notify.LoadFailure(err))
				return
			}
			if ev, ok := notify.Digest(sn); ok {
				notifier.Publish(ctx, ev)
			}
		},
	}

	// Initial load. A failure is not fatal to serving: the dashboard
	// reports the load error and the next scheduled refresh retries.
	if _, err := refresher.Refresh(); err != nil {
		fmt.Fprintf(out, "Initial load failed: %v\n", err)
	} else {
		state := store.Current()
		fmt.Fprintf(out, "Loaded %d jobs\n", len(state.Snapshot.Records))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(out, "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	// Background refresh on the cron schedule.
	go refreshLoop(ctx, sched, refresher)
	fmt.Fprintf(out, "Refreshing on schedule %q\n", cfg.Refresh.Cron)

	return dashboard.Start(ctx, dashboard.StartOpts{
		Store:     store,
		Refresher: refresher,
		Notes:     noteStore,
		Port:      port,
		Out:       out,
	})
}

// refreshLoop fires the refresher at each cron schedule boundary until ctx
// is cancelled.
func refreshLoop(ctx context.Context, sched cron.Schedule, refresher *pipeline.Refresher) {
	for {
		next := sched.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if _, err := refresher.Refresh(); err != nil {
				log.Printf("scheduled refresh: %v", err)
			}
		}
	}
}

// buildNotifier assembles the configured chat adapters.
func buildNotifier(cfg *config.Config) (*notify.Notifier, error) {
	var adapters []notify.Adapter

	if cfg.Notify.Slack.BotToken != "" && cfg.Notify.Slack.Channel != "" {
		a, err := slack.New(slack.Opts{
			BotToken:  cfg.Notify.Slack.BotToken,
			ChannelID: cfg.Notify.Slack.Channel,
		})
		if err != nil {
			return nil, fmt.Errorf("notify: %w", err)
		}
		adapters = append(adapters, a)
	}

	if cfg.Notify.Discord.BotToken != "" && cfg.Notify.Discord.Channel != "" {
		a, err := discord.New(discord.Opts{
			BotToken:  cfg.Notify.Discord.BotToken,
			ChannelID: cfg.Notify.Discord.Channel,
		})
		if err != nil {
			return nil, fmt.Errorf("notify: %w", err)
		}
		adapters = append(adapters, a)
	}

	return notify.New(adapters...), nil
}
