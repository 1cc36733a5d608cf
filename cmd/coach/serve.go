package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/agents"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/ai"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/config"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/db"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/ghimport"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/notify"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/reminder"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the career coach API server",
		Long:  "Launches the JSON API plus the interview reminder scheduler.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "coach.yaml", "path to config file")
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
		port = cfg.Server.Port
	}

	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is not set; run `coach key` to store it")
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := db.Ping(gormDB); err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}

	client := ai.NewAnthropicClient(ai.ClientOpts{
		APIKey:  apiKey,
		Model:   cfg.Anthropic.Model,
		Timeout: cfg.Anthropic.Timeout.Std(),
	})
	aiOpts := agents.Opts{
		Client: client,
		Retry: ai.RetryOptions{
			MaxRetries: cfg.Anthropic.MaxRetries,
			RetryDelay: time.Duration(cfg.Anthropic.RetryDelayMs) * time.Millisecond,
		},
	}

	notifier, err := buildNotifier(cfg)
	if err != nil {
		return err
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

	if cfg.Reminders.Enabled && notifier == nil {
		fmt.Fprintln(out, "Reminders enabled but no notify targets configured; skipping scheduler")
	}
	if cfg.Reminders.Enabled && notifier != nil {
		sched, err := reminder.New(reminder.Opts{
			DB:       gormDB,
			Notifier: notifier,
			Schedule: cfg.Reminders.Schedule,
			LeadTime: cfg.Reminders.LeadTime.Std(),
		})
		if err != nil {
			return err
		}
		go sched.Run(ctx)
		fmt.Fprintf(out, "Reminder scheduler running (%s, %s lead)\n",
			cfg.Reminders.Schedule, cfg.Reminders.LeadTime.Std())
	}

	return server.Start(ctx, server.StartOpts{
		DB:       gormDB,
		Port:     port,
		Out:      out,
		AI:       aiOpts,
		Importer: ghimport.New(ctx, ghimport.Opts{Token: os.Getenv("GITHUB_TOKEN")}),
		Notifier: notifier,
	})
}

// buildNotifier wires the enabled chat targets into one fan-out notifier.
func buildNotifier(cfg *config.Config) (notify.Notifier, error) {
	var targets []notify.Notifier

	if cfg.Notify.Slack.Enabled {
		s, err := notify.NewSlack(notify.SlackOpts{
			BotToken: os.Getenv("SLACK_BOT_TOKEN"),
			Channel:  cfg.Notify.Slack.Channel,
		})
		if err != nil {
			return nil, err
		}
		targets = append(targets, s)
	}
	if cfg.Notify.Discord.Enabled {
		d, err := notify.NewDiscord(notify.DiscordOpts{
			BotToken:  os.Getenv("DISCORD_BOT_TOKEN"),
			ChannelID: cfg.Notify.Discord.ChannelID,
		})
		if err != nil {
			return nil, err
		}
		targets = append(targets, d)
	}

	if len(targets) == 0 {
		return nil, nil
	}
	return notify.NewMulti(targets...), nil
}
