// cmd/tools/reminder-sweep/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lead-funnel/internal/common/config"
	"lead-funnel/internal/common/hubspot"
	"lead-funnel/internal/common/logger"
	"lead-funnel/internal/common/notify"
	callreminders "lead-funnel/internal/workers/reminders/call-reminders"
)

func main() {
	configPath := flag.String("config", "", "Path to a config file (default: configs/config.yaml lookup)")
	profile := flag.String("profile", "", "Reminder profile override (production or test)")
	dryRun := flag.Bool("dry-run", false, "Log emails instead of sending them")
	timeout := flag.Duration("timeout", 5*time.Minute, "Upper bound for the whole sweep")
	flag.Parse()

	os.Exit(run(*configPath, *profile, *dryRun, *timeout))
}

func run(configPath, profile string, dryRun bool, timeout time.Duration) int {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if profile != "" {
		if err := cfg.UseProfile(profile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	// Logs go to stderr so stdout carries only the summary.
	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format, "stderr")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	defer cancelTimeout()

	notifier, err := notify.NewFromConfig(ctx, cfg, dryRun, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	handler, err := callreminders.NewHandler(callreminders.HandlerOptions{
		AppConfig: cfg,
		Logger:    log,
		Directory: hubspot.NewClient(hubspot.ConfigFromApp(cfg.HubSpot), log),
		Notifier:  notifier,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	summary := handler.Service().RunSweep(ctx)

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding summary: %v\n", err)
		return 1
	}
	fmt.Println(string(out))

	if summary.AllDegraded() {
		return 2
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}
