// Command worker is the scheduled research orchestrator. It picks the
// stalest eligible platforms, researches them sequentially, and persists
// run and result records for the compliance dashboard.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"platform-research/config"
	"platform-research/creds"
	"platform-research/database"
	"platform-research/models"
	"platform-research/registry"
	"platform-research/reports"
	"platform-research/scripts"
	"platform-research/session"
	"platform-research/worker"
)

var (
	flagLimit     int
	flagPlatform  string
	flagDryRun    bool
	flagSchedule  string
	flagDelay     time.Duration
	flagCredsFile string
)

func main() {
	root := &cobra.Command{
		Use:           "worker",
		Short:         "Scheduled parental-controls research batches",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	root.Flags().IntVar(&flagLimit, "limit", worker.DefaultLimit, "max platforms per batch")
	root.Flags().StringVar(&flagPlatform, "platform", "", "single-platform override, bypasses staleness selection")
	root.Flags().BoolVar(&flagDryRun, "dry-run", false, "compute and log the selection without executing")
	root.Flags().StringVar(&flagSchedule, "schedule", "", "cron expression; run batches on a schedule instead of once")
	root.Flags().DurationVar(&flagDelay, "delay", worker.DefaultDelay, "pause between platform runs")
	root.Flags().StringVar(&flagCredsFile, "creds-file", "credentials.env", "path to the KEY=value credentials file")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	credMap, err := creds.Load(flagCredsFile)
	if err != nil {
		return err
	}

	reg := registry.New()
	reg.LoadExtensions("platforms.yaml")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	w := &worker.Worker{
		Registry: reg,
		Creds:    credMap,
		Store:    store,
		Delay:    flagDelay,
		Opts: scripts.Options{
			ScreenshotDir: "results/screenshots",
			Researcher:    "scheduled-worker",
			Trigger:       models.TriggerScheduled,
		},
	}

	if flagDryRun {
		_, err := w.DryRun(ctx, flagLimit, flagPlatform)
		return err
	}

	if flagSchedule != "" {
		return runScheduled(ctx, w, cfg)
	}

	run, err := runBatch(ctx, w, cfg)
	if err != nil {
		return err
	}
	notify(cfg, run)
	if run.Status == models.RunStatusFailed {
		return fmt.Errorf("run %s failed: all %d platform(s) failed", run.ID, run.Total)
	}
	return nil
}

// runBatch owns the browser for one batch: launched once, shared by every
// platform via isolated sessions, and closed no matter how the batch ends.
func runBatch(ctx context.Context, w *worker.Worker, cfg *config.Config) (*models.ResearchRun, error) {
	browser, err := session.Launch(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer browser.Close()

	w.Research = func(ctx context.Context, p registry.Platform, c *models.Credentials, opts scripts.Options) *models.PlatformResearchResult {
		drv, err := browser.NewSession(ctx)
		if err != nil {
			return scripts.NewRecorder(p, opts).Fail(fmt.Errorf("create session: %w", err))
		}
		defer drv.Quit()
		return scripts.Lookup(p.ID).Research(ctx, drv, p, c, opts)
	}

	return w.Run(ctx, flagLimit, flagPlatform, cfg.RunID)
}

// runScheduled keeps the process alive and fires batches on a cron
// schedule, skipping a tick if the previous batch is still running.
func runScheduled(ctx context.Context, w *worker.Worker, cfg *config.Config) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(flagSchedule, func() {
		run, err := runBatch(ctx, w, cfg)
		if err != nil {
			logrus.Errorf("scheduled batch: %v", err)
			return
		}
		notify(cfg, run)
	})
	if err != nil {
		return fmt.Errorf("bad schedule %q: %w", flagSchedule, err)
	}

	logrus.Infof("scheduler started with %q", flagSchedule)
	c.Start()
	<-ctx.Done()
	logrus.Info("scheduler stopping")
	c.Stop()
	return nil
}

func notify(cfg *config.Config, run *models.ResearchRun) {
	if cfg.SlackWebhookURL == "" || run == nil {
		return
	}
	if err := reports.SendSlackSummary(cfg.SlackWebhookURL, run); err != nil {
		logrus.Warnf("slack notification failed: %v", err)
	}
}
