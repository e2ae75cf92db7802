// Command research runs a one-shot parental-controls research pass against
// selected platforms and writes a dated JSON report.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"platform-research/creds"
	"platform-research/models"
	"platform-research/registry"
	"platform-research/runner"
	"platform-research/scripts"
	"platform-research/session"
)

var (
	flagPlatform  string
	flagCategory  string
	flagList      bool
	flagHeadless  bool
	flagPDF       bool
	flagCredsFile string
	flagOutDir    string
)

func main() {
	root := &cobra.Command{
		Use:           "research",
		Short:         "Run parental-controls research against third-party platforms",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	root.Flags().StringVar(&flagPlatform, "platform", "", "restrict to one platform id")
	root.Flags().StringVar(&flagCategory, "category", "", "restrict to one category (streaming/gaming/social/device)")
	root.Flags().BoolVar(&flagList, "list", false, "print registry entries with readiness and exit")
	root.Flags().BoolVar(&flagHeadless, "headless", false, "run the browser without a visible window")
	root.Flags().BoolVar(&flagPDF, "pdf", false, "also write per-platform PDF summaries")
	root.Flags().StringVar(&flagCredsFile, "creds-file", "credentials.env", "path to the KEY=value credentials file")
	root.Flags().StringVar(&flagOutDir, "out-dir", "results", "directory for the JSON report and screenshots")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	credMap, err := creds.Load(flagCredsFile)
	if err != nil {
		return err
	}

	reg := registry.New()
	reg.LoadExtensions("platforms.yaml")

	r := &runner.Runner{
		Registry: reg,
		Creds:    credMap,
		OutDir:   flagOutDir,
		PDF:      flagPDF,
		Opts: scripts.Options{
			ScreenshotDir: filepath.Join(flagOutDir, "screenshots"),
			Researcher:    "research-cli",
			Trigger:       models.TriggerManual,
		},
		NewFactory: func(ctx context.Context) (session.Factory, error) {
			return session.Launch(ctx, flagHeadless)
		},
	}

	if flagList {
		r.List(os.Stdout)
		return nil
	}

	// Selection failures (unknown platform/category, nothing credentialed)
	// abort before any browser is launched.
	selected, err := r.Select(flagPlatform, flagCategory)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Per-platform failures are reported in the results, not as a CLI
	// failure; only infrastructure errors reach here.
	if _, err := r.Run(ctx, selected); err != nil {
		return err
	}
	return nil
}
