package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vonatinfo/core/config"
	"vonatinfo/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	pollFull        bool
	pollFeed        string
	pollWriteMirror bool
)

// pollCmd runs every feed once and prints the roster.
var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Poll the feeds once and print the roster",
	Long: `Runs one pass of every enabled feed through the reconciliation pipeline
and prints the resulting roster as JSON on stdout. Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		logCfg := cfg.Log
		logCfg.File = ""
		logg, err := logger.New(&logCfg)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		defer logg.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg.Mirror.Enabled = false
		cfg.Metrics.Enabled = false
		rt, err := buildRuntime(ctx, cfg, logg, runtimeOptions{only: pollFeed, mirror: pollWriteMirror})
		if err != nil {
			return err
		}
		defer rt.Close()

		cycle, err := rt.feeds.RunAllOnce(ctx)
		if err != nil {
			return err
		}
		for _, st := range rt.feeds.Statuses() {
			logg.Info("Feed polled",
				zap.String("feed", st.Feed),
				zap.Int("candidates", st.LastCandidates),
				zap.String("error", st.LastError),
			)
		}

		snap := rt.engine.Publisher().Current()
		if cycle.Snapshot != nil {
			snap = cycle.Snapshot
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if pollFull {
			return enc.Encode(snap.FullDocument())
		}
		return enc.Encode(snap.LightDocument())
	},
}

func init() {
	pollCmd.Flags().BoolVar(&pollFull, "full", false, "print the full roster instead of the light one")
	pollCmd.Flags().StringVar(&pollFeed, "feed", "", "poll only this feed (mav or oebb)")
	pollCmd.Flags().BoolVar(&pollWriteMirror, "write-mirror", false, "also write the mirror files")
	RootCmd.AddCommand(pollCmd)
}
