package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"vonatinfo/core/config"
	"vonatinfo/core/database"
	"vonatinfo/core/logger"
	"vonatinfo/core/mirror"
	"vonatinfo/core/reconcile"
	"vonatinfo/core/storage"
	"vonatinfo/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the mirror, storage and archive",
	Long:  `Checks that the mirror files are fresh, that the bucket holds both roster documents and that the trip archive table matches its model. Prints a JSON report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		defer logg.Sync()

		opts := integrity.Options{
			MaxAge: time.Duration(reconcile.StaleCutoff) * time.Second,
			Region: cfg.Storage.Region,
		}
		if cfg.Mirror.Enabled {
			opts.MirrorDir = cfg.Mirror.Dir
		}

		if cfg.Storage.Enabled {
			client, err := storage.NewClient(cfg.Storage)
			if err != nil {
				return fmt.Errorf("create storage client: %w", err)
			}
			opts.Storage = &mirror.Upload{Client: client, Bucket: cfg.Storage.Bucket, Prefix: cfg.Storage.Prefix}
		}

		if cfg.Database.Enabled {
			db, err := database.Connect(cfg.Database)
			if err != nil {
				return fmt.Errorf("database connection: %w", err)
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			opts.DB = db
		}

		svc := integrity.NewService(opts, logg)

		if fixFlag {
			if err := svc.FixStorage(ctx); err != nil && !errors.Is(err, integrity.ErrDisabled) {
				return fmt.Errorf("fix storage: %w", err)
			}
			if err := svc.FixArchive(); err != nil && !errors.Is(err, integrity.ErrDisabled) {
				return fmt.Errorf("fix archive: %w", err)
			}
		}

		report := svc.Run(ctx)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}

		if !report.Healthy {
			logg.Warn("Integrity problems found", zap.Strings("errors", report.Errors))
			return fmt.Errorf("integrity check failed")
		}
		logg.Info("Integrity check passed")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket and migrate the archive before checking")
}
