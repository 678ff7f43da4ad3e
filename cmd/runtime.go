package cmd

import (
	"context"
	"fmt"
	"time"

	"vonatinfo/core/archive"
	"vonatinfo/core/config"
	"vonatinfo/core/database"
	"vonatinfo/core/events"
	"vonatinfo/core/metrics"
	"vonatinfo/core/mirror"
	"vonatinfo/core/reconcile"
	"vonatinfo/core/storage"
	"vonatinfo/feature/feeds"
	"vonatinfo/feature/integrity"
	"vonatinfo/feature/mav"
	"vonatinfo/feature/oebb"
	"vonatinfo/feature/timetable"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtimeOptions adjust which parts buildRuntime wires.
type runtimeOptions struct {
	// only restricts the feeds to one name. Empty means all enabled feeds.
	only string
	// mirror forces the mirror sink on.
	mirror bool
	// sinks wires the database, storage and NATS sinks.
	sinks bool
}

// runtime is the assembled reconciliation pipeline.
type runtime struct {
	engine  *reconcile.Engine
	feeds   *feeds.Manager
	metrics *metrics.Collector
	db      *gorm.DB
	upload  *mirror.Upload
	closers []func()
}

// Close drains the sinks and releases the optional connections.
func (rt *runtime) Close() {
	rt.engine.Close()
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}

func buildRuntime(ctx context.Context, cfg *config.Config, logg *zap.Logger, opts runtimeOptions) (*runtime, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	rt := &runtime{engine: reconcile.NewEngine(logg, loc)}

	if cfg.Metrics.Enabled {
		rt.metrics = metrics.NewCollector()
		rt.engine.AddSink(rt.metrics)
	}

	if cfg.Mirror.Enabled || opts.mirror {
		if opts.sinks && cfg.Storage.Enabled {
			rt.upload = connectStorage(ctx, cfg, logg)
		}
		rt.engine.AddSink(mirror.NewSink(cfg.Mirror.Dir, rt.upload, logg))
	}

	if opts.sinks && cfg.Database.Enabled {
		if db, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed, trip archive disabled", zap.Error(err))
		} else if err := archive.Migrate(db); err != nil {
			logg.Warn("Trip archive migration failed, trip archive disabled", zap.Error(err))
		} else {
			rt.db = db
			rt.engine.AddSink(archive.NewSink(db, logg))
			if sqlDB, err := db.DB(); err == nil {
				rt.closers = append(rt.closers, func() { _ = sqlDB.Close() })
			}
			logg.Info("Trip archive enabled", zap.String("driver", cfg.Database.Driver))
		}
	}

	if opts.sinks && cfg.Events.Enabled {
		var em events.Metrics
		if rt.metrics != nil {
			em = rt.metrics
		}
		if nc, err := events.Connect(ctx, cfg.Events, logg, em); err != nil {
			logg.Warn("Optional NATS connection failed, event stream disabled", zap.Error(err))
		} else {
			rt.engine.AddSink(events.NewSink(nc, cfg.Events.SubjectPrefix, logg, em))
			rt.closers = append(rt.closers, func() { _ = nc.Drain() })
			logg.Info("Event stream enabled", zap.String("url", cfg.Events.URL))
		}
	}

	rt.feeds = feeds.NewManager(logg)
	if err := registerFeeds(rt, cfg, loc, logg, opts.only); err != nil {
		return nil, err
	}
	if len(rt.feeds.Runners()) == 0 {
		return nil, fmt.Errorf("no feed enabled")
	}
	return rt, nil
}

func connectStorage(ctx context.Context, cfg *config.Config, logg *zap.Logger) *mirror.Upload {
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		logg.Warn("Storage client failed, mirror upload disabled", zap.Error(err))
		return nil
	}
	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region, 30*time.Second); err != nil {
		logg.Warn("Storage bucket unavailable, mirror upload disabled", zap.Error(err))
		return nil
	}
	logg.Info("Mirror upload enabled", zap.String("bucket", cfg.Storage.Bucket))
	return &mirror.Upload{Client: client, Bucket: cfg.Storage.Bucket, Prefix: cfg.Storage.Prefix}
}

// registerFeeds adds the MÁV feed before the ÖBB feed so that a single pass
// ends with the authoritative source.
func registerFeeds(rt *runtime, cfg *config.Config, loc *time.Location, logg *zap.Logger, only string) error {
	var fm feeds.Metrics
	if rt.metrics != nil {
		fm = rt.metrics
	}

	want := func(name string, enabled bool) bool {
		if only != "" {
			return only == name
		}
		return enabled
	}

	if want(mav.Name, cfg.Feeds.Mav.Enabled) {
		a := mav.NewAdapter(cfg.Feeds.Mav, logg)
		if err := rt.feeds.Register(feeds.NewRunner(a, rt.engine, cfg.Feeds.Mav.Interval, logg, fm)); err != nil {
			return err
		}
	}

	if want(oebb.Name, cfg.Feeds.Oebb.Enabled) {
		tt := timetable.NewClient(cfg.Feeds.Timetable, loc, logg)
		a := oebb.NewAdapter(cfg.Feeds.Oebb, tt, loc, logg)
		if err := rt.feeds.Register(feeds.NewRunner(a, rt.engine, cfg.Feeds.Oebb.Interval, logg, fm)); err != nil {
			return err
		}
	}

	if only != "" && len(rt.feeds.Runners()) == 0 {
		return fmt.Errorf("unknown feed %q", only)
	}
	return nil
}

// integrityOptions points the integrity checks at the wired components.
func (rt *runtime) integrityOptions(cfg *config.Config) integrity.Options {
	opts := integrity.Options{
		MaxAge:  time.Duration(reconcile.StaleCutoff) * time.Second,
		Storage: rt.upload,
		Region:  cfg.Storage.Region,
		DB:      rt.db,
	}
	if cfg.Mirror.Enabled {
		opts.MirrorDir = cfg.Mirror.Dir
	}
	return opts
}
