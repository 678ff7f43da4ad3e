package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vonatinfo/core/config"
	"vonatinfo/core/loader"
	"vonatinfo/core/logger"
	"vonatinfo/core/middleware/rayid"
	"vonatinfo/feature/integrity"
	"vonatinfo/feature/roster"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "vonatinfo/docs/swagger"
)

// @title Vonatinfo API
// @version 1.0
// @description Reconciled live positions of trains in Hungary.
// @host localhost:3000
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the vonatinfo server",
	Long:  `Starts the feed pollers, the reconciliation engine and the HTTP server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 3. Assemble the pipeline and its optional sinks
		rt, err := buildRuntime(ctx, cfg, logg, runtimeOptions{sinks: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// RayID must be first to trace everything
		app.Use(rayid.New())
		app.Use(requestLogger(logg))
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.Server.AllowOrigins,
			AllowMethods: "GET,POST,HEAD,OPTIONS",
		}))
		app.Use(compress.New())

		app.Get("/swagger/*", swagger.HandlerDefault)
		if rt.metrics != nil {
			app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(rt.metrics.Handler()))
		}

		// 5. Load Features
		mgr := loader.NewManager(logg)
		mgr.Register(roster.NewFeature(rt.engine.Publisher(), rt.feeds, cfg.Server.ApiKey, logg))
		mgr.Register(integrity.NewFeature(rt.integrityOptions(cfg), cfg.Server.ApiKey, logg))
		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		// The map client and the mirror documents
		app.Static("/", cfg.Server.PublicDir)

		// 6. Start polling
		if err := rt.feeds.StartAll(ctx); err != nil {
			return err
		}

		// 7. Start Server
		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("addr", cfg.Server.Addr()))
			errCh <- app.Listen(cfg.Server.Addr())
		}()

		// 8. Graceful Shutdown
		select {
		case <-ctx.Done():
		case err := <-errCh:
			rt.feeds.StopAll()
			return fmt.Errorf("server failed: %w", err)
		}

		logg.Info("Shutting down server...")
		rt.feeds.StopAll()
		return app.ShutdownWithTimeout(10 * time.Second)
	},
}

// requestLogger logs every request with its ray id.
func requestLogger(logg *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		start := time.Now()
		err := c.Next()
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("took", time.Since(start)),
		}
		if err != nil {
			l.Error("Request error", append(fields, zap.Error(err))...)
			return err
		}
		l.Debug("Request served", fields...)
		return nil
	}
}

func init() {
	RootCmd.AddCommand(startCmd)
}
