package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"content-planner/core/loader"
	"content-planner/core/logger"
	"content-planner/core/middleware/auth"
	"content-planner/core/middleware/rayid"
	"content-planner/feature/calendar"
	"content-planner/feature/integrity"
	"content-planner/feature/performance"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "content-planner/docs/swagger"
)

// @title Content Planner API
// @version 1.0
// @description API for the content calendar and performance CSV imports.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the content planner server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadSession()
		if err != nil {
			return err
		}
		logg := rt.log
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// Calendar and imports need the database; integrity still reports without it
		var imports *performance.Service
		if err := rt.connect(); err != nil {
			logg.Warn("Database connection failed, calendar and imports disabled", zap.Error(err))
		} else {
			logg = rt.log
			if imports, err = rt.importService(); err != nil {
				return fmt.Errorf("failed to prepare database: %w", err)
			}
			logg.Info("Connected to database")
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             rt.cfg.Server.BodyLimit(),
		})

		mgr := loader.NewManager(logg)
		mgr.Register(calendar.NewFeature(rt.db, logg))
		mgr.Register(performance.NewFeature(imports))
		mgr.Register(integrity.NewFeature(rt.client, rt.cfg.Storage.Bucket, rt.archiveFolders(), logg, rt.db))

		// RayID first so every later log line carries it
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger stays public
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))
		if !rt.cfg.Server.AuthEnabled() {
			logg.Warn("No API key configured, the API is unauthenticated")
		}

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			errCh <- app.Listen(":" + rt.cfg.Server.Port)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-quit:
		}

		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
