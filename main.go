package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"go.uber.org/zap"

	"schemetrack_backend/internals/configs"
	database "schemetrack_backend/internals/databases"
	exportSvc "schemetrack_backend/internals/features/schemes/exports/service"
	groupRepo "schemetrack_backend/internals/features/schemes/groups/repository"
	groupSvc "schemetrack_backend/internals/features/schemes/groups/service"
	schemeRepo "schemetrack_backend/internals/features/schemes/schemes/repository"
	"schemetrack_backend/internals/features/schemes/schemes/scheduler"
	schemeSvc "schemetrack_backend/internals/features/schemes/schemes/service"
	helper "schemetrack_backend/internals/helpers"
	"schemetrack_backend/internals/helpers/dbtime"
	"schemetrack_backend/internals/helpers/logger"
	middlewares "schemetrack_backend/internals/middlewares"
	routes "schemetrack_backend/internals/route"
	routeDetails "schemetrack_backend/internals/route/details"
	"schemetrack_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	log := logger.Init()
	defer logger.Sync()

	app := fiber.New(fiber.Config{
		// 🚀 fast JSON
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ErrorHandler:            helper.ErrorHandler,
		UnescapePath:            true, // /groups/by-name/:name
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	// ⚙️ base middleware + performance
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching
	middlewares.SetupMiddlewares(app)

	// 🔌 store
	var (
		schemes schemeRepo.SchemeRepository
		groups  groupRepo.GroupRepository
		ping    func() error
	)
	switch configs.StoreDriver {
	case "memory":
		log.Warn("STORE_DRIVER=memory, data is lost on restart")
		schemes = schemeRepo.NewMemorySchemeRepository()
		groups = groupRepo.NewMemoryGroupRepository()
		ping = func() error { return nil }
	default:
		if err := database.ConnectDB(); err != nil {
			log.Fatal("database", zap.Error(err))
		}
		database.TunePool()
		if err := database.Migrate(); err != nil {
			log.Fatal("migrate", zap.Error(err))
		}
		database.WarmUpQueries()
		schemes = schemeRepo.NewGormSchemeRepository(database.DB)
		groups = groupRepo.NewGormGroupRepository(database.DB)
		ping = database.Ping
	}

	clock := dbtime.Clock(dbtime.AppClock)
	schemeService := schemeSvc.NewSchemeService(schemes, log, configs.AllowCustomDuration)
	sweeper := schemeSvc.NewSweeper(schemes, log)

	// 🌱 demo data
	if configs.GetEnvBool("SEED_DEMO", false) {
		seeds.RunAllSeeds(context.Background(), schemeService, clock(), log.Named("seed"))
	}

	// ⏱ archive sweep after the store is ready
	archiveJob := scheduler.NewArchiveScheduler(scheduler.ArchiveConfig{
		Schedule:   configs.ArchiveCron,
		GraceDays:  configs.ArchiveGraceDays,
		RunOnStart: configs.ArchiveOnStart,
		Timeout:    2 * time.Minute,
	}, sweeper, clock, log)
	if err := archiveJob.Start(context.Background()); err != nil {
		log.Fatal("archive scheduler", zap.Error(err))
	}

	// ✅ Routes
	routes.SetupRoutes(app, routeDetails.Services{
		Schemes:   schemeService,
		Groups:    groupSvc.NewGroupService(groups, schemes, log),
		Exports:   exportSvc.NewExportService(schemeService),
		Sweeper:   sweeper,
		GraceDays: configs.ArchiveGraceDays,
		Clock:     clock,
		Log:       log,
	}, ping)

	// 🔒 keep-alive & server timeouts
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	// start server non-blocking
	go func() {
		log.Info("✅ listening", zap.String("port", port))
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown: stop accepting requests, drain the job, close the pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	archiveJob.Stop()
	database.Close()
	log.Info("👋 shutdown complete")
}
