package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cristianortiz/vinylAuction/internal/auction/application"
	auctiondomain "github.com/cristianortiz/vinylAuction/internal/auction/domain"
	auctionhttp "github.com/cristianortiz/vinylAuction/internal/auction/infra/http"
	auctionmem "github.com/cristianortiz/vinylAuction/internal/auction/infra/repository/memory"
	auctionpg "github.com/cristianortiz/vinylAuction/internal/auction/infra/repository/postgres"
	"github.com/cristianortiz/vinylAuction/internal/auction/infra/scheduler"
	auctionws "github.com/cristianortiz/vinylAuction/internal/auction/infra/websocket"
	collectionapp "github.com/cristianortiz/vinylAuction/internal/collection/application"
	collectiondomain "github.com/cristianortiz/vinylAuction/internal/collection/domain"
	collectionhttp "github.com/cristianortiz/vinylAuction/internal/collection/infra/http"
	collectionmem "github.com/cristianortiz/vinylAuction/internal/collection/infra/repository/memory"
	collectionpg "github.com/cristianortiz/vinylAuction/internal/collection/infra/repository/postgres"
	"github.com/cristianortiz/vinylAuction/internal/notification"
	"github.com/cristianortiz/vinylAuction/internal/seed"
	"github.com/cristianortiz/vinylAuction/internal/shared/clock"
	"github.com/cristianortiz/vinylAuction/internal/shared/config"
	"github.com/cristianortiz/vinylAuction/internal/shared/db"
	"github.com/cristianortiz/vinylAuction/internal/shared/db/migrations"
	"github.com/cristianortiz/vinylAuction/internal/shared/events"
	"github.com/cristianortiz/vinylAuction/internal/shared/httpserver"
	"github.com/cristianortiz/vinylAuction/internal/shared/logger"
	"github.com/cristianortiz/vinylAuction/internal/shared/websocket"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type auctionStore interface {
	auctiondomain.AuctionRepository
	auctiondomain.ExpiredAuctionFinder
}

func main() {
	logger := logger.GetLogger()
	defer logger.Sync()

	logger.Info("Starting vinylAuction server...")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := clock.Real{}

	var (
		auctions    auctionStore
		collections collectiondomain.VinylCollectionRepository
	)
	switch cfg.Storage {
	case config.StoragePostgres:
		dsn := cfg.DB.PostgresDSN()
		logger.Info("Running database migrations...")
		if err := migrations.RunMigrations(dsn); err != nil {
			logger.Fatal("Database migration failed", zap.Error(err))
		}
		pool, err := db.GetPostgresDBPool(ctx, dsn)
		if err != nil {
			logger.Fatal("Database connection failed", zap.Error(err))
		}
		defer pool.Close()
		auctions = auctionpg.NewAuctionRepository(pool)
		collections = collectionpg.NewVinylCollectionRepository(pool)
	default:
		auctions = auctionmem.NewAuctionRepository()
		collections = collectionmem.NewVinylCollectionRepository()
	}
	logger.Info("Storage ready", zap.String("storage", cfg.Storage))

	if cfg.SeedFile != "" {
		if err := seed.LoadFile(ctx, cfg.SeedFile, auctions, collections, clk.Now()); err != nil {
			logger.Fatal("Seeding failed", zap.String("file", cfg.SeedFile), zap.Error(err))
		}
		logger.Info("Seed data loaded", zap.String("file", cfg.SeedFile))
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	notifiers := notification.Multi{
		notification.NewLogNotifier(logger, clk),
		notification.NewWebSocketNotifier(hub, clk),
	}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("Failed to connect to Redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer rdb.Close()
		notifiers = append(notifiers, notification.NewRedisNotifier(rdb, cfg.RedisChannel, clk))
		logger.Info("Redis notifications enabled", zap.String("channel", cfg.RedisChannel))
	}

	dispatcher := events.NewDispatcher()
	locks := application.NewAuctionLocks()
	auctionService := application.NewAuctionService(
		application.NewPlaceBidUseCase(auctions, notifiers, dispatcher, clk, locks),
		application.NewFinishAuctionUseCase(auctions, collections, dispatcher, clk, locks),
		application.NewGetAuctionUseCase(auctions),
	)

	closer := scheduler.NewAuctionCloser(auctions, auctionService, clk)
	if err := closer.Start(ctx, cfg.CloserSchedule); err != nil {
		logger.Fatal("Auction closer failed to start", zap.Error(err))
	}
	defer closer.Stop()

	wsHandler := auctionws.NewAuctionWSHandler(auctionService, hub)
	go wsHandler.ListenForMessages(ctx)

	server := httpserver.NewServer(
		auctionhttp.NewAuctionHandler(auctionService).RegisterRoutes,
		collectionhttp.NewCollectionHandler(collectionapp.NewGetCollectionUseCase(collections)).RegisterRoutes,
		func(router fiber.Router) { wsHandler.RegisterRoutes(ctx, router) },
	)
	if err := server.Start(ctx, cfg.HTTPAddr); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}
	logger.Info("vinylAuction server stopped")
}
