package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/priyanshij123/whiteboard-collab/internal/config"
	"github.com/priyanshij123/whiteboard-collab/internal/domain"
	"github.com/priyanshij123/whiteboard-collab/internal/handler"
	"github.com/priyanshij123/whiteboard-collab/internal/hub"
	"github.com/priyanshij123/whiteboard-collab/internal/registry"
	"github.com/priyanshij123/whiteboard-collab/internal/repository"
	"github.com/priyanshij123/whiteboard-collab/internal/service"
	"github.com/priyanshij123/whiteboard-collab/pkg/database"
	"github.com/priyanshij123/whiteboard-collab/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.Log)
	l := log.L()
	l.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("starting whiteboard sync service")

	if err := run(cfg); err != nil {
		l.Fatal().Err(err).Msg("service exited with error")
	}

	l.Info().Msg("service stopped")
}

func run(cfg *config.Config) error {
	l := log.L()

	// Room-existence store. Bookkeeping only: the sync engine upserts on
	// join and never reads it back.
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open room store: %w", err)
	}
	if err := database.AutoMigrate(db, &domain.RoomModel{}); err != nil {
		return fmt.Errorf("failed to migrate room store: %w", err)
	}
	repo := repository.NewGormRoomRepository(db)

	var reg registry.Registry = registry.NewNoop()
	if cfg.Redis.Enabled {
		redisReg, err := registry.NewRedisRegistry(cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect registry: %w", err)
		}
		reg = redisReg
		l.Info().Str("address", cfg.Redis.Address).Msg("connected to redis registry")
	}
	defer reg.Close()

	wsHub := hub.NewHub(cfg.Room)
	boardSvc := service.NewBoardService(wsHub, repo, reg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := boardSvc.Start(ctx); err != nil {
		return err
	}
	defer boardSvc.Stop()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(log.GinMiddleware(l))

	handler.NewWSHandler(wsHub, boardSvc, cfg.Server, cfg.WebSocket).RegisterRoutes(router)
	handler.NewHTTPHandler(repo, wsHub).RegisterRoutes(router)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		l.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			l.Warn().Str("signal", sig.String()).Msg("shutdown signal received")
		case <-gctx.Done():
			return gctx.Err()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
