package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/StewbeStew/CrowdCastr/internal/config"
	"github.com/StewbeStew/CrowdCastr/internal/handler"
	"github.com/StewbeStew/CrowdCastr/internal/hub"
	"github.com/StewbeStew/CrowdCastr/internal/registry"
	"github.com/StewbeStew/CrowdCastr/internal/service"
	"github.com/StewbeStew/CrowdCastr/internal/settings"
	"github.com/StewbeStew/CrowdCastr/internal/sponsor"
	pkglog "github.com/StewbeStew/CrowdCastr/pkg/log"
	"github.com/StewbeStew/CrowdCastr/pkg/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	pkglog.Init(pkglog.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, ServiceName: "crowdcastr"})
	logger := pkglog.L()

	logger.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("starting crowdcastr")

	ctx := context.Background()

	// Initialize sponsor asset storage
	var store storage.Storage
	sponsorDir := ""
	switch cfg.Storage.Driver {
	case "s3":
		s3Store, err := storage.NewS3Storage(ctx, cfg.Storage.S3)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize s3 storage")
		}
		store = s3Store
		logger.Info().Str("bucket", cfg.Storage.S3.Bucket).Msg("sponsor assets stored in s3")
	default:
		localStore, err := storage.NewLocalStorage(cfg.Storage.Local)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize local storage")
		}
		store = localStore
		sponsorDir = filepath.Join(localStore.GetBasePath(), "sponsors")
		if err := os.MkdirAll(sponsorDir, 0755); err != nil {
			logger.Fatal().Err(err).Msg("failed to create sponsor directory")
		}
		logger.Info().Str("path", localStore.GetBasePath()).Msg("sponsor assets stored locally")
	}

	uploader := sponsor.NewUploader(store, cfg.Sponsor)
	if n, err := uploader.CountExisting(ctx); err != nil {
		logger.Warn().Err(err).Msg("could not list existing sponsor assets")
	} else if n > 0 {
		// Assets outlive restarts; the rotation list does not.
		logger.Info().Int("count", n).Msg("existing sponsor assets available")
	}

	// Initialize state and the hub
	reg := registry.NewRegistry()
	live := registry.NewLive(reg)
	settingsStore := settings.NewStore()
	wsHub := hub.NewHub(cfg.WebSocket)

	// Initialize service
	relaySvc := service.NewRelayService(wsHub, reg, live, settingsStore, uploader)

	// Initialize handlers
	wsHandler := handler.NewWSHandler(wsHub, relaySvc)
	httpHandler := handler.NewHTTPHandler(settingsStore, reg, live, cfg.Web.Root, cfg.Server.PublicURL)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(pkglog.GinMiddleware(logger))
	httpHandler.RegisterRoutes(engine, sponsorDir)

	// The WebSocket endpoint bypasses gin so the upgrade runs on a plain
	// handler chain; everything else goes through the engine.
	mux := http.NewServeMux()
	mux.Handle("/ws", pkglog.HTTPMiddleware(logger)(http.HandlerFunc(wsHandler.HandleWebSocket)))
	mux.Handle("/", engine)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Phone cameras require a secure context, so venues without a reverse
	// proxy run the TLS listener alongside the plain one.
	var tlsServer *http.Server
	if cfg.Server.TLS.Enabled() {
		tlsServer = &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.TLS.Port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("crowdcastr listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if tlsServer != nil {
		g.Go(func() error {
			logger.Info().Str("addr", tlsServer.Addr).Msg("crowdcastr listening (tls)")
			err := tlsServer.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile)
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-quit:
			logger.Info().Msg("shutting down crowdcastr")
		case <-gctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("server forced to shutdown")
		}
		if tlsServer != nil {
			if err := tlsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("tls server forced to shutdown")
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}

	logger.Info().Msg("crowdcastr stopped")
}
