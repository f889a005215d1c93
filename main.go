// main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/BMDarkLight/Simple-Doctor-API/config"
	"github.com/BMDarkLight/Simple-Doctor-API/endpoint"
	"github.com/BMDarkLight/Simple-Doctor-API/middleware"
	"github.com/BMDarkLight/Simple-Doctor-API/store"
	"github.com/BMDarkLight/Simple-Doctor-API/util"
)

func main() {
	cfg := config.MustLoad()
	log := util.NewLogger(cfg.AppEnv, os.Stdout)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, err := config.ConnectMongo(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn("mongo disconnect failed", slog.Any("error", err))
		}
	}()
	db := mongoClient.Database(cfg.MongoDB)

	credentials, err := store.NewCredentialStore(db, util.NewPasswordHasher(cfg.BcryptCost))
	if err != nil {
		return err
	}
	if err := credentials.EnsureIndexes(ctx); err != nil {
		return err
	}

	rdb, err := config.ConnectRedis(ctx, cfg)
	if err != nil {
		// the rate limiter has an in-process fallback
		log.Warn("redis unavailable, using in-process rate limiting", slog.Any("error", err))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	auditDB, err := config.ConnectAuditDB(cfg)
	if err != nil {
		return err
	}

	geo, err := util.OpenGeoIP(cfg.GeoIPDBPath)
	if err != nil {
		log.Warn("geoip database not loaded", slog.Any("error", err))
	}
	defer func() {
		hits, misses, size := geo.Metrics()
		log.Info("geoip cache stats", slog.Int64("hits", hits), slog.Int64("misses", misses), slog.Int("size", size))
		geo.Close()
	}()

	tokens, err := util.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		return err
	}

	security := util.NewSecurityLogger(os.Stdout, auditDB, geo)

	handler := endpoint.NewHandler(endpoint.Deps{
		AppName:      cfg.AppName,
		Doctors:      store.NewDoctorDirectory(db, log),
		Appointments: store.NewAppointmentLedger(db, log),
		Credentials:  credentials,
		Tokens:       tokens,
		Security:     security,
		Log:          log,
		RequireAuth:  cfg.RequireAuth,
		AuthRateLimit: middleware.RateLimitConfig{
			Limit:  cfg.RateLimit,
			Window: cfg.RateWindow,
			Redis:  rdb,
		},
	})

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestID())
	router.Use(middleware.EndpointCallLogger(security))
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.AppPort),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", slog.String("addr", srv.Addr), slog.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("error starting server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
