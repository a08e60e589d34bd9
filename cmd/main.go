package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/oksasatya/doki-web/config"
	"github.com/oksasatya/doki-web/internal/application"
	"github.com/oksasatya/doki-web/internal/container"
	"github.com/oksasatya/doki-web/internal/infrastructure/backend"
	"github.com/oksasatya/doki-web/internal/infrastructure/redisstore"
	"github.com/oksasatya/doki-web/internal/interface/middleware"
	"github.com/oksasatya/doki-web/internal/router"
	"github.com/oksasatya/doki-web/pkg/apiclient"
	"github.com/oksasatya/doki-web/pkg/helpers"
	"github.com/oksasatya/doki-web/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Redis
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	cancelPing()

	// Drop the pre-draft form cache once per boot
	if err := redisstore.NewLegacyPurger(rdb, logger).Run(ctx); err != nil {
		logger.WithError(err).Warn("legacy purge skipped")
	}

	// Backend client; expired sessions redirect the current request to login
	apiClient := apiclient.New(cfg.BackendBaseURL,
		apiclient.WithTimeout(cfg.BackendTimeout),
		apiclient.WithReissuePath(cfg.BackendReissuePath),
		apiclient.WithNavigator(middleware.ContextNavigator{}),
		apiclient.WithLogger(logger),
	)
	api := backend.New(apiClient)
	sessions := redisstore.NewSessionRepository(rdb, cfg.SessionTTL)

	// GCS for profile images, optional
	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		container.SetUploader(helpers.NewGCSUploader(gcsClient, cfg.GCSBucket))
	} else {
		logger.Warn("GCS_BUCKET not set, profile image upload disabled")
	}

	// Elasticsearch for package search, optional
	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.WithError(err).Warn("elasticsearch disabled")
		es = nil
	}

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)
	container.SetBackend(api)
	container.SetSessions(sessions)
	container.SetES(es)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Location", "X-Session-Expired", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}
	r.Use(
		middleware.Device(helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure), cfg.DeviceCookieTTL),
		middleware.Session(sessions, logger),
		middleware.LoginRedirect(cfg.LoginRedirectURL()),
	)

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	// Session monitor
	monitorCtx, stopMonitor := context.WithCancel(ctx)
	monitor := application.NewSessionMonitor(sessions, api, logger, cfg.SessionPollInterval, cfg.SessionRefreshSkew)
	go monitor.Run(monitorCtx)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")
	stopMonitor()

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
