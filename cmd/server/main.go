package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"brokerledger/internal/clearing"
	"brokerledger/internal/client/broker"
	"brokerledger/internal/config"
	cronrunner "brokerledger/internal/cron"
	"brokerledger/internal/db"
	"brokerledger/internal/handler"
	"brokerledger/internal/logger"
	gormrepository "brokerledger/internal/repository/gorm"
	"brokerledger/internal/service"

	_ "brokerledger/docs"
)

func main() {
	cfgPath := os.Getenv("BL_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("BL_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	schedule, err := clearing.NewSchedule(cfg.Clearing.Timezone, cfg.Clearing.DayWindowStart, cfg.Clearing.DayWindowEnd)
	if err != nil {
		logger.Fatal("clearing schedule invalid", zap.Error(err))
	}

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	brokerHTTP := &http.Client{Timeout: cfg.Broker.Timeout}
	brokerClient := broker.NewClient(brokerHTTP, cfg.Broker.BaseURL, cfg.Broker.Token)
	store := gormrepository.New(dbConn.Gorm)

	ingestSvc := &service.LedgerIngestService{
		Repo:      store,
		Broker:    brokerClient,
		Logger:    logger,
		Config:    cfg.Ingest,
		AccountID: cfg.Broker.AccountID,
	}
	reconcileSvc := &service.ReconcileService{
		Source:       &service.RepoSource{Repo: store, AccountID: cfg.Broker.AccountID},
		Schedule:     schedule,
		Logger:       logger,
		MaxRangeDays: cfg.Analysis.MaxRangeDays,
		FetchTimeout: cfg.Analysis.FetchTimeout,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(handler.RequireTokenMiddleware(cfg.Auth.APIToken))

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	analysisHandler := &handler.AnalysisHandler{
		Service: reconcileSvc,
		Loc:     schedule.Location,
	}
	analysisHandler.Register(engine)
	operationsHandler := &handler.OperationsHandler{
		Repo:      store,
		AccountID: cfg.Broker.AccountID,
		Loc:       schedule.Location,
	}
	operationsHandler.Register(engine)
	ingestHandler := &handler.IngestHandler{Ingest: ingestSvc}
	ingestHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled && cfg.Ingest.Enabled {
		_, err = cronRunner.Add(cfg.Cron.Ingest, func(ctx context.Context) {
			if _, err := ingestSvc.RunOnce(ctx); err != nil {
				logger.Warn("cron ledger ingest failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register ledger ingest failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	// One ingest pass on boot so a fresh deployment can answer
	// analysis queries without waiting for the first cron tick.
	if cfg.Ingest.Enabled {
		go func() {
			if _, err := ingestSvc.RunOnce(ctx); err != nil {
				logger.Warn("initial ledger ingest failed (continuing)", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
