package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bryanwahyu/neuroscan/internal/application"
	apphospitals "github.com/bryanwahyu/neuroscan/internal/application/hospitals"
	appreports "github.com/bryanwahyu/neuroscan/internal/application/reports"
	appscans "github.com/bryanwahyu/neuroscan/internal/application/scans"
	"github.com/bryanwahyu/neuroscan/internal/config"
	domreports "github.com/bryanwahyu/neuroscan/internal/domain/reports"
	domain "github.com/bryanwahyu/neuroscan/internal/domain/scans"
	"github.com/bryanwahyu/neuroscan/internal/infra/db/memory"
	mysqlp "github.com/bryanwahyu/neuroscan/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/neuroscan/internal/infra/db/postgres"
	"github.com/bryanwahyu/neuroscan/internal/infra/explain"
	"github.com/bryanwahyu/neuroscan/internal/infra/hospitals"
	"github.com/bryanwahyu/neuroscan/internal/infra/httpserver"
	"github.com/bryanwahyu/neuroscan/internal/infra/inference"
	infhttp "github.com/bryanwahyu/neuroscan/internal/infra/inference/httpapi"
	infopenai "github.com/bryanwahyu/neuroscan/internal/infra/inference/openai"
	minioStore "github.com/bryanwahyu/neuroscan/internal/infra/storage"
	"github.com/bryanwahyu/neuroscan/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// repositories, per configured driver
	var (
		scanRepo   domain.ScanRepository
		stageRepo  domain.StageRepository
		reportRepo domreports.Repository
		db         *sql.DB
	)
	switch cfg.Database.Driver {
	case "mysql":
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		if err := mysqlp.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("mysql schema error: %v", err)
		}
		scanRepo = mysqlp.NewScanRepository(db)
		stageRepo = mysqlp.NewStageRepository(db)
		reportRepo = mysqlp.NewReportRepository(db)
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		if err := postgresp.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("postgres schema error: %v", err)
		}
		scanRepo = postgresp.NewScanRepository(db)
		stageRepo = postgresp.NewStageRepository(db)
		reportRepo = postgresp.NewReportRepository(db)
	default:
		scanRepo = memory.NewScanRepository()
		stageRepo = memory.NewStageRepository()
		reportRepo = memory.NewReportRepository()
	}
	if db != nil {
		defer db.Close()
	}

	// init minio; bucket creation is idempotent and happens before the
	// server is reachable
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
		cfg.Minio.ScanBucket,
		cfg.Minio.HeatmapBucket,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	// inference gateway
	var model domain.Inference
	switch cfg.Inference.Mode {
	case "http":
		model = infhttp.NewClient(cfg.Inference.Endpoint)
	case "openai":
		model = infopenai.NewClient(cfg.Inference.APIKey, cfg.Inference.Model)
	default:
		model = inference.NewStub()
	}

	// explanation gateway
	var explainer domain.Explainer
	switch cfg.Explainer.Mode {
	case "http":
		explainer = explain.NewClient(cfg.Explainer.Endpoint)
	default:
		explainer = explain.NewStub()
	}

	clock := application.SystemClock{}

	scansSvc := &appscans.Service{
		Scans:         scanRepo,
		Stages:        stageRepo,
		Blobs:         store,
		Model:         model,
		Explainer:     explainer,
		Clock:         clock,
		ScanBucket:    cfg.Minio.ScanBucket,
		HeatmapBucket: cfg.Minio.HeatmapBucket,
		SignedURLTTL:  cfg.SignedURLTTL(),
	}
	reportsSvc := &appreports.Service{
		Scans:   scanRepo,
		Stages:  stageRepo,
		Reports: reportRepo,
		Clock:   clock,
	}
	hospitalsSvc := apphospitals.NewService(hospitals.NewStaticLocator())

	checkers := map[string]middleware.HealthChecker{
		"storage": middleware.CheckerFunc(func(ctx context.Context) error {
			return store.HealthCheck(ctx, cfg.Minio.ScanBucket)
		}),
	}
	if db != nil {
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	handler := httpserver.NewRouter(scansSvc, reportsSvc, hospitalsSvc, middleware.HealthHandler(checkers))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
