package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"steel-ledger/mtrledger/internal/api"
	"steel-ledger/mtrledger/internal/config"
	"steel-ledger/mtrledger/internal/db"
	"steel-ledger/mtrledger/internal/logging"
	"steel-ledger/mtrledger/internal/metrics"
	"steel-ledger/mtrledger/internal/routes"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("MTR ledger starting up",
		"environment", cfg.AppEnv,
		"db_driver", cfg.DBDriver,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	orm, err := db.InitORM(cfg)
	if err != nil {
		logging.Fatal("Failed to open datastore (GORM)", "error", err)
	}
	if err := db.Migrate(orm); err != nil {
		logging.Fatal("Failed to migrate schema", "error", err)
	}

	sqlDB, err := db.InitSQLX(cfg, orm)
	if err != nil {
		logging.Fatal("Failed to open datastore (sqlx)", "error", err)
	}
	logging.Info("Connected to datastore (sqlx)")

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	deps, err := api.InitDependencies(cfg, orm, sqlDB, metricsReg)
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err)
	}

	upSince := time.Now()
	router := routes.RegisterRoutes(deps, upSince)

	// Setup metrics endpoint outside of Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logging.Info("Server starting", "addr", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logging.Fatal("Server stopped", "error", err)
	}
}
