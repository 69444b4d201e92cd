package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/grupoevolution/tiktokconteudos/internal/config"
	"github.com/grupoevolution/tiktokconteudos/internal/handler"
	"github.com/grupoevolution/tiktokconteudos/internal/logger"
	"github.com/grupoevolution/tiktokconteudos/internal/metrics"
	"github.com/grupoevolution/tiktokconteudos/internal/service"
	"github.com/grupoevolution/tiktokconteudos/internal/store"

	"github.com/gin-gonic/gin"
	sdk "github.com/matrixorigin/moi-go-sdk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	log := logger.Init(cfg.Log)
	ctx := context.Background()

	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	st := store.NewGormStore(db, log)
	if err := st.Migrate(ctx); err != nil {
		slog.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	auth := service.NewAuthService(st, log)
	if err := auth.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		slog.Error("admin bootstrap failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	rec, err := metrics.NewPrometheus(reg)
	if err != nil {
		slog.Error("metrics init failed", "err", err)
		os.Exit(1)
	}

	var mirror service.Mirror
	if cfg.MirrorEnabled() {
		raw, err := cfg.NewRawClient()
		if err != nil {
			slog.Warn("sdk client init failed", "err", err)
		} else {
			mirror = service.NewCatalogSync(raw, service.CatalogTables{
				DatabaseID:    sdk.DatabaseID(cfg.MOI.DatabaseID),
				ItemsID:       sdk.TableID(cfg.MOI.ItemsTableID),
				AssignmentsID: sdk.TableID(cfg.MOI.AssignmentsTable),
			}, st, log)
			slog.Info("catalog sync enabled")
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := handler.NewRouter(handler.Services{
		Auth:    auth,
		Team:    service.NewTeamService(st),
		Catalog: service.NewCatalogService(st),
		Plans: service.NewPlanService(st, rec, log, service.PlanOptions{
			DefaultMode: cfg.Distribution.DefaultMode,
			Seed:        cfg.Distribution.RandomSeed,
		}),
		Publisher: service.NewPublisher(st, rec, mirror, log),
		Export:    service.NewExportService(st),
		Employee:  service.NewEmployeeService(st),
		Backup:    service.NewBackupService(st, log),
	}, []byte(cfg.Auth.JWTSecret))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	slog.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
