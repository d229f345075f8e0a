package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/coosmos/Hotel-Management-Backend/pkg/config"
	"github.com/coosmos/Hotel-Management-Backend/pkg/db"
	"github.com/coosmos/Hotel-Management-Backend/pkg/httpx"
	"github.com/coosmos/Hotel-Management-Backend/pkg/obs"
	"github.com/coosmos/Hotel-Management-Backend/services/inventory-service/internal/repository"
	"github.com/coosmos/Hotel-Management-Backend/services/inventory-service/internal/service"
	"github.com/coosmos/Hotel-Management-Backend/services/inventory-service/internal/transport/rest"
)

type Cfg struct {
	config.Common
	config.DB
}

func main() {
	var cfg Cfg
	if err := config.Load(&cfg); err != nil {
		obs.NewLogger("inventory-service", "info", "json").WithError(err).Fatal("config")
	}
	log := obs.NewLogger("inventory-service", cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, "inventory-service", cfg.Env, cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		log.WithError(err).Fatal("tracer")
	}
	defer shutdownTracer(context.Background())

	gdb, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.WithError(err).Fatal("db")
	}
	repo := repository.NewInventoryRepo(gdb)
	if err := repo.Migrate(); err != nil {
		log.WithError(err).Fatal("migrate")
	}

	r := gin.New()
	r.Use(gin.Recovery(), obs.GinLogger(log))
	httpx.Health(r)
	rest.NewInventoryHandler(service.NewInventorySvc(repo, log)).Register(r)

	if err := httpx.Serve(ctx, cfg.HTTPAddr, r, cfg.ShutdownTimeout, log); err != nil {
		log.WithError(err).Error("http server stopped")
	}
}
