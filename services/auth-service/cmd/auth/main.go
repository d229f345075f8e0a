package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coosmos/Hotel-Management-Backend/pkg/auth"
	"github.com/coosmos/Hotel-Management-Backend/pkg/config"
	"github.com/coosmos/Hotel-Management-Backend/pkg/db"
	"github.com/coosmos/Hotel-Management-Backend/pkg/httpx"
	"github.com/coosmos/Hotel-Management-Backend/pkg/obs"
	"github.com/coosmos/Hotel-Management-Backend/services/auth-service/internal/repository"
	"github.com/coosmos/Hotel-Management-Backend/services/auth-service/internal/service"
	"github.com/coosmos/Hotel-Management-Backend/services/auth-service/internal/transport/rest"
)

type Cfg struct {
	config.Common
	config.JWT
	config.DB

	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:"admin@hotel.com"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"admin123"`
}

func main() {
	var cfg Cfg
	if err := config.Load(&cfg); err != nil {
		obs.NewLogger("auth-service", "info", "json").WithError(err).Fatal("config")
	}
	log := obs.NewLogger("auth-service", cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, "auth-service", cfg.Env, cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		log.WithError(err).Fatal("tracer")
	}
	defer shutdownTracer(context.Background())

	gdb, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.WithError(err).Fatal("db")
	}
	repo := repository.NewUserRepo(gdb)
	if err := repo.Migrate(); err != nil {
		log.WithError(err).Fatal("migrate")
	}

	issuer, err := auth.NewIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpireMin)*time.Minute)
	if err != nil {
		log.WithError(err).Fatal("jwt issuer")
	}
	svc := service.NewAuthSvc(repo, issuer, log)
	if err := svc.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.WithError(err).Fatal("seed admin")
	}

	r := gin.New()
	r.Use(gin.Recovery(), obs.GinLogger(log))
	httpx.Health(r)
	rest.NewAuthHandler(svc, issuer.TTL()).Register(r)

	if err := httpx.Serve(ctx, cfg.HTTPAddr, r, cfg.ShutdownTimeout, log); err != nil {
		log.WithError(err).Error("http server stopped")
	}
}
