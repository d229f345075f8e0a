package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/coosmos/Hotel-Management-Backend/pkg/auth"
	"github.com/coosmos/Hotel-Management-Backend/pkg/config"
	"github.com/coosmos/Hotel-Management-Backend/pkg/httpx"
	"github.com/coosmos/Hotel-Management-Backend/pkg/obs"
	"github.com/coosmos/Hotel-Management-Backend/services/api-gateway/internal/proxy"
	"github.com/coosmos/Hotel-Management-Backend/services/api-gateway/internal/server"
)

type Cfg struct {
	config.Common
	config.JWT

	AuthURL         string `envconfig:"AUTH_URL" default:"http://auth-service:8080"`
	BookingURL      string `envconfig:"BOOKING_URL" default:"http://booking-service:8080"`
	InventoryURL    string `envconfig:"INVENTORY_URL" default:"http://inventory-service:8080"`
	NotificationURL string `envconfig:"NOTIFICATION_URL" default:"http://notification-service:8080"`
	CORSOrigins     string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	// PublicPaths extends the built-in allow-list, comma separated.
	PublicPaths []string `envconfig:"PUBLIC_PATHS"`
}

func main() {
	var cfg Cfg
	if err := config.Load(&cfg); err != nil {
		obs.NewLogger("api-gateway", "info", "json").WithError(err).Fatal("config")
	}
	log := obs.NewLogger("api-gateway", cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, "api-gateway", cfg.Env, cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		log.WithError(err).Fatal("tracer")
	}
	defer shutdownTracer(context.Background())

	verifier, err := auth.NewVerifier(cfg.JWTSecret, cfg.JWTClockSkew)
	if err != nil {
		log.WithError(err).Fatal("jwt verifier")
	}

	var origins []string
	for _, o := range strings.Split(cfg.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	r, err := server.New(server.Options{
		Verifier: verifier,
		Routes: []proxy.Route{
			{Prefix: "/api/auth", Target: cfg.AuthURL},
			{Prefix: "/api/bookings", Target: cfg.BookingURL},
			{Prefix: "/api/hotels", Target: cfg.InventoryURL},
			{Prefix: "/api/notifications", Target: cfg.NotificationURL},
		},
		Transport:   otelhttp.NewTransport(http.DefaultTransport),
		CORSOrigins: origins,
		PublicPaths: cfg.PublicPaths,
		Log:         log,
	})
	if err != nil {
		log.WithError(err).Fatal("routes")
	}

	if err := httpx.Serve(ctx, cfg.HTTPAddr, r, cfg.ShutdownTimeout, log); err != nil {
		log.WithError(err).Error("http server stopped")
	}
	log.Info("api-gateway stopped")
}
