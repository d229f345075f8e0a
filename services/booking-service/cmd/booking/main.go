package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/coosmos/Hotel-Management-Backend/pkg/config"
	"github.com/coosmos/Hotel-Management-Backend/pkg/db"
	"github.com/coosmos/Hotel-Management-Backend/pkg/httpx"
	"github.com/coosmos/Hotel-Management-Backend/pkg/mq"
	"github.com/coosmos/Hotel-Management-Backend/pkg/obs"
	"github.com/coosmos/Hotel-Management-Backend/services/booking-service/internal/clients"
	"github.com/coosmos/Hotel-Management-Backend/services/booking-service/internal/repository"
	"github.com/coosmos/Hotel-Management-Backend/services/booking-service/internal/scheduler"
	"github.com/coosmos/Hotel-Management-Backend/services/booking-service/internal/service"
	"github.com/coosmos/Hotel-Management-Backend/services/booking-service/internal/transport/rest"
)

type Cfg struct {
	config.Common
	config.DB
	config.Rabbit

	InventoryURL    string        `envconfig:"INVENTORY_URL" default:"http://inventory-service:8080"`
	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"10s"`

	// Settle unpaid bookings in cash at check-out.
	CheckoutAutoSettle bool `envconfig:"CHECKOUT_AUTO_SETTLE" default:"true"`

	ReminderEnabled bool   `envconfig:"REMINDER_ENABLED" default:"true"`
	ReminderHour    int    `envconfig:"REMINDER_HOUR" default:"9"`
	TimeZone        string `envconfig:"TZ_NAME" default:"Local"`
	// Empty means a single replica; jobs are not leased.
	RedisAddr string `envconfig:"REDIS_ADDR"`

	PublishWorkers int           `envconfig:"PUBLISH_WORKERS" default:"4"`
	PublishTimeout time.Duration `envconfig:"PUBLISH_TIMEOUT" default:"5s"`
}

func must[T any](v T, err error) T {
	if err != nil {
		obs.NewLogger("booking-service", "info", "json").WithError(err).Fatal("startup failed")
	}
	return v
}

func main() {
	var cfg Cfg
	must(0, config.Load(&cfg))
	log := obs.NewLogger("booking-service", cfg.LogLevel, cfg.LogFormat)
	loc := must(time.LoadLocation(cfg.TimeZone))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer := must(obs.InitTracer(ctx, "booking-service", cfg.Env, cfg.OTelEndpoint, cfg.OTelEnabled))
	defer shutdownTracer(context.Background())

	gdb := must(db.Open(cfg.DBDriver, cfg.DBDSN))
	repo := repository.NewBookingRepo(gdb)
	must(0, repo.Migrate())

	pub := must(mq.NewPublisher(cfg.RabbitURL, cfg.EventsExchange))
	defer pub.Close()
	dispatcher := mq.NewDispatcher(pub, log, cfg.PublishWorkers, cfg.PublishTimeout)
	defer dispatcher.Close()

	inv := clients.NewInventory(cfg.InventoryURL, cfg.UpstreamTimeout, log)
	svc := service.NewBookingSvc(repo, inv, dispatcher, log, service.Options{
		SettleOnCheckout: cfg.CheckoutAutoSettle,
		Location:         loc,
	})

	if cfg.ReminderEnabled {
		var lock scheduler.Locker = scheduler.LocalLocker{}
		if cfg.RedisAddr != "" {
			rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
			defer rdb.Close()
			lock = scheduler.NewRedisLocker(rdb)
		}
		scheduler.New(loc, lock, log,
			scheduler.Job{Name: "checkin-reminders", Hour: cfg.ReminderHour, Run: func(ctx context.Context) error {
				_, err := svc.SendCheckInReminders(ctx)
				return err
			}},
			scheduler.Job{Name: "checkout-log", Hour: 8, Run: func(ctx context.Context) error {
				_, err := svc.LogTodayCheckOuts(ctx)
				return err
			}},
		).Start(ctx)
	}

	r := gin.New()
	r.Use(gin.Recovery(), obs.GinLogger(log))
	httpx.Health(r)
	rest.NewBookingHandler(svc).Register(r)

	if err := httpx.Serve(ctx, cfg.HTTPAddr, r, cfg.ShutdownTimeout, log); err != nil {
		log.WithError(err).Error("http server stopped")
	}
	log.Info("booking-service stopped")
}
