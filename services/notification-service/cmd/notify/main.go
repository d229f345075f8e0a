package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/coosmos/Hotel-Management-Backend/pkg/config"
	"github.com/coosmos/Hotel-Management-Backend/pkg/db"
	"github.com/coosmos/Hotel-Management-Backend/pkg/httpx"
	"github.com/coosmos/Hotel-Management-Backend/pkg/mq"
	"github.com/coosmos/Hotel-Management-Backend/pkg/obs"
	"github.com/coosmos/Hotel-Management-Backend/services/notification-service/internal/notifier"
	"github.com/coosmos/Hotel-Management-Backend/services/notification-service/internal/repository"
	"github.com/coosmos/Hotel-Management-Backend/services/notification-service/internal/service"
	"github.com/coosmos/Hotel-Management-Backend/services/notification-service/internal/transport/rest"
	"github.com/coosmos/Hotel-Management-Backend/services/notification-service/internal/worker"
)

type Cfg struct {
	config.Common
	config.DB
	config.Rabbit

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SMTPFrom     string `envconfig:"SMTP_FROM" default:"noreply@hotel.com"`

	Group    string        `envconfig:"NOTIFY_QUEUE_PREFIX" default:"notification-group"`
	Prefetch int           `envconfig:"NOTIFY_PREFETCH" default:"16"`
	Retries  int           `envconfig:"NOTIFY_RETRIES" default:"0"`
	Backoff  time.Duration `envconfig:"NOTIFY_RETRY_BACKOFF" default:"1s"`
	// DeadLetter, when set, receives messages the handler gave up on.
	DeadLetter string `envconfig:"NOTIFY_DLX"`
}

func sender(cfg Cfg, log *logrus.Entry) notifier.Sender {
	if cfg.SMTPHost == "" {
		log.Warn("SMTP_HOST not set, mail is logged instead of sent")
		return notifier.NewConsole(log)
	}
	return notifier.NewSMTP(notifier.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
}

// connect retries until the broker accepts the connection or ctx ends.
func connect(ctx context.Context, cfg Cfg, log *logrus.Entry) (*mq.RabbitConsumer, error) {
	for {
		cons, err := mq.NewConsumer(mq.ConsumerConfig{
			URL:                cfg.RabbitURL,
			Exchange:           cfg.EventsExchange,
			Prefetch:           cfg.Prefetch,
			Retries:            cfg.Retries,
			Backoff:            cfg.Backoff,
			DeadLetterExchange: cfg.DeadLetter,
			Log:                log,
		})
		if err == nil {
			return cons, nil
		}
		log.WithError(err).Warn("rabbitmq connect failed, retrying in 2s")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func main() {
	var cfg Cfg
	if err := config.Load(&cfg); err != nil {
		obs.NewLogger("notification-service", "info", "json").WithError(err).Fatal("config")
	}
	log := obs.NewLogger("notification-service", cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, "notification-service", cfg.Env, cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		log.WithError(err).Fatal("tracer")
	}
	defer shutdownTracer(context.Background())

	gdb, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.WithError(err).Fatal("db")
	}
	repo := repository.NewNotificationRepo(gdb)
	if err := repo.Migrate(); err != nil {
		log.WithError(err).Fatal("migrate")
	}
	renderer, err := notifier.NewRenderer()
	if err != nil {
		log.WithError(err).Fatal("templates")
	}
	svc := service.NewNotificationSvc(repo, renderer, sender(cfg, log), log)

	cons, err := connect(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("rabbitmq")
	}
	defer cons.Close()

	go func() {
		log.WithFields(logrus.Fields{"group": cfg.Group, "topics": worker.Topics()}).Info("consumers starting")
		if err := worker.NewConsumer(cons, cfg.Group, svc, log).Run(ctx); err != nil {
			log.WithError(err).Error("consumer stopped")
			stop()
		}
	}()

	r := gin.New()
	r.Use(gin.Recovery(), obs.GinLogger(log))
	httpx.Health(r)
	rest.NewNotificationHandler(svc).Register(r)

	if err := httpx.Serve(ctx, cfg.HTTPAddr, r, cfg.ShutdownTimeout, log); err != nil {
		log.WithError(err).Error("http server stopped")
	}
}
