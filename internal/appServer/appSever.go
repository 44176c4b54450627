package appServer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventure-dev/eventure-api/config"
	repository "github.com/eventure-dev/eventure-api/internal/database/postgres"
	"github.com/eventure-dev/eventure-api/internal/entity"
	"github.com/eventure-dev/eventure-api/internal/ledger"
	"github.com/eventure-dev/eventure-api/internal/service"
	"github.com/eventure-dev/eventure-api/internal/transport"
	"github.com/eventure-dev/eventure-api/internal/worker"

	"github.com/eventure-dev/eventure-api/pkg/postgres"
	"github.com/eventure-dev/eventure-api/pkg/queue"
	"github.com/eventure-dev/eventure-api/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	eventRepo := repository.NewEventRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	userRepo := repository.NewUserRepository(db)

	seatLedger := ledger.NewSeatLedger(db)

	// The queue is optional. Without Redis the sweep worker alone
	// expires abandoned holds, just less promptly.
	var redisQueue queue.Queue
	var taskPublisher service.TaskPublisher

	if cfg.Redis.Host != "" {
		redisConfig := queue.DefaultRedisQueueConfig()
		redisConfig.Addr = fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		redisConfig.Password = cfg.Redis.Password
		redisConfig.DB = cfg.Redis.DB

		retryManager := queue.NewRetryManager(3, 5*time.Second)
		redisClient := redis.NewRedisClient(&cfg.Redis)
		defer redisClient.Close()
		dlqHandler := queue.NewDefaultDLQHandler(redisClient, redisConfig.DLQ, redisConfig.MainQueue)

		rq, err := queue.NewRedisQueue(redisConfig, retryManager, dlqHandler)
		if err != nil {
			logrus.Errorf("Failed to initialize Redis queue: %v. Continuing without queue...", err)
		} else {
			logrus.Info("Redis queue initialized")
			redisQueue = rq
			taskPublisher = service.NewQueueAdapter(redisQueue)
		}
	}

	refundPolicy := entity.RefundPolicy{
		FullRefundWindow:     cfg.Booking.FullRefundWindow,
		LateDeductionPercent: cfg.Booking.LateDeductionPercent,
	}

	bookingService := service.NewBookingService(
		bookingRepo,
		eventRepo,
		seatLedger,
		taskPublisher,
		refundPolicy,
		cfg.Booking.HoldTimeout,
		cfg.Booking.CheckoutBaseURL,
	)
	eventService := service.NewEventService(eventRepo, bookingRepo, seatLedger)
	userService := service.NewUserService(userRepo, bookingRepo, bookingService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if redisQueue != nil {
		taskHandler := queue.NewTaskHandler(bookingService)

		go func() {
			if err := redisQueue.Subscribe(ctx, taskHandler.HandleTask); err != nil {
				logrus.Errorf("Queue subscriber error: %v", err)
			}
		}()
		logrus.Info("Queue subscriber started")
	}

	if cfg.Worker.Enabled {
		sweepWorker := worker.NewBookingSweepWorker(bookingService, cfg.Worker.SweepInterval)
		go sweepWorker.Start(ctx)
	}

	eventHandler := transport.NewEventHandler(eventService)
	bookingHandler := transport.NewBookingHandler(bookingService)
	userHandler := transport.NewUserHandler(userService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(eventHandler, bookingHandler, userHandler)); err != nil {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	if redisQueue != nil {
		if err := redisQueue.Close(); err != nil {
			logrus.Errorf("error occured on queue shutting down: %s", err.Error())
		}
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
