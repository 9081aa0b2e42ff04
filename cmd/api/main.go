package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/hospital-api/internal/config"
	"github.com/jwalitptl/hospital-api/internal/email"
	"github.com/jwalitptl/hospital-api/internal/handler"
	appointmentHandler "github.com/jwalitptl/hospital-api/internal/handler/appointment"
	attendanceHandler "github.com/jwalitptl/hospital-api/internal/handler/attendance"
	authHandler "github.com/jwalitptl/hospital-api/internal/handler/auth"
	directoryHandler "github.com/jwalitptl/hospital-api/internal/handler/directory"
	medicineHandler "github.com/jwalitptl/hospital-api/internal/handler/medicine"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/repository/memory"
	"github.com/jwalitptl/hospital-api/internal/repository/mongodb"
	"github.com/jwalitptl/hospital-api/internal/repository/postgres"
	"github.com/jwalitptl/hospital-api/internal/router"
	appointmentService "github.com/jwalitptl/hospital-api/internal/service/appointment"
	attendanceService "github.com/jwalitptl/hospital-api/internal/service/attendance"
	authService "github.com/jwalitptl/hospital-api/internal/service/auth"
	directoryService "github.com/jwalitptl/hospital-api/internal/service/directory"
	eventService "github.com/jwalitptl/hospital-api/internal/service/event"
	medicineService "github.com/jwalitptl/hospital-api/internal/service/medicine"
	"github.com/jwalitptl/hospital-api/pkg/auth"
	"github.com/jwalitptl/hospital-api/pkg/logger"
	"github.com/jwalitptl/hospital-api/pkg/messaging"
	redisBroker "github.com/jwalitptl/hospital-api/pkg/messaging/redis"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
	"github.com/jwalitptl/hospital-api/pkg/security"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New("hospital", reg)

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to open store")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	// Redis is optional. Without it revocation stays in process and events
	// are dropped.
	var (
		broker  messaging.Broker
		revoker authService.Revoker
	)
	if cfg.Redis.URL != "" {
		client, err := redisBroker.NewClient(ctx, redisBroker.Config{URL: cfg.Redis.URL})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer closeRedis(client)
		broker = redisBroker.NewRedisBroker(client, redisBroker.DefaultBreakerSettings())
		revoker = authService.NewRedisRevoker(client)
	} else {
		log.Warn().Msg("redis url not set, token revocation is local to this process")
		revoker = authService.NewMemoryRevoker(time.Minute)
	}

	var mailer email.Service = email.NopService{}
	if cfg.SMTP.Host != "" {
		mailer = email.NewSMTPService(email.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	events := eventService.NewService(broker, m)
	authSvc := authService.NewService(
		store.Accounts(),
		security.NewBcryptHasher(bcrypt.DefaultCost),
		auth.NewTokenManager(cfg.JWT.Secret, cfg.TokenTTL()),
		revoker,
		events,
		m,
	)
	appointmentSvc := appointmentService.NewService(store.Appointments(), store.Accounts(), mailer, events, m)
	attendanceSvc := attendanceService.NewService(store.Attendance(), store.Accounts(), events, m)
	medicineSvc := medicineService.NewService(store.Medicines(), store.Accounts(), events, m)
	directorySvc := directoryService.NewService(store.Accounts(), m)

	headers := middleware.DefaultSecurityConfig()
	if !cfg.IsProduction() {
		headers.HSTSMaxAge = 0
	}

	r, err := router.NewRouter(
		middleware.NewAuthMiddleware(authSvc),
		authHandler.NewHandler(authSvc),
		handler.NewHandler(store, reg),
		router.RouterConfig{
			RateLimit: rate.Limit(cfg.RateLimit.RPS),
			RateBurst: cfg.RateLimit.Burst,
			Timeout:   cfg.RequestTimeout(),
			CORSConfig: middleware.CORSConfig{
				AllowOrigins: cfg.CORS.AllowedOrigins,
				MaxAge:       12 * time.Hour,
			},
			Security:   headers,
			Registerer: reg,
		},
		appointmentHandler.NewHandler(appointmentSvc),
		attendanceHandler.NewHandler(attendanceSvc),
		medicineHandler.NewHandler(medicineSvc),
		directoryHandler.NewHandler(directorySvc),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Int("port", cfg.Server.Port).
			Str("env", cfg.Server.Env).
			Str("driver", cfg.Database.Driver).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := appointmentSvc.Drain(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("shutdown before all emails were sent")
	}
	log.Info().Msg("server exited")
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		store, err := mongodb.Connect(ctx, mongodb.Config{
			URI:            cfg.Database.Mongo.URI,
			Database:       cfg.Database.Mongo.Name,
			ConnectTimeout: time.Duration(cfg.Database.Mongo.ConnectTimeoutSeconds) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, postgres.Config{
			Host:     cfg.Database.Postgres.Host,
			Port:     cfg.Database.Postgres.Port,
			User:     cfg.Database.Postgres.User,
			Password: cfg.Database.Postgres.Password,
			Name:     cfg.Database.Postgres.Name,
			SSLMode:  cfg.Database.Postgres.SSLMode,
		})
		if err != nil {
			return nil, err
		}
		store := postgres.NewStore(db)
		if err := store.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return store, nil
	case config.DriverMemory:
		log.Warn().Msg("using the in-memory store, data is lost on restart")
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func closeRedis(client *goredis.Client) {
	if err := client.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close redis client")
	}
}
