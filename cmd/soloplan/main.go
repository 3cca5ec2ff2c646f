package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"soloplan/internal/handlers"
	"soloplan/internal/holidays"
	"soloplan/internal/metrics"
	"soloplan/internal/outbox"
	"soloplan/internal/settings"
	"soloplan/internal/storage"
	"soloplan/libs/config"
	"soloplan/libs/db"
	"soloplan/libs/httpx"
	"soloplan/libs/kafkax"
	otelx "soloplan/libs/otel"
	"soloplan/libs/runtime"
)

// readyChecks builds the /readyz probe set. Kafka is optional: with no
// brokers configured the outbox publisher idles, so its probe is omitted
// rather than failing readiness forever.
func readyChecks(pool *db.Pool, rdb *redis.Client, brokers string) []runtime.ReadyCheck {
	checks := []runtime.ReadyCheck{
		{Name: "db", Check: db.ReadyCheck(pool)},
		{Name: "redis", Check: settings.ReadyCheck(rdb)},
	}
	if strings.TrimSpace(brokers) != "" {
		checks = append(checks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)})
	}
	return checks
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func main() {
	service := config.String("SERVICE_NAME", "soloplan")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr: config.String("REDIS_ADDR", "localhost:6379"),
	})
	defer rdb.Close()

	holidayTable, err := holidays.Load()
	if err != nil {
		logger.Error("holiday table load failed", "err", err)
		panic(err)
	}

	clientRepo := storage.NewClientRepository(pool)
	appointmentRepo := storage.NewAppointmentRepository(pool)
	settingsStore := settings.NewStore(rdb)
	outboxRepo := outbox.NewRepository(pool)

	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   config.String("KAFKA_BROKERS", ""),
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	// Published outbox rows are kept for a week, pruned nightly.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("0 3 * * *", func() {
		pruneCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := outboxRepo.DeletePublishedBefore(pruneCtx, time.Now().AddDate(0, 0, -7))
		if err != nil {
			logger.Error("outbox prune failed", "err", err)
			return
		}
		logger.Info("outbox pruned", "rows", n)
	}); err != nil {
		logger.Error("cron schedule failed", "err", err)
		panic(err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	metrics.Register()

	clientHandler := handlers.NewClientHandler(clientRepo, outboxRepo, logger)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentRepo, clientRepo, settingsStore, outboxRepo, logger)
	planningHandler := handlers.NewPlanningHandler(appointmentRepo, clientRepo, settingsStore, holidayTable, outboxRepo, logger)
	analyticsHandler := handlers.NewAnalyticsHandler(appointmentRepo, clientRepo, settingsStore, logger)
	settingsHandler := handlers.NewSettingsHandler(settingsStore, logger)
	calendarHandler := handlers.NewCalendarHandler(appointmentRepo, settingsStore, holidayTable, logger)

	mux := runtime.NewBaseMux(readyChecks(pool, rdb, config.String("KAFKA_BROKERS", ""))...)
	mux.Handle("/metrics", metrics.Handler())

	mux.HandleFunc("/api/v1/clients", clientHandler.Clients)
	mux.HandleFunc("/api/v1/clients/update", clientHandler.Update)
	mux.HandleFunc("/api/v1/clients/delete", clientHandler.Delete)

	// Public intake gets its own rate limit; everything else is operator-facing.
	intakeLimiter := httpx.NewRedisRateLimiter(rdb,
		config.Int("INTAKE_RATE_LIMIT", 10),
		time.Minute,
		"soloplan:ratelimit:intake",
	)
	mux.Handle("/api/v1/public/intake", httpx.Chain(
		http.HandlerFunc(clientHandler.Intake),
		intakeLimiter.Middleware(logger, config.Bool("RATE_LIMIT_FAIL_OPEN", true)),
	))

	mux.HandleFunc("/api/v1/appointments", appointmentHandler.Appointments)
	mux.HandleFunc("/api/v1/appointments/update", appointmentHandler.Update)
	mux.HandleFunc("/api/v1/appointments/cancel", appointmentHandler.Cancel)
	mux.HandleFunc("/api/v1/appointments/delete", appointmentHandler.Delete)
	mux.HandleFunc("/api/v1/availability", appointmentHandler.Availability)

	mux.HandleFunc("/api/v1/planning/preview", planningHandler.Preview)
	mux.HandleFunc("/api/v1/planning/commit", planningHandler.Commit)

	mux.HandleFunc("/api/v1/analytics", analyticsHandler.Summary)
	mux.HandleFunc("/api/v1/settings", settingsHandler.Settings)
	mux.HandleFunc("/api/v1/holidays", calendarHandler.Holidays)

	// Calendar apps poll the feed; a local fixed window is enough since the
	// feed is read-only and per-instance drift does not matter.
	feedLimiter := httpx.NewRateLimiter(config.Int("FEED_RATE_LIMIT", 60), time.Minute)
	mux.Handle("/api/v1/calendar.ics", httpx.Chain(
		http.HandlerFunc(calendarHandler.Feed),
		feedLimiter.Middleware(),
	))

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(1<<20),
		httpx.WithTimeout(30*time.Second),
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: splitCSV(config.String("CORS_ALLOWED_ORIGINS", "")),
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
			MaxAge:         10 * time.Minute,
		}),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "soloplan")

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
