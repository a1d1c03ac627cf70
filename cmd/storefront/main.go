package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/mercatto/storefront/internal/cart"
	"github.com/mercatto/storefront/internal/catalog"
	"github.com/mercatto/storefront/internal/checkout"
	"github.com/mercatto/storefront/internal/config"
	"github.com/mercatto/storefront/internal/forum"
	"github.com/mercatto/storefront/internal/identity"
	"github.com/mercatto/storefront/internal/messaging"
	"github.com/mercatto/storefront/internal/telemetry"
	"github.com/mercatto/storefront/internal/trivia"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.RequirePostgres(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "storefront", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider("storefront", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	if err := runtime.Start(); err != nil {
		logger.Error("failed to start runtime metrics", "error", err)
		os.Exit(1)
	}

	db, err := telemetry.OpenDB("postgres", cfg.PostgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var producer *messaging.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = messaging.NewProducer(cfg.KafkaBrokers, cfg.OrdersTopic)
		defer func() { _ = producer.Close() }()
	} else {
		logger.Warn("KAFKA_BROKERS not set, order notifications disabled")
	}

	catalogRepo := catalog.NewRepository(db)
	cartRepo := cart.NewRepository(db)
	checkoutRepo := checkout.NewRepository(db)
	identityRepo := identity.NewRepository(db)
	forumRepo := forum.NewRepository(db)
	triviaRepo := trivia.NewRepository(db)

	identitySvc := identity.NewService(identityRepo, logger)
	resolver := identity.NewResolver(identitySvc, cartRepo, catalogRepo)

	var dispatcher checkout.Dispatcher
	if producer != nil {
		dispatcher = producer
	}
	checkoutSvc := checkout.NewService(checkoutRepo, cartRepo, dispatcher, logger)

	catalogHandler := catalog.NewHandler(catalogRepo, logger)
	identityHandler := identity.NewHandler(identitySvc, logger)
	cartHandler := cart.NewHandler(cartRepo, catalogRepo, identitySvc, resolver, logger)
	checkoutHandler := checkout.NewHandler(checkoutSvc, resolver, logger)
	forumHandler := forum.NewHandler(forumRepo, identitySvc, logger)
	triviaHandler := trivia.NewHandler(triviaRepo, logger)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metricsHandler)

	mux.HandleFunc("GET /categories", telemetry.WithHTTPRoute(catalogHandler.HandleListCategories))
	mux.HandleFunc("GET /products", telemetry.WithHTTPRoute(catalogHandler.HandleListProducts))
	mux.HandleFunc("GET /products/{id}", telemetry.WithHTTPRoute(catalogHandler.HandleGetProduct))

	mux.HandleFunc("POST /signup", telemetry.WithHTTPRoute(identityHandler.HandleSignup))
	mux.HandleFunc("POST /login", telemetry.WithHTTPRoute(identityHandler.HandleLogin))
	mux.HandleFunc("POST /logout", telemetry.WithHTTPRoute(identityHandler.HandleLogout))

	mux.HandleFunc("GET /cart", telemetry.WithHTTPRoute(cartHandler.HandleGetCart))
	mux.HandleFunc("POST /cart/items", telemetry.WithHTTPRoute(cartHandler.HandleUpdateItem))
	mux.HandleFunc("POST /checkout", telemetry.WithHTTPRoute(checkoutHandler.HandleCheckout))

	mux.HandleFunc("GET /questions", telemetry.WithHTTPRoute(forumHandler.HandleListQuestions))
	mux.HandleFunc("POST /questions", telemetry.WithHTTPRoute(forumHandler.HandleCreateQuestion))
	mux.HandleFunc("GET /questions/{id}", telemetry.WithHTTPRoute(forumHandler.HandleGetQuestion))
	mux.HandleFunc("POST /questions/{id}/answers", telemetry.WithHTTPRoute(forumHandler.HandleCreateAnswer))

	mux.HandleFunc("GET /challenge", telemetry.WithHTTPRoute(triviaHandler.HandleTodayChallenge))
	mux.HandleFunc("POST /challenge/{id}/answer", telemetry.WithHTTPRoute(triviaHandler.HandleSubmitAnswer))

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: otelhttp.NewHandler(mux, "storefront",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting storefront service", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
