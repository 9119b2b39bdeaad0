package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"fashionstore/internal/auth"
	"fashionstore/internal/cart"
	"fashionstore/internal/checkout"
	"fashionstore/internal/config"
	"fashionstore/internal/db"
	"fashionstore/internal/events"
	storeHttp "fashionstore/internal/handler/http"
	storeMiddleware "fashionstore/internal/middleware"
	"fashionstore/internal/order"
	"fashionstore/internal/payment"
	"fashionstore/internal/product"
	"fashionstore/internal/profile"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "storefront").Logger()

	log.Info().Msg("Storefront starting...")

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx := context.Background()

	dbConn, err := db.New(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbConn.Close()

	broker := auth.NewBroker()
	sessions := auth.NewManager(cfg.Auth.JWTSecret)

	carts := cart.NewManager(broker)
	defer carts.Close()

	productRepository := product.NewRepository(dbConn.Pool)
	productSvc := product.NewService(productRepository)

	profileRepository := profile.NewRepository(dbConn.Pool)
	profileSvc := profile.NewService(profileRepository)

	orderRepository := order.NewRepository(dbConn.Pool)
	orderSvc := order.NewService(orderRepository)

	gateway := payment.NewRazorpay(cfg.Razorpay.KeyID, cfg.Razorpay.CheckoutScriptURL, cfg.App.StoreName, cfg.Razorpay.ProbeTimeout)

	var publisher *events.Publisher
	if cfg.RabbitMQ.URL != "" {
		publisher, err = events.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.OrderExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to message broker")
		}
		defer publisher.Close()
	} else {
		log.Warn().Msg("RABBITMQ_URL not set, order events disabled")
	}

	checkoutSvc := checkout.NewService(profileSvc, orderSvc, gateway, publisher)

	productHandler := storeHttp.NewProductHandler(productSvc)
	cartHandler := storeHttp.NewCartHandler(carts, productSvc)
	checkoutHandler := storeHttp.NewCheckoutHandler(checkoutSvc, carts)
	accountHandler := storeHttp.NewAccountHandler(profileSvc, orderSvc, broker)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(storeMiddleware.Prometheus)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Group(func(r chi.Router) {
		r.Use(storeHttp.WithSessionCookie)

		productHandler.RegisterRoutes(r)
		cartHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(sessions.RequireUser)

			checkoutHandler.RegisterRoutes(r)
			accountHandler.RegisterRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin)

				productHandler.RegisterAdminRoutes(r)
			})
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}

	log.Info().Msg("Storefront stopped gracefully")
}
