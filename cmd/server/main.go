package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"styledecor/internal/booking"
	"styledecor/internal/catalog"
	"styledecor/internal/decorator"
	"styledecor/internal/domain"
	"styledecor/internal/handler"
	"styledecor/internal/identity"
	"styledecor/internal/middleware"
	"styledecor/internal/payment"
	"styledecor/internal/repository/postgres"
	"styledecor/internal/server"
	"styledecor/pkg/cache"
	"styledecor/pkg/config"
	"styledecor/pkg/logger"
	"styledecor/pkg/validator"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New("styledecor")

	log.Info("Starting StyleDecor server", logger.Fields{"port": cfg.Server.Port})

	// Database connection
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatal("Failed to connect to database", logger.Fields{"error": err.Error()})
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	log.Info("Database connected", nil)

	// Redis connection
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.URL,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis", logger.Fields{"error": err.Error()})
	}
	defer redisClient.Close()

	log.Info("Redis connected", nil)

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	decoratorRepo := postgres.NewDecoratorRepository(db)

	// Services
	identitySvc := identity.NewService(userRepo, log)
	catalogSvc := catalog.NewService(serviceRepo, log)
	bookingSvc := booking.NewService(bookingRepo, serviceRepo, log)
	decoratorSvc := decorator.NewService(decoratorRepo, userRepo, cache.NewRedisCache(redisClient), log)

	gateway := payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.Timeout)
	paymentSvc := payment.NewService(gateway, bookingRepo, paymentRepo, cfg.Site.Domain, log)

	// Handlers
	val := validator.New()
	usersHandler := handler.NewUsersHandler(identitySvc, val, log)
	servicesHandler := handler.NewServicesHandler(catalogSvc, val, log)
	bookingsHandler := handler.NewBookingsHandler(bookingSvc, val, log)
	decoratorsHandler := handler.NewDecoratorsHandler(decoratorSvc, val, log)
	paymentsHandler := handler.NewPaymentsHandler(paymentSvc, val, log)

	// Router
	r := mux.NewRouter()
	r.Use(middleware.CORS)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Recovery)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.NewLoggingMiddleware(log).Log)
	r.Use(middleware.BodyLimit(1 << 20))
	r.Use(middleware.NewRateLimiter(redisClient, 150, time.Minute).Limit)

	authMW := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	gate := server.NewGate(authMW, identitySvc, log)

	// The route table is the authorization policy: a Role entry names the
	// single role the caller must hold; Auth alone admits any verified
	// identity.
	gate.Mount(r, []server.Route{
		{Method: "GET", Path: "/", Handler: handler.Root},
		{Method: "GET", Path: "/health", Handler: handler.Health},
		{Method: "GET", Path: "/ready", Handler: handler.Ready(db)},

		{Method: "POST", Path: "/users", Handler: usersHandler.Register},
		{Method: "GET", Path: "/users/{email}/role", Handler: usersHandler.GetRole},
		{Method: "GET", Path: "/users", Handler: usersHandler.List, Role: domain.RoleAdmin},

		{Method: "GET", Path: "/services", Handler: servicesHandler.Search},
		{Method: "GET", Path: "/services/{id}", Handler: servicesHandler.Get},
		{Method: "POST", Path: "/services", Handler: servicesHandler.Create, Role: domain.RoleAdmin},
		{Method: "PATCH", Path: "/services/{id}", Handler: servicesHandler.Update, Role: domain.RoleAdmin},
		{Method: "DELETE", Path: "/services/{id}", Handler: servicesHandler.Delete, Role: domain.RoleAdmin},

		{Method: "POST", Path: "/bookings", Handler: bookingsHandler.Create, Auth: true},
		{Method: "GET", Path: "/bookings", Handler: bookingsHandler.List, Auth: true},
		{Method: "PATCH", Path: "/bookings/{id}/status", Handler: bookingsHandler.UpdateStatus, Role: domain.RoleDecorator},

		{Method: "GET", Path: "/decorators/top", Handler: decoratorsHandler.Top},
		{Method: "POST", Path: "/decorators", Handler: decoratorsHandler.Create, Role: domain.RoleAdmin},
		{Method: "PATCH", Path: "/decorators/{id}/approve", Handler: decoratorsHandler.Approve, Role: domain.RoleAdmin},

		{Method: "POST", Path: "/create-payment-intent", Handler: paymentsHandler.CreateIntent},
		{Method: "PATCH", Path: "/payment-success", Handler: paymentsHandler.Reconcile},
		{Method: "GET", Path: "/payments", Handler: paymentsHandler.List, Auth: true},
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("StyleDecor server started", logger.Fields{"address": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", logger.Fields{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", logger.Fields{"error": err.Error()})
	}

	log.Info("Server stopped gracefully", nil)
}
