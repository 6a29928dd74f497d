package main

import (
	"context"
	"time"

	"github.com/deskhive/deskhive/internal/api"
	"github.com/deskhive/deskhive/internal/api/cron"
	v1 "github.com/deskhive/deskhive/internal/api/v1"
	"github.com/deskhive/deskhive/internal/cache"
	"github.com/deskhive/deskhive/internal/config"
	"github.com/deskhive/deskhive/internal/logger"
	"github.com/deskhive/deskhive/internal/postgres"
	"github.com/deskhive/deskhive/internal/repository"
	"github.com/deskhive/deskhive/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// @title DeskHive API
// @version 1.0
// @description Workstation subscription lifecycle service
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Postgres
			postgres.NewDB,
			func(db *postgres.DB) postgres.IClient { return db },

			// Cache
			cache.NewInMemoryCache,

			// Repositories
			repository.NewPlanRepository,
			repository.NewSubscriptionRepository,
			repository.NewPaymentRepository,
			repository.NewAccessCardRepository,
			repository.NewWalletRepository,

			// Services
			service.NewServiceParams,
			service.NewPlanService,
			service.NewSubscriptionService,
			service.NewSubscriptionChangeService,
			service.NewPaymentService,
			service.NewAccessCardService,

			// API
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	planService service.PlanService,
	subscriptionService service.SubscriptionService,
	changeService service.SubscriptionChangeService,
	paymentService service.PaymentService,
	cardService service.AccessCardService,
) api.Handlers {
	return api.Handlers{
		Plan:             v1.NewPlanHandler(planService, logger),
		Subscription:     v1.NewSubscriptionHandler(subscriptionService, changeService, cardService, logger),
		Payment:          v1.NewPaymentHandler(paymentService, logger),
		CronSubscription: cron.NewSubscriptionHandler(subscriptionService, paymentService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	db *postgres.DB,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting API server...")
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			db.Close()
			return nil
		},
	})
}
