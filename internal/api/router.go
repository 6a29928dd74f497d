package api

import (
	"github.com/deskhive/deskhive/internal/api/cron"
	v1 "github.com/deskhive/deskhive/internal/api/v1"
	"github.com/deskhive/deskhive/internal/config"
	"github.com/deskhive/deskhive/internal/logger"
	"github.com/deskhive/deskhive/internal/rest/middleware"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Plan             *v1.PlanHandler
	Subscription     *v1.SubscriptionHandler
	Payment          *v1.PaymentHandler
	CronSubscription *cron.SubscriptionHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.ContextMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", v1.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	cronGroup := router.Group("/cron")
	registerCronRoutes(cronGroup, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	plans := router.Group("/plans")
	{
		plans.POST("", handlers.Plan.CreatePlan)
		plans.GET("", handlers.Plan.GetPlans)
		plans.GET("/:id", handlers.Plan.GetPlan)
		plans.PUT("/:id", handlers.Plan.UpdatePlan)
		plans.DELETE("/:id", handlers.Plan.DeletePlan)
	}

	subscriptions := router.Group("/subscriptions")
	{
		subscriptions.POST("", handlers.Subscription.CreateSubscription)
		subscriptions.GET("", handlers.Subscription.GetSubscriptions)
		subscriptions.GET("/:id", handlers.Subscription.GetSubscription)
		subscriptions.POST("/:id/cancel", handlers.Subscription.CancelSubscription)
		subscriptions.POST("/:id/renew", handlers.Subscription.RenewSubscription)
		subscriptions.POST("/:id/reactivate", handlers.Subscription.ReactivateSubscription)
		subscriptions.POST("/:id/checkin", handlers.Subscription.CheckIn)
		subscriptions.POST("/:id/checkout", handlers.Subscription.CheckOut)
		subscriptions.POST("/:id/change/preview", handlers.Subscription.PreviewChange)
		subscriptions.POST("/:id/change", handlers.Subscription.ExecuteChange)
		subscriptions.GET("/:id/card", handlers.Subscription.GetAccessCard)
		subscriptions.GET("/:id/payments", handlers.Payment.GetPaymentsBySubscription)
	}

	customers := router.Group("/customers")
	{
		customers.GET("/:customer_id/subscription", handlers.Subscription.GetCurrentSubscription)
	}

	payments := router.Group("/payments")
	{
		payments.POST("/:id/paid", handlers.Payment.MarkPaymentPaid)
	}
}

func registerCronRoutes(router *gin.RouterGroup, handlers Handlers) {
	subscriptions := router.Group("/subscriptions")
	{
		subscriptions.POST("/activate", handlers.CronSubscription.ActivateDueSubscriptions)
		subscriptions.POST("/expire", handlers.CronSubscription.ExpireOverdueSubscriptions)
	}

	payments := router.Group("/payments")
	{
		payments.POST("/overdue", handlers.CronSubscription.MarkOverduePayments)
	}
}
