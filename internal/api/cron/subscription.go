package cron

import (
	"net/http"

	"github.com/deskhive/deskhive/internal/logger"
	"github.com/deskhive/deskhive/internal/service"
	"github.com/gin-gonic/gin"
)

// SubscriptionHandler handles subscription related cron jobs. The external
// scheduler drives lifecycle transitions by hitting these endpoints.
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
	paymentService      service.PaymentService
	logger              *logger.Logger
}

// NewSubscriptionHandler creates a new subscription cron handler
func NewSubscriptionHandler(
	subscriptionService service.SubscriptionService,
	paymentService service.PaymentService,
	logger *logger.Logger,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		paymentService:      paymentService,
		logger:              logger,
	}
}

// ActivateDueSubscriptions activates pending subscriptions whose scheduled
// start date has arrived.
func (h *SubscriptionHandler) ActivateDueSubscriptions(c *gin.Context) {
	h.logger.Infow("starting subscription activation cron job")

	activated, err := h.subscriptionService.ActivateDueSubscriptions(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to activate due subscriptions",
			"error", err)
		c.Error(err)
		return
	}

	h.logger.Infow("completed subscription activation cron job",
		"activated", activated)
	c.JSON(http.StatusOK, gin.H{"status": "completed", "activated": activated})
}

// ExpireOverdueSubscriptions expires active subscriptions past their end date.
func (h *SubscriptionHandler) ExpireOverdueSubscriptions(c *gin.Context) {
	h.logger.Infow("starting subscription expiry cron job")

	expired, err := h.subscriptionService.ExpireOverdueSubscriptions(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to expire overdue subscriptions",
			"error", err)
		c.Error(err)
		return
	}

	h.logger.Infow("completed subscription expiry cron job",
		"expired", expired)
	c.JSON(http.StatusOK, gin.H{"status": "completed", "expired": expired})
}

// MarkOverduePayments flips pending payments past their due date to overdue.
func (h *SubscriptionHandler) MarkOverduePayments(c *gin.Context) {
	h.logger.Infow("starting overdue payment cron job")

	marked, err := h.paymentService.MarkOverduePayments(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to mark overdue payments",
			"error", err)
		c.Error(err)
		return
	}

	h.logger.Infow("completed overdue payment cron job",
		"marked", marked)
	c.JSON(http.StatusOK, gin.H{"status": "completed", "marked": marked})
}
