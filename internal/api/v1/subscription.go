package v1

import (
	"net/http"

	"github.com/deskhive/deskhive/internal/api/dto"
	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/logger"
	"github.com/deskhive/deskhive/internal/service"
	"github.com/deskhive/deskhive/internal/types"
	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	service       service.SubscriptionService
	changeService service.SubscriptionChangeService
	cardService   service.AccessCardService
	log           *logger.Logger
}

func NewSubscriptionHandler(
	service service.SubscriptionService,
	changeService service.SubscriptionChangeService,
	cardService service.AccessCardService,
	log *logger.Logger,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		service:       service,
		changeService: changeService,
		cardService:   cardService,
		log:           log,
	}
}

// @Summary Create subscription
// @Description Create a new subscription for a customer
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param subscription body dto.CreateSubscriptionRequest true "Subscription request"
// @Success 201 {object} dto.SubscriptionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 402 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /subscriptions [post]
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req dto.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateSubscription(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get subscription
// @Description Get a subscription by ID
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /subscriptions/{id} [get]
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	resp, err := h.service.GetSubscription(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List subscriptions
// @Description List subscriptions with optional filtering
// @Tags Subscriptions
// @Produce json
// @Param filter query types.SubscriptionFilter false "Filter"
// @Success 200 {object} dto.ListSubscriptionsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /subscriptions [get]
func (h *SubscriptionHandler) GetSubscriptions(c *gin.Context) {
	var filter types.SubscriptionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}

	resp, err := h.service.GetSubscriptions(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get current subscription
// @Description Get the customer's currently active subscription
// @Tags Subscriptions
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /customers/{customer_id}/subscription [get]
func (h *SubscriptionHandler) GetCurrentSubscription(c *gin.Context) {
	customerID := c.Param("customer_id")
	if customerID == "" {
		c.Error(ierr.NewError("customer ID is required").
			WithHint("Customer ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetCurrentSubscription(c.Request.Context(), customerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Cancel subscription
// @Description Cancel a pending or active subscription
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param id path string true "Subscription ID"
// @Param request body dto.CancelSubscriptionRequest true "Cancellation reason"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /subscriptions/{id}/cancel [post]
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	var req dto.CancelSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CancelSubscription(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Renew subscription
// @Description Extend a subscription by one plan period
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 402 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /subscriptions/{id}/renew [post]
func (h *SubscriptionHandler) RenewSubscription(c *gin.Context) {
	resp, err := h.service.RenewSubscription(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Reactivate subscription
// @Description Restore a recently cancelled subscription
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 410 {object} ierr.ErrorResponse
// @Router /subscriptions/{id}/reactivate [post]
func (h *SubscriptionHandler) ReactivateSubscription(c *gin.Context) {
	resp, err := h.service.ReactivateSubscription(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Check in
// @Description Record a workstation check-in
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /subscriptions/{id}/checkin [post]
func (h *SubscriptionHandler) CheckIn(c *gin.Context) {
	resp, err := h.service.CheckIn(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Check out
// @Description Record a workstation check-out
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /subscriptions/{id}/checkout [post]
func (h *SubscriptionHandler) CheckOut(c *gin.Context) {
	resp, err := h.service.CheckOut(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Preview plan change
// @Description Classify a plan change and quote the prorated amount due
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param id path string true "Subscription ID"
// @Param request body dto.ChangePlanRequest true "Plan change request"
// @Success 200 {object} dto.ChangePlanResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /subscriptions/{id}/change/preview [post]
func (h *SubscriptionHandler) PreviewChange(c *gin.Context) {
	var req dto.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.changeService.PreviewChange(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Execute plan change
// @Description Supersede the subscription with one on the target plan
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param id path string true "Subscription ID"
// @Param request body dto.ChangePlanRequest true "Plan change request"
// @Success 200 {object} dto.ChangePlanResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 402 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /subscriptions/{id}/change [post]
func (h *SubscriptionHandler) ExecuteChange(c *gin.Context) {
	var req dto.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.changeService.ExecuteChange(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get access card
// @Description Get the access card issued for a subscription
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 200 {object} dto.AccessCardResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /subscriptions/{id}/card [get]
func (h *SubscriptionHandler) GetAccessCard(c *gin.Context) {
	resp, err := h.cardService.GetAccessCardBySubscription(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
