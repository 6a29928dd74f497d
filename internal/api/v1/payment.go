package v1

import (
	"net/http"

	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/deskhive/deskhive/internal/logger"
	"github.com/deskhive/deskhive/internal/service"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service service.PaymentService
	log     *logger.Logger
}

func NewPaymentHandler(service service.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{service: service, log: log}
}

// @Summary List subscription payments
// @Description List the payment schedule of a subscription with paid progress
// @Tags Payments
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /subscriptions/{id}/payments [get]
func (h *PaymentHandler) GetPaymentsBySubscription(c *gin.Context) {
	resp, err := h.service.GetPaymentsBySubscription(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Mark payment paid
// @Description Confirm a payment on behalf of the external payment processor
// @Tags Payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /payments/{id}/paid [post]
func (h *PaymentHandler) MarkPaymentPaid(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("payment ID is required").
			WithHint("Payment ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.MarkPaymentPaid(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
