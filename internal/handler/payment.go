package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-ticket-market/internal/service"
)

// PaymentHandler exposes intent creation, confirmation and the ledger
// views.
type PaymentHandler struct {
	payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// CreateIntent handles POST /v1/bookings/:id/payment-intent.
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	cl, err := claims(c)
	if err != nil {
		return err
	}
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	res, err := h.payments.CreateIntent(c.Request().Context(), cl, id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type confirmRequest struct {
	PaymentRef string `json:"payment_ref"`
}

// Confirm handles POST /v1/bookings/:id/confirm-payment. The payment
// reference is verified against the gateway before any state changes.
func (h *PaymentHandler) Confirm(c echo.Context) error {
	cl, err := claims(c)
	if err != nil {
		return err
	}
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	var req confirmRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	txn, err := h.payments.Confirm(c.Request().Context(), cl, id, req.PaymentRef)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, txn)
}

// Transactions handles GET /v1/transactions.
func (h *PaymentHandler) Transactions(c echo.Context) error {
	cl, err := claims(c)
	if err != nil {
		return err
	}
	txns, err := h.payments.UserTransactions(c.Request().Context(), cl)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, txns)
}

// Revenue handles GET /v1/vendor/revenue.
func (h *PaymentHandler) Revenue(c echo.Context) error {
	cl, err := claims(c)
	if err != nil {
		return err
	}
	rev, err := h.payments.VendorRevenue(c.Request().Context(), cl)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, rev)
}
