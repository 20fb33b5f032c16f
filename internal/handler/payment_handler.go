package handler

import (
	"net/http"
	"strconv"

	"shopapi/internal/config"
	"shopapi/internal/middleware"
	"shopapi/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /paymentsのHTTP（モック決済）
type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

// DI
func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

type PaymentConfirmResponse struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/payments")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("/confirm", h.confirm)
}

// POST /payments/confirm?order_id=...&outcome=success|failure|canceled
func (h *PaymentHandler) confirm(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.QueryParam("order_id"), 10, 64)
	if err != nil || orderID <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid order_id"})
	}

	raw := c.QueryParam("outcome")
	if raw == "" {
		raw = string(usecase.OutcomeSuccess)
	}
	outcome, ok := usecase.ParsePaymentOutcome(raw)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid outcome"})
	}

	out, err := h.uc.Confirm(c.Request().Context(), orderID, userID, outcome, isAdminFromContext(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, PaymentConfirmResponse{OrderID: out.ID, Status: out.Status})
}
