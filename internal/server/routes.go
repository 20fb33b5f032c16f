package server

import (
	"net/http"

	"shopapi/internal/config"
	"shopapi/internal/handler"
	"shopapi/internal/metrics"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Products *handler.ProductHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Payments *handler.PaymentHandler
	Orders   *handler.OrderHandler
	Admin    *handler.AdminHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	h.Auth.RegisterRoutes(e)
	h.Products.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e, cfg)
	h.Checkout.RegisterRoutes(e, cfg)
	h.Payments.RegisterRoutes(e, cfg)
	h.Orders.RegisterRoutes(e, cfg)
	h.Admin.RegisterRoutes(e, cfg)
}
