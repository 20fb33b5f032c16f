package handler

import (
	"net/http"
	"strconv"

	"shopapi/internal/config"
	"shopapi/internal/middleware"
	"shopapi/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /adminのHTTP（商品CRUDとユーザー昇格）
type AdminHandler struct {
	products *usecase.ProductUsecase
	auth     *usecase.AuthUsecase
}

// DI
func NewAdminHandler(products *usecase.ProductUsecase, auth *usecase.AuthUsecase) *AdminHandler {
	return &AdminHandler{products: products, auth: auth}
}

type ProductRequest struct {
	ProductID   int64           `json:"product_id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Inventory   int64           `json:"inventory"`
	Category    string          `json:"category"`
	IsActive    bool            `json:"is_active"`
}

type PromoteRequest struct {
	Email string `json:"email"`
}

func (h *AdminHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.POST("/products", h.createProduct)
	g.PATCH("/products/:id", h.updateProduct)
	g.DELETE("/products/:id", h.deleteProduct)
	g.POST("/users/promote", h.promoteUser)
}

func (h *AdminHandler) createProduct(c echo.Context) error {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	p, err := h.products.Create(c.Request().Context(), toProductInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *AdminHandler) updateProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	p, err := h.products.Update(c.Request().Context(), id, toProductInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AdminHandler) deleteProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.products.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *AdminHandler) promoteUser(c echo.Context) error {
	var req PromoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	u, err := h.auth.PromoteToAdmin(c.Request().Context(), req.Email)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func toProductInput(req ProductRequest) usecase.ProductInput {
	return usecase.ProductInput{
		ProductID:   req.ProductID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Inventory:   req.Inventory,
		Category:    req.Category,
		IsActive:    req.IsActive,
	}
}
