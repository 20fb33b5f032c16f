package handler

import (
	"errors"
	"net/http"
	"strconv"

	"shopapi/internal/domain"
	"shopapi/internal/domain/model"
	"shopapi/internal/middleware"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// 業務エラーをHTTPステータスへ変換する。
// 400: 入力不正・空カート・メール重複・商品重複
// 401: 認証失敗
// 403: 所有violation
// 404: 注文・商品なし（他人の注文も404）
// 409: チェックアウト時の商品利用不可
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	var ve *domain.ValidationError
	var pe *domain.ProductUnavailableError

	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: ve.Message})
	case errors.As(err, &pe):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: pe.Error()})
	case errors.Is(err, domain.ErrEmptyCart):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cart is empty"})
	case errors.Is(err, domain.ErrEmailTaken):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "email already registered"})
	case errors.Is(err, domain.ErrProductConflict):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "product already exists"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
	case errors.Is(err, domain.ErrForbidden):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	case errors.Is(err, domain.ErrOrderNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "order not found"})
	case errors.Is(err, domain.ErrProductNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "product not found"})
	}

	// 500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	raw := c.Get(middleware.CtxUserIDKey)
	id, ok := raw.(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

func isAdminFromContext(c echo.Context) bool {
	raw := c.Get(middleware.CtxUserRoleKey)
	role, ok := raw.(string)
	return ok && role == string(model.RoleAdmin)
}

// skip/limitクエリ（省略時は0とdefLimit）
func parseSkipLimit(c echo.Context, defLimit int) (int, int, error) {
	skip := 0
	limit := defLimit

	if v := c.QueryParam("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, 0, errors.New("invalid skip")
		}
		skip = n
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, errors.New("invalid limit")
		}
		limit = n
	}
	return skip, limit, nil
}
