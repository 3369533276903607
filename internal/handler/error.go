package handler

import (
	"errors"
	"net/http"

	"storefront/internal/middleware"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// usecaseのエラーをHTTPステータスへ写す。
// 遷移競合はユーザーには「見つからない/操作できない」としか見せない。
func writeError(c echo.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, usecase.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	case errors.Is(err, usecase.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid input"})
	case errors.Is(err, usecase.ErrOutOfStock), errors.Is(err, usecase.ErrInsufficientStock):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "out of stock"})
	case errors.Is(err, usecase.ErrCartEmpty):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cart empty"})
	case errors.Is(err, usecase.ErrEmailTaken):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "email already taken"})
	case errors.Is(err, usecase.ErrPhoneTaken):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "phone already taken"})
	case errors.Is(err, usecase.ErrInvalidOrderTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "order unavailable"})
	case errors.Is(err, usecase.ErrOrderPlacementFailed):
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "order placement failed"})
	case errors.Is(err, repo.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}
