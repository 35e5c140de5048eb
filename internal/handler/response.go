package handler

import (
	"net/http"
	"strconv"

	"pos/internal/middleware"
	"pos/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

func errorJSON(msg string) ErrorResponse {
	return ErrorResponse{Success: false, Message: msg}
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, errorJSON(he.Message))
	}

	//500
	return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
}

// 認証なしで動かす場合は0
func getUserIDFromContext(c echo.Context) int64 {
	id, ok := c.Get(middleware.CtxUserIDKey).(int64)
	if !ok {
		return 0
	}
	return id
}

// :idを読む（1以上）
func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// 空ならdef
func queryInt(c echo.Context, name string, def int) (int, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
