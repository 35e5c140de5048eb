package handler

import (
	"net/http"

	"pos/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ダッシュボードとレポート（読み取りのみ）
type ReportHandler struct {
	uc *usecase.ReportUsecase
}

// DI
func NewReportHandler(uc *usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func (h *ReportHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/stats", h.stats)
	g.GET("/reports/daily", h.daily)
	g.GET("/reports/categories", h.categories)
}

func (h *ReportHandler) stats(c echo.Context) error {
	out, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) daily(c echo.Context) error {
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid limit"))
	}

	out, err := h.uc.DailyRevenue(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) categories(c echo.Context) error {
	out, err := h.uc.CategoryDistribution(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
