package handler

import (
	"net/http"

	"pos/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// カートの1行。idはレジ画面の商品id（product_idでも可）
type saleLineRequest struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

func (r saleLineRequest) productID() int64 {
	if r.ProductID != 0 {
		return r.ProductID
	}
	return r.ID
}

// POST /api/sales のリクエストボディ
type saleRequest struct {
	Items    []saleLineRequest `json:"items"`
	Total    *decimal.Decimal  `json:"total"`
	Tax      decimal.Decimal   `json:"tax"`
	Discount decimal.Decimal   `json:"discount"`
}

// POST /api/sales/quote のリクエストボディ
type quoteRequest struct {
	Items          []saleLineRequest `json:"items"`
	TaxRatePercent *decimal.Decimal  `json:"tax_rate_percent"`
	Discount       decimal.Decimal   `json:"discount"`
}

type recordSaleResponse struct {
	Success bool    `json:"success"`
	SaleID  int64   `json:"saleId"`
	Total   float64 `json:"total"`
}

type SaleHandler struct {
	uc *usecase.SaleUsecase
}

// DI
func NewSaleHandler(uc *usecase.SaleUsecase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

func (h *SaleHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/sales", h.record)
	g.POST("/sales/quote", h.quote)
	g.GET("/sales", h.list)
	g.GET("/sales/:id", h.detail)
}

func (h *SaleHandler) record(c echo.Context) error {
	var req saleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid body"))
	}

	lines := make([]usecase.SaleLineInput, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, usecase.SaleLineInput{
			ProductID: it.productID(),
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
		})
	}

	out, err := h.uc.RecordSale(c.Request().Context(), usecase.RecordSaleInput{
		Items:       lines,
		Total:       req.Total,
		Tax:         req.Tax,
		Discount:    req.Discount,
		ActorUserID: getUserIDFromContext(c),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, recordSaleResponse{
		Success: true,
		SaleID:  out.ID,
		Total:   out.Total,
	})
}

func (h *SaleHandler) quote(c echo.Context) error {
	var req quoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid body"))
	}

	lines := make([]usecase.QuoteLineInput, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, usecase.QuoteLineInput{
			ProductID: it.productID(),
			Quantity:  it.Quantity,
		})
	}

	out, err := h.uc.Quote(c.Request().Context(), usecase.QuoteInput{
		Items:      lines,
		TaxRatePct: req.TaxRatePercent,
		Discount:   req.Discount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SaleHandler) list(c echo.Context) error {
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid limit"))
	}

	out, err := h.uc.ListSales(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SaleHandler) detail(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid id"))
	}

	out, err := h.uc.GetSale(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
