package handler

import (
	"net/http"
	"strconv"

	"pos/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// POST/PUT /api/products のリクエストボディ
type productRequest struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Stock    int64           `json:"stock"`
	MinStock *int64          `json:"min_stock"`
}

func (r productRequest) toInput() usecase.ProductInput {
	return usecase.ProductInput{
		Name:     r.Name,
		Category: r.Category,
		Price:    r.Price,
		Stock:    r.Stock,
		MinStock: r.MinStock,
	}
}

type createdResponse struct {
	ID int64 `json:"id"`
}

// /api/products をまとめる
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 更新系にだけguardsを付ける
func (h *ProductHandler) RegisterRoutes(g *echo.Group, guards ...echo.MiddlewareFunc) {
	g.GET("/products", h.list)
	g.GET("/products/:id", h.detail)
	g.GET("/products/:id/adjustments", h.adjustments)

	g.POST("/products", h.create, guards...)
	g.PUT("/products/:id", h.update, guards...)
	g.DELETE("/products/:id", h.delete, guards...)
}

func (h *ProductHandler) list(c echo.Context) error {
	lowStock := false
	if v := c.QueryParam("low_stock"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorJSON("invalid low_stock"))
		}
		lowStock = b
	}

	out, err := h.uc.ListProducts(c.Request().Context(), usecase.ListProductsInput{
		Q:            c.QueryParam("q"),
		LowStockOnly: lowStock,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid id"))
	}

	p, err := h.uc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) create(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid body"))
	}

	id, err := h.uc.CreateProduct(c.Request().Context(), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, createdResponse{ID: id})
}

func (h *ProductHandler) update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid id"))
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid body"))
	}

	if err := h.uc.UpdateProduct(c.Request().Context(), getUserIDFromContext(c), id, req.toInput()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (h *ProductHandler) delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid id"))
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (h *ProductHandler) adjustments(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid id"))
	}
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid limit"))
	}

	out, err := h.uc.ListAdjustments(c.Request().Context(), id, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
