package server

import (
	"net/http"

	"pos/internal/handler"
	"pos/internal/middleware"
	"pos/internal/repository"

	"github.com/labstack/echo/v4"
)

// ルーティングに必要なhandler一式
type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Sale    *handler.SaleHandler
	Report  *handler.ReportHandler
}

// requireAuth=trueなら /api/login 以外はBearer必須。商品の更新系はadminのみ
func RegisterRoutes(e *echo.Echo, h Handlers, requireAuth bool, jwtSecret string, userRepo repository.UserRepository) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")
	h.Auth.RegisterRoutes(api)

	protected := e.Group("/api")
	var adminOnly []echo.MiddlewareFunc
	if requireAuth {
		protected.Use(middleware.AuthJWT(jwtSecret))
		protected.Use(middleware.UserExistsGuard(userRepo))
		adminOnly = append(adminOnly, middleware.AdminRoleGuard())
	}

	h.Product.RegisterRoutes(protected, adminOnly...)
	h.Sale.RegisterRoutes(protected)
	h.Report.RegisterRoutes(protected)
}
