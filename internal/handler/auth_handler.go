package handler

import (
	"errors"
	"net/http"

	auth "pos/internal/usecase/auth_usecase"
	"pos/internal/validator"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	loginUC *auth.LoginUsecase // ログインusecase
}

// DIコンストラクタ
func NewAuthHandler(loginUC *auth.LoginUsecase) *AuthHandler {
	return &AuthHandler{loginUC: loginUC}
}

func (h *AuthHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/login", h.Login)
}

// /api/login のリクエストボディ。
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool                `json:"success"`
	User    auth.UserDTO        `json:"user"`
	Token   auth.JwtAccessToken `json:"token"`
}

// LoginはPOST /api/login のハンドラ。
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid body"))
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, validator.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, errorJSON("username and password required"))
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, errorJSON("Invalid credentials"))
		default:
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
		}
	}

	//JSONレスポンス（user + token）
	return c.JSON(http.StatusOK, loginResponse{
		Success: true,
		User:    out.User,
		Token:   out.Token,
	})
}
