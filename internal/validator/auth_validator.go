package validator

import (
	"errors"
	"regexp"
	"strings"

	auth "pos/internal/usecase/auth_usecase"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")
)

// 英数字と . _ - のみ
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,100}$`)

type authValidator struct{}

// Usecaseは interface を依存注入
func NewAuthValidator() auth.CredentialValidator {
	return &authValidator{}
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(username string, password string) error {
	username = strings.TrimSpace(username)

	// 必須チェック
	if username == "" || password == "" {
		return ErrInvalidInput
	}

	// bcryptは72バイトまで
	if len(password) > 72 {
		return ErrInvalidInput
	}
	return nil
}

// 初期管理者の入力を検証
func (v *authValidator) ValidateSeed(username string, password string) error {
	if !usernamePattern.MatchString(username) {
		return ErrInvalidInput
	}

	// パスワード最低文字数（MVP: 8）
	if len(password) < 8 || len(password) > 72 {
		return ErrInvalidInput
	}
	return nil
}
