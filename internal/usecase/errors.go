package usecase

import (
	"errors"
	"fmt"
)

var (
	// 会計の確定に失敗（原因は1つにまとめる）
	ErrTransactionFailure = errors.New("transaction failure")
	// 在庫不足
	ErrInsufficientStock = errors.New("insufficient stock")
	// クライアントの合計とサーバー計算が合わない
	ErrTotalMismatch = errors.New("total mismatch")
)

type HTTPError struct {
	Status  int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// 原因のerrorを残したまま包む（errors.Isで判定できる）
func WrapHTTPError(status int, message string, err error) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Err:     err,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
