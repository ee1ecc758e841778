package services

import (
	"fmt"
	"net/http"
)

// 业务错误码。对外区分"重建链接"(reauth_required/expired)、
// "稍后重试"(delivery_failed/refresh_transport)和"检查输入"(invalid_input)。
const (
	CodeInvalidInput     = "invalid_input"
	CodeNotFound         = "not_found"
	CodeExpired          = "expired"
	CodeReauthRequired   = "reauth_required"
	CodeDeliveryFailed   = "delivery_failed"
	CodeRefreshTransport = "refresh_transport"
	CodeInternal         = "internal"
)

type AppError struct {
	HTTPCode int
	Code     string
	Message  string
	Data     interface{}
	Err      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newAppError(httpCode int, code string, message string, err error) *AppError {
	return &AppError{HTTPCode: httpCode, Code: code, Message: message, Err: err}
}

func newInvalidInput(message string) *AppError {
	return newAppError(http.StatusBadRequest, CodeInvalidInput, message, nil)
}

func newNotFound(message string) *AppError {
	return newAppError(http.StatusNotFound, CodeNotFound, message, nil)
}

func newExpired(message string) *AppError {
	return newAppError(http.StatusGone, CodeExpired, message, nil)
}

func newReauthRequired(message string, err error) *AppError {
	return newAppError(http.StatusUnauthorized, CodeReauthRequired, message, err)
}

func newDeliveryFailed(message string, err error) *AppError {
	return newAppError(http.StatusBadGateway, CodeDeliveryFailed, message, err)
}

func newRefreshTransport(message string, err error) *AppError {
	return newAppError(http.StatusBadGateway, CodeRefreshTransport, message, err)
}

func newInternal(message string, err error) *AppError {
	return newAppError(http.StatusInternalServerError, CodeInternal, message, err)
}

// IsCode 判断错误是否携带指定业务码。
func IsCode(err error, code string) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}
