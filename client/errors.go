package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired is returned when an authenticated call is rejected with
// 401. The stored session has already been cleared; callers should send the
// user back to login.
var ErrSessionExpired = errors.New("session expired")

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string

	authenticated bool
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized && e.authenticated {
		return ErrSessionExpired
	}
	return nil
}

// Localized returns a Korean message suitable for inline display next to the
// form or action that failed.
func (e *APIError) Localized() string {
	switch e.Status {
	case http.StatusBadRequest:
		if e.Message != "" {
			return "입력값을 확인해주세요: " + e.Message
		}
		return "입력값을 확인해주세요."
	case http.StatusUnauthorized:
		if e.authenticated {
			return "로그인이 만료되었습니다. 다시 로그인해주세요."
		}
		return "이메일 또는 비밀번호가 올바르지 않습니다."
	case http.StatusForbidden:
		return "권한이 없습니다."
	case http.StatusNotFound:
		return "요청하신 항목이 존재하지 않습니다."
	case http.StatusConflict:
		return "이미 존재하는 항목입니다."
	case http.StatusRequestEntityTooLarge:
		return "파일 크기가 너무 큽니다."
	default:
		return "요청 처리 중 오류가 발생했습니다."
	}
}

// Localize returns the localized message for err when it is an APIError and
// a generic message otherwise.
func Localize(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Localized()
	}
	return "서버에 연결할 수 없습니다."
}
