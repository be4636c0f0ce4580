package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// Error codes used in JSON error responses
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeInvalidState = "INVALID_STATE"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"

	ErrCodeWebSocketClose = "WEBSOCKET_CLOSE"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrBookNotFound       = errors.New("book not found")
	ErrSessionNotFound    = errors.New("reading session not found")
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrForbidden          = errors.New("forbidden access")
	ErrInvalidInput       = errors.New("invalid input")

	// Session lifecycle errors
	ErrSessionNotActive = errors.New("reading session is not active")
	ErrSessionActive    = errors.New("user already has an active reading session")

	// Gamification errors
	ErrAchievementUnknown = errors.New("unknown achievement")
	ErrAchievementEarned  = errors.New("achievement already earned")

	// Stats updater errors
	ErrStatsConflict = errors.New("user stats modified concurrently")

	// Progress/review/social errors
	ErrProgressExists    = errors.New("reading progress already exists for this book")
	ErrInvalidTransition = errors.New("invalid reading status transition")
	ErrReviewExists      = errors.New("review already exists for this book")
	ErrAlreadyFollowing  = errors.New("already following this user")
	ErrSelfFollow        = errors.New("cannot follow yourself")

	// WebSocket protocol errors
	ErrWebSocketAuthFailed   = errors.New("websocket authentication failed")
	ErrWebSocketRoomNotFound = errors.New("reading room not found")
)

// AppError carries an error code, a message and an HTTP status
type AppError struct {
	Code          string                 `json:"code"`
	Message       string                 `json:"message"`
	StatusCode    int                    `json:"status_code,omitempty"`
	Details       map[string]interface{} `json:"details,omitempty"`
	WebSocketCode int                    `json:"websocket_code,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ToHTTPError converts to an HTTP-compatible error response
func (e *AppError) ToHTTPError() *APIResponse {
	return &APIResponse{
		Success:   false,
		Error:     e.Message,
		Message:   e.Message,
		Timestamp: time.Now(),
	}
}

// ToWebSocketError returns the WebSocket close code and message
func (e *AppError) ToWebSocketError() (int, string) {
	if e.WebSocketCode != 0 {
		return e.WebSocketCode, e.Message
	}

	switch e.Code {
	case ErrCodeUnauthorized, ErrCodeForbidden:
		return websocket.ClosePolicyViolation, e.Message
	case ErrCodeNotFound:
		return websocket.CloseNormalClosure, "resource not found"
	default:
		return websocket.CloseInternalServerErr, e.Message
	}
}

// NewHTTPError builds an AppError for the HTTP boundary
func NewHTTPError(code, message string, statusCode int, err error) *AppError {
	details := map[string]interface{}{}
	if err != nil {
		details["original_error"] = err.Error()
	}
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// NewWebSocketError builds an AppError carrying a WebSocket close code
func NewWebSocketError(wsCode int, code, message string, err error) *AppError {
	details := map[string]interface{}{}
	if err != nil {
		details["original_error"] = err.Error()
	}
	return &AppError{
		Code:          code,
		Message:       message,
		WebSocketCode: wsCode,
		Details:       details,
	}
}

// StatusOf returns the HTTP status for an error, defaulting to 500.
// Sentinel errors from the core services map to their canonical statuses
// so route handlers stay thin.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.StatusCode != 0 {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrBookNotFound),
		errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrAchievementUnknown):
		return 404
	case errors.Is(err, ErrSessionNotActive),
		errors.Is(err, ErrSessionActive),
		errors.Is(err, ErrProgressExists),
		errors.Is(err, ErrReviewExists),
		errors.Is(err, ErrAlreadyFollowing),
		errors.Is(err, ErrUsernameExists),
		errors.Is(err, ErrStatsConflict):
		return 409
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrSelfFollow):
		return 400
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrUnauthorized):
		return 401
	case errors.Is(err, ErrForbidden):
		return 403
	}
	return 500
}
