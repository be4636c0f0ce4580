package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{ErrUserNotFound, 404},
		{ErrBookNotFound, 404},
		{ErrSessionNotFound, 404},
		{ErrSessionActive, 409},
		{ErrSessionNotActive, 409},
		{ErrReviewExists, 409},
		{ErrUsernameExists, 409},
		{ErrStatsConflict, 409},
		{ErrInvalidInput, 400},
		{ErrInvalidTransition, 400},
		{ErrSelfFollow, 400},
		{ErrInvalidCredentials, 401},
		{ErrInvalidToken, 401},
		{ErrForbidden, 403},
		{errors.New("surprise"), 500},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, StatusOf(tt.err), "%v", tt.err)
	}
}

func TestStatusOfWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("starting session: %w", ErrSessionActive)
	assert.Equal(t, 409, StatusOf(wrapped))
}

func TestStatusOfAppError(t *testing.T) {
	appErr := NewHTTPError(ErrCodeValidation, "bad payload", 422, nil)
	assert.Equal(t, 422, StatusOf(appErr))
}
