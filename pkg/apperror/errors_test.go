package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrConflict, http.StatusConflict},
		{ErrBadRequest, http.StatusBadRequest},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrRateLimitExceeded, http.StatusTooManyRequests},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapErrorToStatus(tt.err), "error: %v", tt.err)
	}
}

func TestWrapKeepsSentinelAndMessage(t *testing.T) {
	err := Wrap(ErrConflict, "a club with this name already exists")

	assert.Equal(t, "a club with this name already exists", err.Error())
	assert.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, http.StatusConflict, MapErrorToStatus(err))

	// Wrapped errors survive another layer of wrapping
	outer := fmt.Errorf("create club: %w", err)
	assert.Equal(t, http.StatusConflict, MapErrorToStatus(outer))
}
