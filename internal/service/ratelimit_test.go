package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitDisabledWithoutRedis(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	allowed, err := CheckAndSetRateLimit(ctx, nil, userID, "create_club", time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	ttl, err := GetRateLimitTTL(ctx, nil, userID, "create_club")
	require.NoError(t, err)
	assert.Zero(t, ttl)
}
