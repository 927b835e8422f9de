package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestWithContext(t *testing.T) {
	logger := zap.NewNop()
	ctx := WithContext(context.Background(), logger)

	assert.Equal(t, logger, FromContext(ctx))
}

func TestFromContextWithoutLogger(t *testing.T) {
	logger := FromContext(context.Background())

	assert.NotNil(t, logger)
}

func TestWithRequestID(t *testing.T) {
	ctx, enriched := WithRequestID(context.Background(), zap.NewNop(), "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.NotNil(t, enriched)
	assert.Equal(t, enriched, FromContext(ctx))
}

func TestWithTenantID(t *testing.T) {
	ctx, enriched := WithTenantID(context.Background(), zap.NewNop(), "tenant-42")

	assert.Equal(t, "tenant-42", GetTenantID(ctx))
	assert.NotNil(t, enriched)
}

func TestGetRequestIDMissing(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestGetTenantIDMissing(t *testing.T) {
	assert.Empty(t, GetTenantID(context.Background()))
}
