package test

import (
	"context"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/rainbow-me/request-context/common/logger"
)

// NewLogger returns a logger that only prints if a test fails
func NewLogger(t *testing.T) *logger.Logger {
	return logger.NewLogger(zaptest.NewLogger(t))
}

// Context returns a background context carrying the test logger.
func Context(t *testing.T) context.Context {
	return logger.ContextWithLogger(context.Background(), NewLogger(t))
}
