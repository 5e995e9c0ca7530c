package audit_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rainbow-me/request-context/common/audit"
	"github.com/rainbow-me/request-context/common/logger"
	"github.com/rainbow-me/request-context/common/metadata"
)

func TestRecord(t *testing.T) {
	rc := metadata.FromHeaders(metadata.Metadata{
		"x-request-id":    {"req"},
		"x-forwarded-for": {"1.2.3.4"},
	})
	var got audit.Entry
	sink := audit.SinkFunc(func(_ context.Context, e audit.Entry) error {
		got = e
		return nil
	})

	err := audit.Record(context.Background(), sink, rc, "Transfer", "/transfer", metadata.Header{Name: "amount", Value: "5"})
	require.NoError(t, err)

	assert.Equal(t, "Transfer", got.TransactionName)
	assert.Equal(t, "/transfer", got.Path)
	assert.Equal(t, "req", got.Tags["x-request-id"])
	assert.Equal(t, "-", got.Tags["x-session-id"])
	assert.Equal(t, "Transfer", got.Tags["transactionName"])
	assert.Equal(t, "1.2.3.4", got.Details["ipAddress"])
	assert.Equal(t, "-", got.Details["token"])
	assert.Equal(t, "5", got.Details["amount"])
}

func TestRecordWrapsSinkError(t *testing.T) {
	errDown := errors.New("audit backend down")
	sink := audit.SinkFunc(func(context.Context, audit.Entry) error { return errDown })

	err := audit.Record(context.Background(), sink, metadata.FromHeaders(nil), "Login", "/login")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errDown))
	assert.Contains(t, err.Error(), "Login")
}

func TestRecordNilSink(t *testing.T) {
	assert.NoError(t, audit.Record(context.Background(), nil, metadata.FromHeaders(nil), "x", "/"))
}

func TestLoggerSink(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	sink := audit.NewLoggerSink(logger.NewLogger(zap.New(core)))

	err := audit.Record(context.Background(), sink, metadata.FromHeaders(nil), "Ping", "/ping")
	require.NoError(t, err)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "audit", entry.Message)
	assert.Equal(t, "Ping", entry.ContextMap()["transaction"])
}
