package metadata_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rainbow-me/request-context/common/chain"
	"github.com/rainbow-me/request-context/common/headers"
	"github.com/rainbow-me/request-context/common/logger"
	"github.com/rainbow-me/request-context/common/metadata"
)

func fixedChain(segment string) metadata.BuilderOpt {
	return metadata.WithGenerator(chain.GeneratorFunc(func() string { return segment }))
}

func TestHeadersOnlyChain(t *testing.T) {
	rc := metadata.NewBuilder(fixedChain("c1")).FromHeaders(nil)

	assert.Equal(t, []metadata.Header{{Name: headers.HeaderXRequestChain, Value: "c1"}}, rc.Headers())
}

func TestHeadersFixedOrder(t *testing.T) {
	raw := metadata.NewMetadata(map[string]string{
		"authorization":   "Bearer abc",
		"token":           "tok",
		"x-forwarded-for": "9.9.9.9",
		"x-session-id":    "sess",
		"x-request-id":    "req",
	})
	rc := metadata.NewBuilder(fixedChain("c1")).FromHeaders(raw).
		WithExtraHeaders(metadata.Header{Name: "x-b", Value: "2"}, metadata.Header{Name: "x-a", Value: "1"})

	want := []metadata.Header{
		{Name: "x-request-id", Value: "req"},
		{Name: "x-session-id", Value: "sess"},
		{Name: "x-forwarded-for", Value: "9.9.9.9"},
		{Name: "token", Value: "tok"},
		{Name: "x-request-chain", Value: "c1"},
		{Name: "authorization", Value: "Bearer abc"},
		{Name: "x-b", Value: "2"},
		{Name: "x-a", Value: "1"},
	}
	assert.Equal(t, want, rc.Headers())
}

func TestHeadersPartialKeepsOrder(t *testing.T) {
	raw := metadata.NewMetadata(map[string]string{
		"authorization": "Bearer abc",
		"x-request-id":  "req",
	})
	rc := metadata.NewBuilder(fixedChain("c1")).FromHeaders(raw)

	want := []metadata.Header{
		{Name: "x-request-id", Value: "req"},
		{Name: "x-request-chain", Value: "c1"},
		{Name: "authorization", Value: "Bearer abc"},
	}
	assert.Equal(t, want, rc.Headers())
}

func TestWithExtraHeaders(t *testing.T) {
	a := metadata.Header{Name: "a", Value: "1"}
	b := metadata.Header{Name: "b", Value: "2"}
	c := metadata.Header{Name: "c", Value: "3"}
	d := metadata.Header{Name: "a", Value: "4"}
	base := metadata.NewBuilder(fixedChain("c1")).FromHeaders(metadata.Metadata{"x-request-id": {"req"}})

	twice := base.WithExtraHeaders(a, b).WithExtraHeaders(c, d)
	once := base.WithExtraHeaders(a, b, c, d)

	assert.Equal(t, once.Headers(), twice.Headers())
	assert.Equal(t, []metadata.Header{a, b, c, d}, twice.ExtraHeaders())
	assert.Empty(t, base.ExtraHeaders(), "the original is never modified")
	assert.Equal(t, base.RequestChain(), twice.RequestChain())
	assert.Equal(t, base.CreatedAtNanos(), twice.CreatedAtNanos())
}

func TestWithExtraHeadersDoesNotAlias(t *testing.T) {
	base := metadata.FromHeaders(nil).WithExtraHeaders(metadata.Header{Name: "a", Value: "1"})

	left := base.WithExtraHeaders(metadata.Header{Name: "left", Value: "l"})
	right := base.WithExtraHeaders(metadata.Header{Name: "right", Value: "r"})

	require.Len(t, left.ExtraHeaders(), 2)
	require.Len(t, right.ExtraHeaders(), 2)
	assert.Equal(t, "left", left.ExtraHeaders()[1].Name)
	assert.Equal(t, "right", right.ExtraHeaders()[1].Name)
	assert.Len(t, base.ExtraHeaders(), 1)
}

func TestAuditTags(t *testing.T) {
	empty := metadata.FromHeaders(nil)
	assert.Equal(t, map[string]string{
		"x-request-id":    "-",
		"x-session-id":    "-",
		"transactionName": "GetUser",
		"path":            "/users/1",
	}, empty.AuditTags("GetUser", "/users/1"))

	full := metadata.FromHeaders(metadata.Metadata{"x-request-id": {"req"}, "x-session-id": {"sess"}})
	tags := full.AuditTags("", "")
	assert.Equal(t, "req", tags["x-request-id"])
	assert.Equal(t, "sess", tags["x-session-id"])
}

func TestAuditDetails(t *testing.T) {
	empty := metadata.FromHeaders(nil)
	assert.Equal(t, map[string]string{
		"ipAddress":     "-",
		"authorization": "-",
		"token":         "-",
	}, empty.AuditDetails())

	full := metadata.FromHeaders(metadata.Metadata{
		"x-forwarded-for": {"1.2.3.4"},
		"authorization":   {"Bearer abc"},
		"token":           {"tok"},
	})
	details := full.AuditDetails(
		metadata.Header{Name: "amount", Value: "10"},
		metadata.Header{Name: "token", Value: "redacted"},
		metadata.Header{Name: "amount", Value: "11"},
	)
	assert.Equal(t, map[string]string{
		"ipAddress":     "1.2.3.4",
		"authorization": "Bearer abc",
		"token":         "redacted",
		"amount":        "11",
	}, details)
}

func TestContextWithRequestContext(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := logger.ContextWithLogger(context.Background(), logger.NewLogger(zap.New(core)))
	rc := metadata.NewBuilder(fixedChain("c1")).FromHeaders(metadata.Metadata{
		"x-request-id":  {"req"},
		"authorization": {"Bearer secret"},
	})

	_, ok := metadata.RequestContextFromContext(ctx)
	assert.False(t, ok)

	ctx = metadata.ContextWithRequestContext(ctx, rc)
	got, ok := metadata.RequestContextFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, rc.Headers(), got.Headers())

	logger.FromContext(ctx).Info("handled")
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req", fields["request_id"])
	assert.Equal(t, "c1", fields["request_chain"])
	assert.NotContains(t, fields, "session_id")
	for _, v := range fields {
		assert.NotEqual(t, "Bearer secret", v)
	}
}

func TestRequestContextFromNilContext(t *testing.T) {
	//nolint:staticcheck
	_, ok := metadata.RequestContextFromContext(nil)
	assert.False(t, ok)
}
