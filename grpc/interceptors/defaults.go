package interceptors

import (
	"time"

	grpctrace "github.com/DataDog/dd-trace-go/contrib/google.golang.org/grpc/v2"
	"google.golang.org/grpc"

	"github.com/rainbow-me/request-context/common/logger"
	commonmeta "github.com/rainbow-me/request-context/common/metadata"
)

const (
	healthCheckMethod = "/grpc.health.v1.Health/Check"
)

// Config holds essential configuration options for the interceptor chain.
type Config struct {
	RequestTimeout       time.Duration
	ServiceName          string
	TracingEnabled       bool
	PanicRecoveryEnabled bool
	Builder              *commonmeta.Builder
}

// ConfigOption is a functional option for configuring the interceptor chain
type ConfigOption func(*Config)

// WithRequestTimeout sets the server-side request timeout duration. Zero disables it.
func WithRequestTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.RequestTimeout = timeout
	}
}

// WithTracing enables or disables the Datadog gRPC integration. Default enabled.
func WithTracing(enabled bool) ConfigOption {
	return func(c *Config) {
		c.TracingEnabled = enabled
	}
}

// WithPanicRecovery enables or disables panic recovery. Default enabled.
func WithPanicRecovery(enabled bool) ConfigOption {
	return func(c *Config) {
		c.PanicRecoveryEnabled = enabled
	}
}

// WithBuilder sets the builder used to create request contexts.
func WithBuilder(b *commonmeta.Builder) ConfigOption {
	return func(c *Config) {
		c.Builder = b
	}
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig(serviceName string, opts ...ConfigOption) *Config {
	config := &Config{
		RequestTimeout:       30 * time.Second,
		ServiceName:          serviceName,
		TracingEnabled:       true,
		PanicRecoveryEnabled: true,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// DefaultUnaryServerInterceptors returns the server interceptors in execution order,
// ready for grpc.ChainUnaryInterceptor.
func DefaultUnaryServerInterceptors(
	serviceName string,
	log *logger.Logger,
	opts ...ConfigOption,
) []grpc.UnaryServerInterceptor {
	cfg := NewConfig(serviceName, opts...)

	var chain []grpc.UnaryServerInterceptor
	if cfg.RequestTimeout > 0 {
		chain = append(chain, ServerDeadlineInterceptor(cfg.RequestTimeout))
	}
	if cfg.TracingEnabled {
		chain = append(chain, grpctrace.UnaryServerInterceptor(
			grpctrace.WithService(cfg.ServiceName),
			grpctrace.WithAnalytics(true),
			grpctrace.WithUntracedMethods(healthCheckMethod),
		))
	}
	chain = append(chain, UnaryRequestContextServerInterceptor(cfg.Builder))
	if cfg.PanicRecoveryEnabled {
		chain = append(chain, UnaryPanicRecoveryServerInterceptor(log))
	}
	return chain
}

// DefaultStreamServerInterceptors is the streaming counterpart of DefaultUnaryServerInterceptors.
func DefaultStreamServerInterceptors(
	serviceName string,
	log *logger.Logger,
	opts ...ConfigOption,
) []grpc.StreamServerInterceptor {
	cfg := NewConfig(serviceName, opts...)

	var chain []grpc.StreamServerInterceptor
	if cfg.TracingEnabled {
		chain = append(chain, grpctrace.StreamServerInterceptor(
			grpctrace.WithService(cfg.ServiceName),
			grpctrace.WithUntracedMethods(healthCheckMethod),
		))
	}
	chain = append(chain, StreamRequestContextServerInterceptor(cfg.Builder))
	if cfg.PanicRecoveryEnabled {
		chain = append(chain, StreamPanicRecoveryServerInterceptor(log))
	}
	return chain
}

// DefaultUnaryClientInterceptors returns the client interceptors for grpc.WithChainUnaryInterceptor.
// The request context is added after tracing so that a span is active.
func DefaultUnaryClientInterceptors(serviceName string, opts ...ConfigOption) []grpc.UnaryClientInterceptor {
	cfg := NewConfig(serviceName, opts...)

	var chain []grpc.UnaryClientInterceptor
	if cfg.TracingEnabled {
		chain = append(chain, grpctrace.UnaryClientInterceptor(
			grpctrace.WithService(cfg.ServiceName),
			grpctrace.WithAnalytics(true),
		))
	}
	return append(chain, UnaryRequestContextClientInterceptor)
}

// DefaultStreamClientInterceptors is the streaming counterpart of DefaultUnaryClientInterceptors.
func DefaultStreamClientInterceptors(serviceName string, opts ...ConfigOption) []grpc.StreamClientInterceptor {
	cfg := NewConfig(serviceName, opts...)

	var chain []grpc.StreamClientInterceptor
	if cfg.TracingEnabled {
		chain = append(chain, grpctrace.StreamClientInterceptor(grpctrace.WithService(cfg.ServiceName)))
	}
	return append(chain, StreamRequestContextClientInterceptor)
}
