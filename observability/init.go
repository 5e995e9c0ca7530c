package observability

import (
	"github.com/DataDog/dd-trace-go/v2/ddtrace/tracer"

	"github.com/rainbow-me/request-context/common/config"
	"github.com/rainbow-me/request-context/common/logger"
)

type tracingCfg struct {
	MetricsEnabled   bool
	AnalyticsEnabled bool
	DebugStack       bool
}

type Option func(o *tracingCfg)

// WithMetrics enables/disables collection of Go Runtime Metrics. Default enabled.
// When enabled, pushes metrics to DataDog every few seconds.
func WithMetrics(enabled bool) Option {
	return func(c *tracingCfg) {
		c.MetricsEnabled = enabled
	}
}

// WithAnalytics enables/disables trace analytics. Default enabled.
func WithAnalytics(enabled bool) Option {
	return func(c *tracingCfg) {
		c.AnalyticsEnabled = enabled
	}
}

// WithDebugStack enables/disables capture of stack traces when an error is set on a span. Default disabled.
func WithDebugStack(enabled bool) Option {
	return func(c *tracingCfg) {
		c.DebugStack = enabled
	}
}

// FromConfig maps the tracing section of the service configuration to options.
func FromConfig(cfg config.TracingConfig) []Option {
	return []Option{
		WithMetrics(cfg.RuntimeMetrics),
		WithAnalytics(cfg.Analytics),
	}
}

// InitObservability starts the Datadog tracer with sensible defaults that can be overridden.
// The returned function stops the tracer.
func InitObservability(serviceName, env string, log *logger.Logger, opts ...Option) func() {
	cfg := &tracingCfg{
		MetricsEnabled:   true,
		AnalyticsEnabled: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	tracerOpts := []tracer.StartOption{
		tracer.WithEnv(env),
		tracer.WithService(serviceName),
		tracer.WithLogger((*logger.Adapter)(log)),
		tracer.WithDebugStack(cfg.DebugStack),
		tracer.WithAnalytics(cfg.AnalyticsEnabled),
	}
	if cfg.MetricsEnabled {
		tracerOpts = append(tracerOpts, tracer.WithRuntimeMetrics())
	}

	log.Info("Starting tracer", logger.String("service", serviceName), logger.String("env", env))
	if err := tracer.Start(tracerOpts...); err != nil {
		log.Error("Failed to start tracer", logger.Error(err))
		return func() {}
	}
	return tracer.Stop
}
