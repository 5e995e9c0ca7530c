package logger

import (
	"fmt"

	"github.com/DataDog/dd-trace-go/v2/ddtrace/tracer"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Field = zap.Field

var (
	Any        = zap.Any
	Bool       = zap.Bool
	ByteString = zap.ByteString
	Duration   = zap.Duration
	Int        = zap.Int
	Int64      = zap.Int64
	String     = zap.String
	Strings    = zap.Strings
	Uint64     = zap.Uint64
	Error      = zap.Error
)

type Level zapcore.Level

const (
	DebugLevel = Level(zapcore.DebugLevel)
	InfoLevel  = Level(zapcore.InfoLevel)
	WarnLevel  = Level(zapcore.WarnLevel)
	ErrorLevel = Level(zapcore.ErrorLevel)
)

// WithTrace returns the fields Datadog uses to link a log line to its trace.
func WithTrace(spanCtx *tracer.SpanContext) []Field {
	if spanCtx == nil {
		return nil
	}
	return []Field{
		String("dd.trace_id", spanCtx.TraceID()),
		Uint64("dd.span_id", spanCtx.SpanID()),
	}
}

// WithPanic describes a recovered panic value.
func WithPanic(r any) []Field {
	fields := []Field{String("panic", fmt.Sprintf("%v", r))}
	if err, ok := r.(error); ok {
		fields = append(fields, Error(err))
	}
	return fields
}
