package logger

import (
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rainbow-me/request-context/common/env"
)

const (
	StringJSONEncoderName = "string_json"
	MessageKey            = "message"
)

// Logger is the structured logger shared by every package of the module.
type Logger struct {
	*zap.Logger
}

var (
	registerOnce sync.Once
	registerErr  error

	instanceOnce sync.Once
	instance     *Logger
)

type stringJSONEncoder struct {
	zapcore.Encoder
}

func newStringJSONEncoder(cfg zapcore.EncoderConfig) *stringJSONEncoder {
	return &stringJSONEncoder{zapcore.NewJSONEncoder(cfg)}
}

// NewStringJSONEncoder returns an encoder that encodes the JSON log dict as a string
// so the log processing pipeline can correctly process logs with nested JSON.
func NewStringJSONEncoder(cfg zapcore.EncoderConfig) (zapcore.Encoder, error) {
	return newStringJSONEncoder(cfg), nil
}

// NewLogger wraps an existing zap logger. A nil logger yields a no-op logger.
func NewLogger(l *zap.Logger) *Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &Logger{Logger: l}
}

// Instance returns the process wide logger, initialising it on first use from ENVIRONMENT.
// When the environment is missing or invalid it falls back to a development logger.
func Instance() *Logger {
	instanceOnce.Do(func() {
		l, err := InitLogger()
		if err != nil {
			l, err = zap.NewDevelopment()
			if err != nil {
				l = zap.NewNop()
			}
		}
		instance = NewLogger(l)
	})
	return instance
}

// With returns a child logger carrying the given fields.
func (l *Logger) With(fields ...Field) *Logger {
	if l == nil {
		return Instance().With(fields...)
	}
	return &Logger{Logger: l.Logger.With(fields...)}
}

// Log writes msg at the given level.
func (l *Logger) Log(level Level, msg string, fields ...Field) {
	if l == nil {
		return
	}
	l.Logger.Log(zapcore.Level(level), msg, fields...)
}

// InitLogger initializes and returns a configured Zap logger with environment-specific settings.
func InitLogger(zapOpts ...zap.Option) (*zap.Logger, error) {
	var (
		config  zap.Config
		options []zap.Option
	)

	currentEnv, err := env.GetApplicationEnv()
	if err != nil {
		return nil, errors.Wrap(err, "init logger")
	}

	registerOnce.Do(func() {
		registerErr = zap.RegisterEncoder(StringJSONEncoderName, NewStringJSONEncoder)
	})
	if registerErr != nil {
		return nil, errors.Wrap(registerErr, "failed to register string JSON encoder")
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:       "timestamp",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		FunctionKey:   zapcore.OmitKey,
		MessageKey:    MessageKey,
		StacktraceKey: "stacktrace",
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}

	switch currentEnv {
	case env.EnvironmentLocal:
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.MessageKey = MessageKey
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	case env.EnvironmentLocalDocker, env.EnvironmentDevelopment, env.EnvironmentStaging:
		// JSON logs for Datadog ingestion
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig = encoderConfig
		config.Encoding = StringJSONEncoderName

	case env.EnvironmentProduction:
		config = zap.NewProductionConfig()
		config.EncoderConfig = encoderConfig
		config.Encoding = StringJSONEncoderName
		config.Level.SetLevel(zap.InfoLevel)
	}
	options = append(options, zap.AddStacktrace(zap.ErrorLevel))
	options = append(options, zapOpts...)

	logger, err := config.Build(options...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize logger")
	}

	return logger, nil
}
