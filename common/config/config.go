package config

import (
	"time"

	"github.com/cockroachdb/errors"
)

// Config is the configuration of a service hosting the request context middlewares.
type Config struct {
	ServiceName    string               `mapstructure:"serviceName"`
	HTTP           HTTPConfig           `mapstructure:"http"`
	Tracing        TracingConfig        `mapstructure:"tracing"`
	RequestContext RequestContextConfig `mapstructure:"requestContext"`
}

type HTTPConfig struct {
	Addr    string        `mapstructure:"addr"`
	Timeout time.Duration `mapstructure:"timeout"`
	Debug   bool          `mapstructure:"debug"`
	Trace   bool          `mapstructure:"trace"`
}

type TracingConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	Analytics      bool `mapstructure:"analytics"`
	RuntimeMetrics bool `mapstructure:"runtimeMetrics"`
}

// RequestContextConfig controls how inbound request metadata is built.
type RequestContextConfig struct {
	// UseSession builds the context from session state merged with the headers
	UseSession bool `mapstructure:"useSession"`
	// Audit submits an audit entry after every handled request
	Audit bool `mapstructure:"audit"`
}

// Default returns the configuration used when a key is missing from the file.
func Default() Config {
	return Config{
		ServiceName: "request-context",
		HTTP: HTTPConfig{
			Addr:    ":8080",
			Timeout: time.Minute,
		},
		Tracing: TracingConfig{
			Enabled:        true,
			Analytics:      true,
			RuntimeMetrics: true,
		},
	}
}

func (c Config) Validate() error {
	if c.ServiceName == "" {
		return errors.New("serviceName is required")
	}
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	if c.HTTP.Timeout <= 0 {
		return errors.Newf("http.timeout must be positive, got %s", c.HTTP.Timeout)
	}
	return nil
}
