package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/rainbow-me/request-context/common/env"
	"github.com/rainbow-me/request-context/common/logger"
)

const (
	fileFormat     = ".yaml"        // File format of the config files
	relativePath   = "./cmd/config" // Default relative path for config files (base path)
	binaryPath     = "./config"     // Path for binary build config (base path)
	binaryDir      = "target"       // Directory name for the binary target
	binaryInDocker = "app"          // Directory name for Docker deployment
	envVarPrefix   = "env://"       // Prefix for environment variables
)

// YamlReadConfig holds the configuration paths (relative and absolute).
type YamlReadConfig struct {
	RelativePath string // Path relative to the current directory
	AbsolutePath string // Absolute path if provided
	DynamicDir   string // Optional dynamic directory
}

// ReadConfigOption is a function signature used to set configuration options.
type ReadConfigOption func(*YamlReadConfig)

// WithRelativePath sets a relative path for the config file.
func WithRelativePath(path string) ReadConfigOption {
	return func(config *YamlReadConfig) {
		config.RelativePath = path
	}
}

// WithAbsolutePath sets an absolute path for the config file.
func WithAbsolutePath(path string) ReadConfigOption {
	return func(config *YamlReadConfig) {
		config.AbsolutePath = path
	}
}

// WithDynamicDir allows setting a dynamic subdirectory for the configuration path.
func WithDynamicDir(dynamicDir string) ReadConfigOption {
	return func(config *YamlReadConfig) {
		config.DynamicDir = dynamicDir
	}
}

// LoadConfig reads <dir>/<ENVIRONMENT>.yaml into conf. Values may be overridden by
// environment variables (http.addr -> HTTP_ADDR) or point at one with env://NAME.
func LoadConfig(conf any, log *logger.Logger, options ...ReadConfigOption) error {
	if log == nil {
		log = logger.Instance()
	}

	config := &YamlReadConfig{RelativePath: relativePath}
	for _, option := range options {
		option(config)
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "failed to get current working directory")
	}

	// Running from a binary target or a Docker image ships the config next to the binary
	if strings.Contains(currentDir, binaryDir) || strings.Contains(currentDir, binaryInDocker) {
		log.Debug("binary directory detected", logger.String("directory", currentDir))
		config.RelativePath = binaryPath
	}

	pathToConfigDir := resolveDir(config)

	currentEnv, err := env.GetApplicationEnv()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	filePath := fmt.Sprintf("%s/%s%s", pathToConfigDir, currentEnv, fileFormat)
	log.Info("Reading config file from path", logger.String("path", filePath))

	viper.SetConfigFile(filePath)
	viper.SetEnvPrefix("")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err = viper.ReadInConfig(); err != nil {
		return errors.Wrap(err, "failed to read configuration file")
	}

	for _, key := range viper.AllKeys() {
		resolveEnvPlaceholder(key, viper.Get(key), log)
	}

	if err = viper.Unmarshal(conf); err != nil {
		return errors.Wrap(err, "failed to unmarshal configuration")
	}

	return nil
}

func resolveDir(config *YamlReadConfig) string {
	dir := config.RelativePath
	if config.AbsolutePath != "" {
		dir = config.AbsolutePath
	}
	if config.DynamicDir != "" {
		dir = fmt.Sprintf("%s/%s", dir, config.DynamicDir)
	}
	return dir
}

// resolveEnvPlaceholder replaces an "env://NAME" value with the NAME environment
// variable, or with an empty string when it is not set.
func resolveEnvPlaceholder(key string, value any, log *logger.Logger) {
	str, ok := value.(string)
	if !ok || !strings.HasPrefix(str, envVarPrefix) {
		return
	}
	envVar := strings.TrimPrefix(str, envVarPrefix)

	envValue, exists := os.LookupEnv(envVar)
	if !exists {
		log.Warn("environment variable not found", logger.String("variableName", envVar))
	}
	viper.Set(key, envValue)
}
