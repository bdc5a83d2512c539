/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/josephgoksu/TaskGraph/internal/config"
	"github.com/josephgoksu/TaskGraph/types"
	"github.com/spf13/viper"
)

const (
	configName = ".taskgraph"
	envPrefix  = "TASKGRAPH"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single validator instance; it caches struct info.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// Load .env file first if present. It's okay if it doesn't exist.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix) // e.g., TASKGRAPH_VERBOSE
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// Running purely on defaults and env is fine; anything other
		// than a missing file is worth surfacing.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: failed to read config file: %v\n", err)
		}
	}

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to parse configuration: %v\n", err)
		os.Exit(1)
	}
	if err := validate.Struct(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if GlobalAppConfig.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func setDefaults() {
	viper.SetDefault("project.rootDir", config.DefaultRootDir)
	viper.SetDefault("project.tasksDir", config.DefaultTasksDir)
	viper.SetDefault("data.format", config.DefaultDataFormat)
	viper.SetDefault("locking.timeoutSeconds", config.DefaultLockTimeoutSeconds)
	viper.SetDefault("locking.retryIntervalMillis", config.DefaultLockRetryMillis)
	viper.SetDefault("analysis.timeoutSeconds", config.DefaultAnalysisTimeoutSecs)
	viper.SetDefault("analysis.bottleneckThreshold", config.DefaultBottleneckThreshold)
	viper.SetDefault("admission.maxConcurrent", config.DefaultMaxConcurrent)
	viper.SetDefault("admission.waitTimeoutSeconds", config.DefaultAdmissionWaitSecs)
}

// GetConfig returns the loaded application configuration.
func GetConfig() types.AppConfig {
	return GlobalAppConfig
}
