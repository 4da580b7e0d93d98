package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/josephgoksu/taskpilot/internal/logger"
	"github.com/josephgoksu/taskpilot/internal/task"
	"github.com/josephgoksu/taskpilot/store"
	"github.com/josephgoksu/taskpilot/types"
	"github.com/spf13/viper"
)

const (
	configName = ".taskpilot"
	envPrefix  = "TASKPILOT"
	// legacyFileEnv is honored so existing task files keep working.
	legacyFileEnv = "TASK_MANAGER_FILE_PATH"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single instance of Translate, it caches struct info
var validate = validator.New()

// InitConfig reads the config file, .env and environment variables, then
// installs the logger.
func InitConfig() error {
	// It's okay if .env file doesn't exist.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("data.file", envPrefix+"_DATA_FILE", legacyFileEnv)

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	viper.SetDefault("data.backend", store.BackendFile)
	viper.SetDefault("data.file", filepath.Join(home, configName, "tasks.json"))
	viper.SetDefault("data.format", "")
	viper.SetDefault("data.dsn", "")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	cfgFileFlag := viper.GetString("config")
	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		if _, err := os.Stat(configName); err == nil {
			viper.AddConfigPath(configName)
		}
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(configName)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			// Defaults and environment variables are enough.
		case cfgFileFlag != "" && errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("config file not found: %s", cfgFileFlag)
		default:
			return fmt.Errorf("error reading config file %s: %w", viper.ConfigFileUsed(), err)
		}
	}

	var cfg types.AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return fmt.Errorf("configuration validation error: %w", err)
	}

	level := cfg.Log.Level
	if cfg.Verbose {
		level = "debug"
	}
	// stdout carries the MCP stdio transport, so logs always go to stderr.
	if _, err := logger.Setup(level, cfg.Log.Format, os.Stderr); err != nil {
		return err
	}
	if cfg.Data.File != "" {
		logger.SetBasePath(filepath.Dir(cfg.Data.File))
	}
	if used := viper.ConfigFileUsed(); used != "" {
		slog.Debug("using config file", "path", used)
	}

	GlobalAppConfig = cfg
	return nil
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}

// GetStore opens the configured persistence backend.
func GetStore(ctx context.Context) (store.SnapshotStore, error) {
	cfg := GetConfig().Data
	st, err := store.Open(ctx, store.Config{
		Backend: cfg.Backend,
		File:    cfg.File,
		Format:  cfg.Format,
		DSN:     cfg.DSN,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Backend, err)
	}
	return st, nil
}

// withService opens the store, runs fn with a service on top of it and closes
// the store afterwards.
func withService(ctx context.Context, fn func(svc *task.Service) error) error {
	st, err := GetStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			LogError("failed to close store", cerr)
		}
	}()
	return fn(task.NewService(st))
}
