/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose bool       `mapstructure:"verbose"`
	Config  string     `mapstructure:"config"`
	Data    DataConfig `mapstructure:"data" validate:"required"`
	Log     LogConfig  `mapstructure:"log"`
}

// DataConfig holds data storage configuration
type DataConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=file sqlite postgres"`
	File    string `mapstructure:"file" validate:"required_unless=Backend postgres"`
	Format  string `mapstructure:"format" validate:"omitempty,oneof=json yaml yml toml"`
	DSN     string `mapstructure:"dsn" validate:"required_if=Backend postgres"`
}

// LogConfig controls the slog handler installed at startup
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json"`
}
