// Package config loads application configuration from file and environment.
package config

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data       DataConfig       `yaml:"data" mapstructure:"data"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Classifier ClassifierConfig `yaml:"classifier" mapstructure:"classifier"`
	Auth       AuthConfig       `yaml:"auth" mapstructure:"auth"`
}

// DataConfig locates the spreadsheet stores on disk.
type DataConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// MergedStore returns the path of the merged dual-header store.
func (d DataConfig) MergedStore() string {
	return filepath.Join(d.Dir, "merged", "merged_data.xlsx")
}

// InstitutionStore returns the path of one institution's store.
func (d DataConfig) InstitutionStore(institution string) string {
	inst := strings.ToLower(strings.TrimSpace(institution))
	return filepath.Join(d.Dir, inst, inst+"_data", inst+"_data.xlsx")
}

// CourseCatalog returns the path of one institution's course catalog.
func (d DataConfig) CourseCatalog(institution string) string {
	inst := strings.ToLower(strings.TrimSpace(institution))
	return filepath.Join(d.Dir, inst, inst+"_courses.xlsx")
}

// CredentialStore returns the path of the login credential spreadsheet.
func (d DataConfig) CredentialStore() string {
	return filepath.Join(d.Dir, "login", "login_data.xlsx")
}

// ReportsDir returns the directory generated PDF reports are written to.
func (d DataConfig) ReportsDir() string {
	return filepath.Join(d.Dir, "reports")
}

// OperationalDB returns the path of the SQLite operational store.
func (d DataConfig) OperationalDB() string {
	return filepath.Join(d.Dir, "wellbeing.db")
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// AnthropicConfig holds the narrative generator settings.
type AnthropicConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	Model       string  `yaml:"model" mapstructure:"model"`
	MaxTokens   int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	RPS         float64 `yaml:"rps" mapstructure:"rps"`
}

// ClassifierConfig locates the trained model artifact. An empty path uses
// the model bundled with the binary.
type ClassifierConfig struct {
	ModelPath string `yaml:"model_path" mapstructure:"model_path"`
}

// AuthConfig configures the security gate. All fields empty disables it.
type AuthConfig struct {
	BasicUser   string `yaml:"basic_user" mapstructure:"basic_user"`
	BasicPass   string `yaml:"basic_pass" mapstructure:"basic_pass"`
	AccessToken string `yaml:"access_token" mapstructure:"access_token"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("WELLBEING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.dir", "data")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 4000)
	v.SetDefault("anthropic.temperature", 0.7)
	v.SetDefault("anthropic.rps", 0.5)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
