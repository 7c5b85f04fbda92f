package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/citymap/internal/geo"
	"github.com/sells-group/citymap/internal/report"
)

// Config holds the full application configuration.
type Config struct {
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	Loader LoaderConfig `yaml:"loader" mapstructure:"loader"`
	Search SearchConfig `yaml:"search" mapstructure:"search"`
	Shell  ShellConfig  `yaml:"shell" mapstructure:"shell"`
	Report ReportConfig `yaml:"report" mapstructure:"report"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// DataConfig lists the city files loaded at startup.
type DataConfig struct {
	Files []string `yaml:"files" mapstructure:"files"`
}

// LoaderConfig configures city file parsing.
type LoaderConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// SearchConfig holds radius search defaults.
type SearchConfig struct {
	Metric string  `yaml:"metric" mapstructure:"metric"`
	Radius float64 `yaml:"radius" mapstructure:"radius"`
}

// ShellConfig configures the interactive menu.
type ShellConfig struct {
	AllowNegative bool `yaml:"allow_negative" mapstructure:"allow_negative"`
}

// ReportConfig configures command output.
type ReportConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CITYMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.files", []string{})
	v.SetDefault("loader.concurrency", 4)
	v.SetDefault("search.metric", "euclidean")
	v.SetDefault("search.radius", 1.0)
	v.SetDefault("shell.allow_negative", false)
	v.SetDefault("report.format", "text")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

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

// Validate checks the settings shared by every command.
func (c *Config) Validate() error {
	var problems []string

	if c.Loader.Concurrency < 1 {
		problems = append(problems, "loader.concurrency must be at least 1")
	}
	if _, err := geo.ParseMetric(c.Search.Metric); err != nil {
		names := make([]string, len(geo.Metrics))
		for i, m := range geo.Metrics {
			names[i] = m.String()
		}
		problems = append(problems, "search.metric must be one of "+strings.Join(names, ", "))
	}
	if !(c.Search.Radius > 0) {
		problems = append(problems, "search.radius must be positive")
	}
	if _, err := report.ParseFormat(c.Report.Format); err != nil {
		names := make([]string, len(report.Formats))
		for i, f := range report.Formats {
			names[i] = string(f)
		}
		problems = append(problems, "report.format must be one of "+strings.Join(names, ", "))
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
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
