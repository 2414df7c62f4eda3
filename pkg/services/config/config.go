package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/de-tools/statreport/pkg/models/domain"
	"github.com/de-tools/statreport/pkg/render/chart"
	"github.com/de-tools/statreport/pkg/render/pdf"
	"github.com/de-tools/statreport/pkg/store/archive"
	"github.com/de-tools/statreport/pkg/store/sqlutil"
)

const EnvPrefix = "STATREPORT"

type Config struct {
	Server  ServerConfig     `mapstructure:"server"`
	Store   sqlutil.Settings `mapstructure:"store"`
	Report  ReportConfig     `mapstructure:"report"`
	Archive archive.Settings `mapstructure:"archive"`
	Log     LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type ReportConfig struct {
	Locale       string       `mapstructure:"locale"`
	MaxLineChars int          `mapstructure:"max_line_chars"`
	LabelsFile   string       `mapstructure:"labels_file"`
	Fonts        pdf.Fonts    `mapstructure:"fonts"`
	Chart        chart.Config `mapstructure:"chart"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func (l LogConfig) ZerologLevel() (zerolog.Level, error) {
	return zerolog.ParseLevel(l.Level)
}

var defaults = map[string]interface{}{
	"server.host":             "127.0.0.1",
	"server.port":             8080,
	"server.shutdown_timeout": "10s",
	"store.driver":            sqlutil.DriverDuckDB,
	"store.path":              "statreport.db",
	"report.locale":           string(domain.LocaleEnglish),
	"report.max_line_chars":   20,
	"report.labels_file":      "",
	"report.fonts.regular":    "",
	"report.fonts.bold":       "",
	"report.fonts.italic":     "",
	"report.chart.width":      1000,
	"report.chart.height":     500,
	"report.chart.font":       "",
	"report.chart.font_size":  14,
	"archive.enabled":         false,
	"archive.bucket":          "",
	"archive.prefix":          "reports",
	"archive.region":          "",
	"archive.profile":         "",
	"log.level":               "info",
}

// Load reads the YAML file at path (optional) and applies STATREPORT_* environment overrides, e.g.
// STATREPORT_STORE_DRIVER=sqlite.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	locale, err := domain.ParseLocale(c.Report.Locale)
	if err != nil {
		return fmt.Errorf("report.locale: %w", err)
	}
	if locale == domain.LocaleRussian && c.Report.Fonts.Regular == "" {
		return fmt.Errorf("report.fonts.regular is required for locale %q", locale)
	}
	if locale == domain.LocaleRussian && c.Report.Chart.FontPath == "" {
		return fmt.Errorf("report.chart.font is required for locale %q", locale)
	}
	if c.Report.MaxLineChars < 4 {
		return fmt.Errorf("report.max_line_chars must be at least 4, got %d", c.Report.MaxLineChars)
	}
	switch c.Store.Driver {
	case sqlutil.DriverDuckDB, sqlutil.DriverSQLite:
	default:
		return fmt.Errorf("store.driver: unsupported driver %q", c.Store.Driver)
	}
	if c.Archive.Enabled && c.Archive.Bucket == "" {
		return fmt.Errorf("archive.bucket is required when archive.enabled is set")
	}
	if _, err := c.Log.ZerologLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

func (c *Config) Locale() domain.Locale {
	locale, _ := domain.ParseLocale(c.Report.Locale)
	return locale
}
