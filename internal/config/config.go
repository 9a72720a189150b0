package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	apperrors "cafefcli/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Source    SourceConfig    `yaml:"source" envconfig:"SOURCE"`
	Probe     ProbeConfig     `yaml:"probe" envconfig:"PROBE"`
	HTTP      HTTPConfig      `yaml:"http" envconfig:"HTTP"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// SourceConfig describes the market-data CDN
type SourceConfig struct {
	BaseURL        string `yaml:"base_url" envconfig:"BASE_URL" validate:"required,url"`
	Prefix         string `yaml:"prefix" envconfig:"PREFIX" validate:"required"`
	UTCOffsetHours int    `yaml:"utc_offset_hours" envconfig:"UTC_OFFSET_HOURS" validate:"min=-12,max=14"`
}

// ProbeConfig bounds the backward walks and the patch loop
type ProbeConfig struct {
	TradingDayLookback int `yaml:"trading_day_lookback" envconfig:"TRADING_DAY_LOOKBACK" validate:"min=0,max=366"`
	BundleLookback     int `yaml:"bundle_lookback" envconfig:"BUNDLE_LOOKBACK" validate:"min=0,max=366"`
	PatchGuardDays     int `yaml:"patch_guard_days" envconfig:"PATCH_GUARD_DAYS" validate:"min=0"`
	Parallelism        int `yaml:"parallelism" envconfig:"PARALLELISM" validate:"min=1,max=32"`
}

// HTTPConfig contains CDN client configuration
type HTTPConfig struct {
	HeadTimeout          time.Duration `yaml:"head_timeout" envconfig:"HEAD_TIMEOUT" validate:"gt=0"`
	DownloadTimeout      time.Duration `yaml:"download_timeout" envconfig:"DOWNLOAD_TIMEOUT" validate:"gt=0"`
	ProbeDownloadTimeout time.Duration `yaml:"probe_download_timeout" envconfig:"PROBE_DOWNLOAD_TIMEOUT" validate:"gt=0"`
	MaxRetries           int           `yaml:"max_retries" envconfig:"MAX_RETRIES" validate:"min=0,max=10"`
	RetryInitialInterval time.Duration `yaml:"retry_initial_interval" envconfig:"RETRY_INITIAL_INTERVAL" validate:"gte=0"`
	RequestsPerSecond    float64       `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND" validate:"gt=0"`
	Burst                int           `yaml:"burst" envconfig:"BURST" validate:"min=1"`
	UserAgent            string        `yaml:"user_agent" envconfig:"USER_AGENT"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	OutDir      string `yaml:"out_dir" envconfig:"OUT_DIR" validate:"required"`
	WorkDir     string `yaml:"work_dir" envconfig:"WORK_DIR" validate:"required"`
	ArchiveName string `yaml:"archive_name" envconfig:"ARCHIVE_NAME" validate:"required"`
	ReportName  string `yaml:"report_name" envconfig:"REPORT_NAME" validate:"required"`
	KeepWork    bool   `yaml:"keep_work" envconfig:"KEEP_WORK"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout stderr file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_if=Output file,required_if=Output both"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	ServiceName   string  `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Environment   string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"min=0,max=1"`
	MetricsFile   string  `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load builds the configuration from defaults, the YAML file at path (or
// the first well-known location when path is empty) and CAFEF_* environment
// variables, in increasing order of precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file "+path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("config validation failed", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg. Keys absent from the file
// keep their current value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Validate checks every section against its struct tags and the
// cross-field rules the tags cannot express.
func (c *Config) Validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}

	if c.Paths.OutDir == c.Paths.WorkDir {
		return fmt.Errorf("invalid configuration: out_dir and work_dir must differ")
	}
	if c.HTTP.ProbeDownloadTimeout > c.HTTP.DownloadTimeout {
		return fmt.Errorf("invalid configuration: probe_download_timeout exceeds download_timeout")
	}

	return nil
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL:        DefaultBaseURL,
			Prefix:         DefaultPrefix,
			UTCOffsetHours: DefaultUTCOffsetHours,
		},
		Probe: ProbeConfig{
			TradingDayLookback: DefaultTradingDayLookback,
			BundleLookback:     DefaultBundleLookback,
			PatchGuardDays:     DefaultPatchGuardDays,
			Parallelism:        4,
		},
		HTTP: HTTPConfig{
			HeadTimeout:          DefaultHeadTimeout,
			DownloadTimeout:      DefaultDownloadTimeout,
			ProbeDownloadTimeout: DefaultProbeDownloadTimeout,
			MaxRetries:           3,
			RetryInitialInterval: 2 * time.Second,
			RequestsPerSecond:    5,
			Burst:                4,
			UserAgent:            DefaultUserAgent,
		},
		Paths: PathsConfig{
			OutDir:      "out",
			WorkDir:     "work",
			ArchiveName: "cafef.zip",
			ReportName:  "latest.json",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/cafefzip.log",
		},
		Telemetry: TelemetryConfig{
			ServiceName:   AppName,
			Environment:   "production",
			TraceExporter: "none",
			SampleRatio:   1.0,
		},
	}
}
