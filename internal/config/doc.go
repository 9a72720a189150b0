// Package config provides centralized configuration management for cafefzip.
// It loads configuration from multiple sources, validates it, and exposes a
// typed value that is passed explicitly to every component constructor.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// The YAML file is taken from the -config flag, or else the first of
// config.yaml and configs/config.yaml that exists. Keys missing from the
// file keep their defaults.
//
// # Environment Variables
//
// All environment variables follow the pattern CAFEF_<SECTION>_<KEY>:
//
//	CAFEF_SOURCE_BASE_URL=https://cafef1.mediacdn.vn/data/ami_data
//	CAFEF_PROBE_PATCH_GUARD_DAYS=21
//	CAFEF_HTTP_DOWNLOAD_TIMEOUT=240s
//	CAFEF_PATHS_KEEP_WORK=true
//	CAFEF_LOGGING_LEVEL=debug
//	CAFEF_TELEMETRY_METRICS_FILE=out/metrics.prom
//
// # Validation
//
// Every section carries go-playground/validator tags. Validation errors name
// the offending key by its YAML path, e.g. "Config.probe.parallelism".
//
// # Usage
//
//	cfg, err := config.Load(*configPath)
//	if err != nil {
//	    return err
//	}
//	paths, err := cfg.ResolvePaths()
package config
