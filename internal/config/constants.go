package config

import "time"

const (
	AppName    = "cafefzip"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment override, e.g.
	// CAFEF_PROBE_PATCH_GUARD_DAYS.
	EnvPrefix = "CAFEF"
)

// CDN defaults
const (
	DefaultBaseURL        = "https://cafef1.mediacdn.vn/data/ami_data"
	DefaultPrefix         = "CafeF"
	DefaultUTCOffsetHours = 7
	DefaultUserAgent      = "cafefzip/" + AppVersion
)

// Walk bounds, in calendar days
const (
	DefaultTradingDayLookback = 14
	DefaultBundleLookback     = 7
	DefaultPatchGuardDays     = 21
)

// Network timeouts
const (
	DefaultHeadTimeout          = 20 * time.Second
	DefaultDownloadTimeout      = 240 * time.Second
	DefaultProbeDownloadTimeout = 180 * time.Second
)

// Work directory layout
const (
	UptoExtractDir  = "extract_upto"
	ProbeExtractDir = "probe_last_trade"
	DailyDirPrefix  = "daily_"
)
