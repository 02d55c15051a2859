package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Browser BrowserConfig
	Checker CheckerConfig
	Paths   PathsConfig
	Log     LogConfig
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy is the proxy URL for all navigations.
	Proxy string

	// Stealth enables anti-bot-detection evasions
	// (e.g. navigator.webdriver masking).
	Stealth bool // default: true

	// BlockedResourceTypes lists resource types the session refuses to
	// download. Text classification never needs them and skipping them
	// keeps the load on the target site small.
	// default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string
}

// CheckerConfig controls the per-record checking loop.
type CheckerConfig struct {
	// NavigationTimeout is the max time for a single page.Navigate.
	NavigationTimeout time.Duration // default: 15s

	// SettleDelay is how long to wait after navigation before reading
	// page content, so client-side rendering can finish.
	SettleDelay time.Duration // default: 3s

	// PaceInterval is the minimum spacing between consecutive record
	// checks (politeness toward the target site).
	PaceInterval time.Duration // default: 1s

	// DollarAmount is the credit amount the valid-code heuristic looks
	// for, in whole dollars.
	DollarAmount int // default: 50
}

// PathsConfig holds the input and output file locations. Relative paths
// are resolved against the executable's directory at startup.
type PathsConfig struct {
	InputCSV     string // default: "data/links.csv"
	OutputReport string // default: "data/referral_check_results.txt"
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:   envBoolOr("REFCHECK_HEADLESS", true),
			NoSandbox:  envBoolOr("REFCHECK_NO_SANDBOX", false),
			BrowserBin: os.Getenv("REFCHECK_BROWSER_BIN"),
			Proxy:      os.Getenv("REFCHECK_PROXY"),
			Stealth:    envBoolOr("REFCHECK_STEALTH", true),
			BlockedResourceTypes: envSliceOr("REFCHECK_BLOCKED_RESOURCES", []string{
				"Image", "Stylesheet", "Font", "Media",
			}),
		},
		Checker: CheckerConfig{
			NavigationTimeout: envDurationOr("REFCHECK_NAV_TIMEOUT", 15*time.Second),
			SettleDelay:       envDurationOr("REFCHECK_SETTLE_DELAY", 3*time.Second),
			PaceInterval:      envDurationOr("REFCHECK_PACE_INTERVAL", time.Second),
			DollarAmount:      envIntOr("REFCHECK_DOLLAR_AMOUNT", 50),
		},
		Paths: PathsConfig{
			InputCSV:     envOr("REFCHECK_INPUT", filepath.Join("data", "links.csv")),
			OutputReport: envOr("REFCHECK_OUTPUT", filepath.Join("data", "referral_check_results.txt")),
		},
		Log: LogConfig{
			Level:  envOr("REFCHECK_LOG_LEVEL", "info"),
			Format: envOr("REFCHECK_LOG_FORMAT", "text"),
		},
	}
}

// ResolvePaths anchors any relative input/output path to baseDir.
func (c *Config) ResolvePaths(baseDir string) {
	if !filepath.IsAbs(c.Paths.InputCSV) {
		c.Paths.InputCSV = filepath.Join(baseDir, c.Paths.InputCSV)
	}
	if !filepath.IsAbs(c.Paths.OutputReport) {
		c.Paths.OutputReport = filepath.Join(baseDir, c.Paths.OutputReport)
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
