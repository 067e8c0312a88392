package profile

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Recurrence horizon defaults, in occurrences per unit.
var DefaultRecurrence = map[string]int{
	"day":      30,
	"week":     52,
	"month":    36,
	"quarter":  12,
	"year":     10,
	"hour":     24,
	"interval": 30,
}

// Profile is the configuration to start the resolver process.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Version is the current version of server
	Version string

	// HolidaySource selects where the statutory holiday table comes from:
	// "embedded", "file", "sqlite" or "postgres".
	HolidaySource string
	// HolidayFile is a JSON or YAML holiday table, used when HolidaySource is "file".
	HolidayFile string
	// Driver is the database driver (sqlite or postgres) for database sources.
	Driver string
	// DSN points to the holiday database.
	DSN string

	// Recurrence maps a unit name to the number of occurrences a recurring
	// expression expands to.
	Recurrence map[string]int

	// BatchConcurrency bounds parallel resolution in batch requests.
	BatchConcurrency int
	// RateLimit is the per-client request rate of the HTTP surface (requests/second).
	RateLimit float64
	// RateBurst is the per-client burst of the HTTP surface.
	RateBurst int
	// LunarCacheSize is the capacity of each lunar conversion cache.
	LunarCacheSize int
}

// Default returns a profile populated with defaults.
func Default() *Profile {
	p := &Profile{
		Mode:             "dev",
		Addr:             "",
		Port:             8081,
		HolidaySource:    "embedded",
		BatchConcurrency: 8,
		RateLimit:        10,
		RateBurst:        20,
		LunarCacheSize:   4096,
	}
	p.Recurrence = make(map[string]int, len(DefaultRecurrence))
	for k, v := range DefaultRecurrence {
		p.Recurrence[k] = v
	}
	return p
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// RecurrenceCount returns the horizon for unit, falling back to the defaults.
func (p *Profile) RecurrenceCount(unit string) int {
	if n, ok := p.Recurrence[unit]; ok && n > 0 {
		return n
	}
	return DefaultRecurrence[unit]
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from TIMENLU_* environment variables. Unset variables keep
// the current value.
func (p *Profile) FromEnv() {
	getInt := func(key string, def int) int {
		v := os.Getenv(key)
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("ignoring malformed integer env", "key", key, "value", v)
			return def
		}
		return n
	}

	p.Mode = getEnvOrDefault("TIMENLU_MODE", p.Mode)
	p.Addr = getEnvOrDefault("TIMENLU_ADDR", p.Addr)
	p.Port = getInt("TIMENLU_PORT", p.Port)
	p.HolidaySource = getEnvOrDefault("TIMENLU_HOLIDAY_SOURCE", p.HolidaySource)
	p.HolidayFile = getEnvOrDefault("TIMENLU_HOLIDAY_FILE", p.HolidayFile)
	p.Driver = getEnvOrDefault("TIMENLU_DRIVER", p.Driver)
	p.DSN = getEnvOrDefault("TIMENLU_DSN", p.DSN)
	p.BatchConcurrency = getInt("TIMENLU_BATCH_CONCURRENCY", p.BatchConcurrency)
	p.RateBurst = getInt("TIMENLU_RATE_BURST", p.RateBurst)
	p.LunarCacheSize = getInt("TIMENLU_LUNAR_CACHE_SIZE", p.LunarCacheSize)
	if v := os.Getenv("TIMENLU_RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			p.RateLimit = f
		}
	}

	if p.Recurrence == nil {
		p.Recurrence = map[string]int{}
	}
	for unit := range DefaultRecurrence {
		key := "TIMENLU_RECURRENCE_" + strings.ToUpper(unit)
		if n := getInt(key, 0); n > 0 {
			p.Recurrence[unit] = n
		}
	}
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}
	if p.Port < 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}
	if p.BatchConcurrency <= 0 {
		p.BatchConcurrency = 1
	}

	switch p.HolidaySource {
	case "", "embedded":
		p.HolidaySource = "embedded"
	case "file":
		if p.HolidayFile == "" {
			return errors.New("holiday source 'file' requires a holiday file")
		}
		abs, err := filepath.Abs(p.HolidayFile)
		if err != nil {
			return errors.Wrapf(err, "unable to resolve holiday file %s", p.HolidayFile)
		}
		p.HolidayFile = abs
	case "sqlite", "postgres":
		p.Driver = p.HolidaySource
		if p.DSN == "" {
			return errors.Errorf("holiday source %q requires a dsn", p.HolidaySource)
		}
	default:
		return errors.Errorf("unknown holiday source %q", p.HolidaySource)
	}

	for unit, n := range p.Recurrence {
		if _, ok := DefaultRecurrence[unit]; !ok {
			return errors.Errorf("unknown recurrence unit %q", unit)
		}
		if n <= 0 {
			slog.Warn("non-positive recurrence count, using default", slog.String("unit", unit), slog.Int("count", n))
			p.Recurrence[unit] = DefaultRecurrence[unit]
		}
	}
	return nil
}
