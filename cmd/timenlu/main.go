// Package main provides the timenlu CLI: one-shot resolution of lexer output and an
// HTTP server.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/y00281951/fst-time-nlu-sub002/internal/profile"
)

var rootCmd = &cobra.Command{
	Use:   "timenlu",
	Short: "Resolve Chinese temporal expressions into concrete times",
	Long: `timenlu turns the semantic tokens of a Chinese temporal expression into time
points and intervals relative to a base instant.

Examples:
  timenlu resolve --base 2024-03-15T10:00:00Z --file tokens.json
  echo '[{"type":"relative","offset_day":"1"}]' | timenlu resolve
  timenlu serve --port 8081
  timenlu migrate --holiday-source sqlite --dsn holidays.db`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initConfig()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (yaml, json or toml)")
	flags.String("mode", "dev", `mode of server, can be "prod" or "dev" or "demo"`)
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-format", "text", "log format: text or json")
	flags.String("timezone", "UTC", "zone a base instant without offset is read in")
	flags.String("holiday-source", "embedded", "holiday table source: embedded, file, sqlite or postgres")
	flags.String("holiday-file", "", "JSON or YAML holiday table, for --holiday-source file")
	flags.String("dsn", "", "database source name, for sqlite or postgres holiday sources")

	for _, name := range []string{"config", "mode", "log-level", "log-format", "timezone", "holiday-source", "holiday-file", "dsn"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("timenlu")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// initConfig reads the optional config file and installs the logger.
func initConfig() error {
	if path := viper.GetString("config"); path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	slog.SetDefault(newLogger(viper.GetString("log-level"), viper.GetString("log-format")))
	return nil
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// loadProfile builds the profile from defaults, config file, env and flags, in rising
// precedence.
func loadProfile() (*profile.Profile, error) {
	p := profile.Default()
	p.FromEnv()
	p.Version = version
	p.Mode = viper.GetString("mode")
	p.HolidaySource = viper.GetString("holiday-source")
	p.HolidayFile = viper.GetString("holiday-file")
	p.DSN = viper.GetString("dsn")
	if viper.IsSet("addr") {
		p.Addr = viper.GetString("addr")
	}
	if viper.IsSet("port") {
		p.Port = viper.GetInt("port")
	}
	if viper.IsSet("batch-concurrency") {
		p.BatchConcurrency = viper.GetInt("batch-concurrency")
	}
	if viper.IsSet("rate-limit") {
		p.RateLimit = viper.GetFloat64("rate-limit")
	}
	if viper.IsSet("rate-burst") {
		p.RateBurst = viper.GetInt("rate-burst")
	}
	if viper.IsSet("lunar-cache-size") {
		p.LunarCacheSize = viper.GetInt("lunar-cache-size")
	}
	for unit := range profile.DefaultRecurrence {
		key := "recurrence." + unit
		if viper.IsSet(key) {
			p.Recurrence[unit] = viper.GetInt(key)
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// version is set at build time.
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}
}
