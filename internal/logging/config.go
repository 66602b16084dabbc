package logging

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel     = "PNGME_LOG_LEVEL"
	EnvLogTimestamp = "PNGME_LOG_TIMESTAMP"
	EnvLogNoColor   = "PNGME_LOG_NOCOLOR"
	EnvLogBypass    = "PNGME_LOG_BYPASS"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Config is the resolved logger setup.
type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
	// Bypass writes raw JSON lines instead of the console format.
	Bypass bool
}

var configureOnce sync.Once

func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

func ConfigureTests() {
	Configure(ProfileTest)
}

func Configure(profile Profile) {
	configureOnce.Do(func() {
		cfg := defaultConfig(profile)
		applyEnvOverrides(&cfg)
		apply(cfg, os.Stderr)
	})
}

// Override applies the first level that is set, in order: explicit (a CLI
// flag), the PNGME_LOG_LEVEL environment value, configured (a config file).
// With none set the profile level stands.
func Override(explicit, configured string) error {
	if strings.TrimSpace(explicit) != "" {
		return setLevel(explicit)
	}
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		zerolog.SetGlobalLevel(lvl)
		return nil
	}
	if strings.TrimSpace(configured) != "" {
		return setLevel(configured)
	}
	return nil
}

// ValidLevel reports whether raw names a known level.
func ValidLevel(raw string) bool {
	_, ok := parseLevel(raw)
	return ok
}

func setLevel(raw string) error {
	lvl, ok := parseLevel(raw)
	if !ok {
		return fmt.Errorf("unknown log level: %q", raw)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

func defaultConfig(profile Profile) Config {
	cfg := Config{NoColor: !isatty.IsTerminal(os.Stderr.Fd())}
	switch profile {
	case ProfileTest:
		cfg.Level = zerolog.DebugLevel
		cfg.Timestamp = false
	default:
		cfg.Level = zerolog.InfoLevel
		cfg.Timestamp = true
	}
	return cfg
}

func apply(cfg Config, f *os.File) {
	zerolog.SetGlobalLevel(cfg.Level)

	var out io.Writer = f
	if !cfg.Bypass {
		out = zerolog.ConsoleWriter{
			Out:        colorable.NewColorable(f),
			NoColor:    cfg.NoColor,
			TimeFormat: time.RFC3339,
		}
	}
	ctx := zerolog.New(out).With().Str("app", "pngme")
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	log.Logger = ctx.Logger()
}

func applyEnvOverrides(cfg *Config) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	flags := map[string]*bool{
		EnvLogTimestamp: &cfg.Timestamp,
		EnvLogNoColor:   &cfg.NoColor,
		EnvLogBypass:    &cfg.Bypass,
	}
	for env, dst := range flags {
		// unset or malformed values keep the profile default
		if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(env))); err == nil {
			*dst = v
		}
	}
}

// parseLevel accepts zerolog level names plus a few aliases.
func parseLevel(raw string) (zerolog.Level, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	switch name {
	case "":
		return zerolog.NoLevel, false
	case "diagnostics":
		name = "trace"
	case "warning":
		name = "warn"
	case "disable", "off", "none", "inactive":
		name = "disabled"
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, false
	}
	return lvl, true
}
