package logging

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":       zerolog.TraceLevel,
		"diagnostics": zerolog.TraceLevel,
		" DEBUG ":     zerolog.DebugLevel,
		"info":        zerolog.InfoLevel,
		"warning":     zerolog.WarnLevel,
		"error":       zerolog.ErrorLevel,
		"off":         zerolog.Disabled,
	}
	for raw, want := range cases {
		got, ok := parseLevel(raw)
		if !ok || got != want {
			t.Fatalf("parseLevel(%q) = %v,%v want %v", raw, got, ok, want)
		}
	}
	if _, ok := parseLevel("loud"); ok {
		t.Fatalf("expected unknown level to be rejected")
	}
	if _, ok := parseLevel(""); ok {
		t.Fatalf("expected empty level to be rejected")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvLogTimestamp, "true")
	t.Setenv(EnvLogNoColor, "1")
	t.Setenv(EnvLogBypass, "not-a-bool")

	cfg := defaultConfig(ProfileTest)
	applyEnvOverrides(&cfg)
	if cfg.Level != zerolog.WarnLevel {
		t.Fatalf("unexpected level: %v", cfg.Level)
	}
	if !cfg.Timestamp || !cfg.NoColor {
		t.Fatalf("expected timestamp and no-color overrides: %+v", cfg)
	}
	if cfg.Bypass {
		t.Fatalf("invalid bool must not override bypass")
	}
}

func TestDefaultProfiles(t *testing.T) {
	if cfg := defaultConfig(ProfileRuntime); cfg.Level != zerolog.InfoLevel || !cfg.Timestamp {
		t.Fatalf("unexpected runtime profile: %+v", cfg)
	}
	if cfg := defaultConfig(ProfileTest); cfg.Level != zerolog.DebugLevel || cfg.Timestamp {
		t.Fatalf("unexpected test profile: %+v", cfg)
	}
}

func keepGlobalLevel(t *testing.T) {
	t.Helper()
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })
}

func TestOverridePrecedence(t *testing.T) {
	keepGlobalLevel(t)

	t.Setenv(EnvLogLevel, "debug")
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if err := Override("", "error"); err != nil {
		t.Fatalf("override: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Fatalf("env level must beat configured level, got %v", zerolog.GlobalLevel())
	}

	if err := Override("trace", "error"); err != nil {
		t.Fatalf("override: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.TraceLevel {
		t.Fatalf("explicit level must beat env level, got %v", zerolog.GlobalLevel())
	}

	t.Setenv(EnvLogLevel, "")
	if err := Override("", "error"); err != nil {
		t.Fatalf("override: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.ErrorLevel {
		t.Fatalf("configured level must apply without env, got %v", zerolog.GlobalLevel())
	}

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if err := Override("", ""); err != nil {
		t.Fatalf("override: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Fatalf("profile level must stand when nothing is set, got %v", zerolog.GlobalLevel())
	}

	if err := Override("shouty", ""); err == nil {
		t.Fatalf("expected unknown explicit level error")
	}
	if err := Override("", "shouty"); err == nil {
		t.Fatalf("expected unknown configured level error")
	}
}

func TestApplyWritesFilteredJSON(t *testing.T) {
	keepGlobalLevel(t)
	prevLogger := log.Logger
	t.Cleanup(func() { log.Logger = prevLogger })

	f, err := os.CreateTemp(t.TempDir(), "log")
	if err != nil {
		t.Fatalf("create temp: %v", err)
	}
	defer f.Close()

	apply(Config{Level: zerolog.WarnLevel, Bypass: true}, f)
	log.Info().Msg("dropped")
	log.Warn().Str("type", "ruSt").Msg("kept")

	out, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", string(out))
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("bypass output is not json: %v", err)
	}
	if entry["app"] != "pngme" || entry["level"] != "warn" || entry["message"] != "kept" || entry["type"] != "ruSt" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["time"]; ok {
		t.Fatalf("timestamp written with Timestamp=false: %v", entry)
	}
}

func TestApplyConsoleFormat(t *testing.T) {
	keepGlobalLevel(t)
	prevLogger := log.Logger
	t.Cleanup(func() { log.Logger = prevLogger })

	f, err := os.CreateTemp(t.TempDir(), "log")
	if err != nil {
		t.Fatalf("create temp: %v", err)
	}
	defer f.Close()

	apply(Config{Level: zerolog.InfoLevel, NoColor: true}, f)
	log.Info().Msg("console line")

	out, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "INF") || !strings.Contains(s, "console line") || !strings.Contains(s, "app=pngme") {
		t.Fatalf("unexpected console output: %q", s)
	}
	if strings.HasPrefix(strings.TrimSpace(s), "{") {
		t.Fatalf("console writer emitted json: %q", s)
	}
}
