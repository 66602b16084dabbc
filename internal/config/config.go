package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/pngme/internal/chunk"
	"github.com/danmuck/pngme/internal/logging"
)

// Config holds tool settings. Keys absent from a file keep their defaults.
type Config struct {
	DefaultChunkType string
	MaxPayloadBytes  uint64
	// LogLevel is empty unless the file sets it, so the environment and
	// logging profile keep control of the level.
	LogLevel string
}

type fileConfig struct {
	DefaultChunkType string `toml:"default_chunk_type"`
	MaxPayloadBytes  int64  `toml:"max_payload_bytes"`
	LogLevel         string `toml:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		DefaultChunkType: "ruSt",
		MaxPayloadBytes:  chunk.DefaultLimits().MaxPayloadBytes,
	}
}

// Limits converts the config to chunk stream limits.
func (c Config) Limits() chunk.Limits {
	return chunk.Limits{MaxPayloadBytes: c.MaxPayloadBytes}
}

// Load reads path and applies every defined key on top of DefaultConfig.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("default_chunk_type") {
		cfg.DefaultChunkType = strings.TrimSpace(raw.DefaultChunkType)
	}
	if meta.IsDefined("max_payload_bytes") {
		if raw.MaxPayloadBytes < 0 {
			return Config{}, fmt.Errorf("config parse failed (%s): max_payload_bytes must not be negative", path)
		}
		cfg.MaxPayloadBytes = uint64(raw.MaxPayloadBytes)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
		if cfg.LogLevel == "" {
			return Config{}, fmt.Errorf("config parse failed (%s): log_level is empty", path)
		}
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	typ, err := chunk.ParseType(cfg.DefaultChunkType)
	if err != nil {
		return fmt.Errorf("default_chunk_type: %w", err)
	}
	if !typ.IsValid() {
		return fmt.Errorf("default_chunk_type %q: %w", cfg.DefaultChunkType, chunk.ErrInvalidTag)
	}
	if cfg.MaxPayloadBytes == 0 {
		return fmt.Errorf("max_payload_bytes must be positive")
	}
	if cfg.MaxPayloadBytes > chunk.MaxPayloadLen {
		return fmt.Errorf("max_payload_bytes exceeds %d", uint64(chunk.MaxPayloadLen))
	}
	if cfg.LogLevel != "" && !logging.ValidLevel(cfg.LogLevel) {
		return fmt.Errorf("log_level: unknown level %q", cfg.LogLevel)
	}
	return nil
}
