package config

import (
	"os"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify defaults
	if cfg.Paths.GeneratedDir != "scripts/DBC/generated" {
		t.Errorf("Paths.GeneratedDir = %q, want %q", cfg.Paths.GeneratedDir, "scripts/DBC/generated")
	}
	if cfg.Paths.ParsedDir != "scripts/DBC/parsed" {
		t.Errorf("Paths.ParsedDir = %q, want %q", cfg.Paths.ParsedDir, "scripts/DBC/parsed")
	}
	if cfg.Paths.AddonDir != "HeroDBC/DBC" {
		t.Errorf("Paths.AddonDir = %q, want %q", cfg.Paths.AddonDir, "HeroDBC/DBC")
	}
	if cfg.Parse.Workers != 8 {
		t.Errorf("Parse.Workers = %d, want %d", cfg.Parse.Workers, 8)
	}
	if cfg.Parse.ChunkSize != 500 {
		t.Errorf("Parse.ChunkSize = %d, want %d", cfg.Parse.ChunkSize, 500)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("DBC_GENERATED_DIR", "/data/generated")
	os.Setenv("PARSE_WORKERS", "4")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("DBC_GENERATED_DIR")
		os.Unsetenv("PARSE_WORKERS")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Paths.GeneratedDir != "/data/generated" {
		t.Errorf("Paths.GeneratedDir = %q, want %q", cfg.Paths.GeneratedDir, "/data/generated")
	}
	if cfg.Parse.Workers != 4 {
		t.Errorf("Parse.Workers = %d, want %d", cfg.Parse.Workers, 4)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	// Test that UNITS works as fallback for PARSE_UNITS
	os.Setenv("UNITS", "rppm,gcd")
	defer os.Unsetenv("UNITS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"rppm", "gcd"}
	if len(cfg.Parse.Units) != len(expected) {
		t.Fatalf("Parse.Units length = %d, want %d", len(cfg.Parse.Units), len(expected))
	}
	for i, v := range expected {
		if cfg.Parse.Units[i] != v {
			t.Errorf("Parse.Units[%d] = %q, want %q", i, cfg.Parse.Units[i], v)
		}
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	os.Setenv("PARSE_UNITS", "talents, rppm , duration")
	defer os.Unsetenv("PARSE_UNITS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"talents", "rppm", "duration"}
	if len(cfg.Parse.Units) != len(expected) {
		t.Fatalf("Parse.Units length = %d, want %d", len(cfg.Parse.Units), len(expected))
	}
	for i, v := range expected {
		if cfg.Parse.Units[i] != v {
			t.Errorf("Parse.Units[%d] = %q, want %q", i, cfg.Parse.Units[i], v)
		}
	}
}

func TestLoad_InvalidInteger(t *testing.T) {
	os.Setenv("PARSE_WORKERS", "many")
	defer os.Unsetenv("PARSE_WORKERS")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for non-numeric PARSE_WORKERS")
	}
}

func TestValidate_NonPositiveWorkers(t *testing.T) {
	cfg := &Config{
		Paths:   PathsConfig{GeneratedDir: "g", ParsedDir: "p", AddonDir: "a", AddonDevDir: "d"},
		Parse:   ParseConfig{Workers: 0, ChunkSize: 500, LuaBatchSize: 500},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for zero workers")
	}
	if !strings.Contains(err.Error(), "PARSE_WORKERS") {
		t.Errorf("error should mention PARSE_WORKERS: %v", err)
	}
}

func TestValidate_EmptyPath(t *testing.T) {
	cfg := &Config{
		Paths:   PathsConfig{GeneratedDir: "", ParsedDir: "p", AddonDir: "a", AddonDevDir: "d"},
		Parse:   ParseConfig{Workers: 8, ChunkSize: 500, LuaBatchSize: 500},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for empty generated dir")
	}
	if !strings.Contains(err.Error(), "DBC_GENERATED_DIR") {
		t.Errorf("error should mention DBC_GENERATED_DIR: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := &Config{
		Paths:   PathsConfig{GeneratedDir: "g", ParsedDir: "p", AddonDir: "a", AddonDevDir: "d"},
		Parse:   ParseConfig{Workers: 8, ChunkSize: 500, LuaBatchSize: 500},
		Logging: LoggingConfig{Level: "verbose", Format: "text"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid log level")
	}
	if !strings.Contains(err.Error(), "LOG_LEVEL") {
		t.Errorf("error should mention LOG_LEVEL: %v", err)
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		Paths:   PathsConfig{GeneratedDir: "g", ParsedDir: "p", AddonDir: "a", AddonDevDir: "d"},
		Parse:   ParseConfig{Workers: 8, ChunkSize: 500, LuaBatchSize: 500},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
	str := cfg.String()
	if !strings.Contains(str, "Workers: 8") {
		t.Errorf("String() should report worker count: %s", str)
	}
	if !strings.Contains(str, `Level: "info"`) {
		t.Errorf("String() should report log level: %s", str)
	}
}
