package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
}

func TestConfig_ValidateRejects(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"empty output dir", func(c *Config) { c.Run.OutputDir = "" }},
		{"zero eval tasks", func(c *Config) { c.Run.EvalTasks = 0 }},
		{"zero arrival rate", func(c *Config) { c.Run.ArrivalRate = 0 }},
		{"no policies", func(c *Config) { c.Run.Policies = nil }},
		{"unknown policy", func(c *Config) { c.Run.Policies = []string{"oracle"} }},
		{"empty database path", func(c *Config) { c.Storage.DatabasePath = "" }},
		{"s3 without bucket", func(c *Config) { c.Storage.S3.Enabled = true; c.Storage.S3.Bucket = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"bad training", func(c *Config) { c.Training.Episodes = 0 }},
	}

	for _, tc := range testCases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("Expected validation error for %s, got nil", tc.name)
		}
	}
}

func TestServerConfig_Addr(t *testing.T) {
	server := ServerConfig{Host: "127.0.0.1", Port: 9090}
	if addr := server.Addr(); addr != "127.0.0.1:9090" {
		t.Errorf("Expected 127.0.0.1:9090, got %s", addr)
	}
}

func TestLogConfig_NewLogger(t *testing.T) {
	logger := LogConfig{Level: "debug"}.NewLogger("test")
	if logger == nil {
		t.Fatal("NewLogger() returned nil")
	}
	if !logger.IsDebug() {
		t.Error("Expected debug level to be enabled")
	}

	quiet := LogConfig{Level: "error"}.NewLogger("test")
	if quiet.IsInfo() {
		t.Error("Expected info level to be disabled at error level")
	}
}

func TestLogConfig_NewLoggerFileTee(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log", "run.log")
	logger := LogConfig{Level: "info", File: path}.NewLogger("test")

	logger.Info("tee check")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected log file to exist, got %v", err)
	}
	if !strings.Contains(string(data), "tee check") {
		t.Errorf("Expected log file to contain the message, got %q", string(data))
	}
}

func TestLogConfig_NewLoggerBadFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	// Parent resolves to a regular file, so the sink cannot open
	logger := LogConfig{Level: "info", File: filepath.Join(blocker, "run.log")}.NewLogger("test")
	if logger == nil {
		t.Fatal("NewLogger() returned nil")
	}
	logger.Info("still usable")
}
