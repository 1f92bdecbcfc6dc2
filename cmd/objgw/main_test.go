package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	originalEnv := os.Getenv("OBJGW_CONFIG")
	defer os.Setenv("OBJGW_CONFIG", originalEnv)

	os.Setenv("OBJGW_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_MissingStorePath verifies run fails when the store path is empty.
func TestRun_MissingStorePath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
store:
  path: ""

mqtt:
  enabled: false

influxdb:
  enabled: false

locale:
  language: en

logging:
  level: info
  format: text
  output: stdout

api:
  host: "127.0.0.1"
  port: 18087
  timeouts:
    read: 30
    write: 60
    idle: 120
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("OBJGW_CONFIG")
	defer os.Setenv("OBJGW_CONFIG", originalEnv)
	os.Setenv("OBJGW_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with empty store path")
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	originalEnv := os.Getenv("OBJGW_CONFIG")
	defer os.Setenv("OBJGW_CONFIG", originalEnv)

	os.Unsetenv("OBJGW_CONFIG")

	path := getConfigPath()
	if path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	originalEnv := os.Getenv("OBJGW_CONFIG")
	defer os.Setenv("OBJGW_CONFIG", originalEnv)

	expected := "/custom/path/config.yaml"
	os.Setenv("OBJGW_CONFIG", expected)

	path := getConfigPath()
	if path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

// TestHealthCheck_AllNil verifies health check passes when optional clients
// are disabled.
func TestHealthCheck_AllNil(t *testing.T) {
	if err := healthCheck(context.Background(), nil, nil); err != nil {
		t.Errorf("healthCheck(nil, nil) error = %v, want nil", err)
	}
}

// TestRun_StartupAndShutdown runs the gateway with all optional services
// disabled and verifies a clean shutdown on context cancellation.
func TestRun_StartupAndShutdown(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")
	storePath := filepath.Join(tmpDir, "test.db")

	configContent := `
store:
  path: "` + storePath + `"
  wal_mode: true
  busy_timeout: 5000

mqtt:
  enabled: false

influxdb:
  enabled: false

locale:
  language: en

logging:
  level: error
  format: text
  output: stdout

api:
  host: "127.0.0.1"
  port: 18088
  timeouts:
    read: 30
    write: 60
    idle: 120
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("OBJGW_CONFIG")
	defer os.Setenv("OBJGW_CONFIG", originalEnv)
	os.Setenv("OBJGW_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := run(ctx); err != nil {
		t.Errorf("run() error = %v, want clean shutdown", err)
	}
}
