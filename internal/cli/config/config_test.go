package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setTestHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestSaveTokenCreatesConfig(t *testing.T) {
	home := setTestHome(t)

	if err := SaveToken("kgv_test_token_1"); err != nil {
		t.Fatalf("SaveToken() error = %v", err)
	}

	path := filepath.Join(home, ".config", "kafgov", "config.yaml")
	if GetConfigPath() != path {
		t.Fatalf("GetConfigPath() = %q, want %q", GetConfigPath(), path)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file mode = %o, want 0600", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	if !strings.Contains(string(data), "token: kgv_test_token_1") {
		t.Errorf("config missing token:\n%s", data)
	}
}

func TestSaveTokenPreservesOtherSettings(t *testing.T) {
	home := setTestHome(t)

	dir := filepath.Join(home, ".config", "kafgov")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	existing := "api-server: https://gov.example.com\ncluster: kc-main\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(existing), 0600); err != nil {
		t.Fatalf("failed to seed config: %v", err)
	}

	if err := SaveToken("kgv_new_token"); err != nil {
		t.Fatalf("SaveToken() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	for _, want := range []string{"api-server: https://gov.example.com", "cluster: kc-main", "token: kgv_new_token"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("config missing %q:\n%s", want, data)
		}
	}
}

func TestClearToken(t *testing.T) {
	setTestHome(t)

	// Clearing with no config file at all is fine.
	if err := ClearToken(); err != nil {
		t.Fatalf("ClearToken() on missing config error = %v", err)
	}

	if err := SaveToken("kgv_goner"); err != nil {
		t.Fatalf("SaveToken() error = %v", err)
	}
	if err := ClearToken(); err != nil {
		t.Fatalf("ClearToken() error = %v", err)
	}

	data, err := os.ReadFile(GetConfigPath())
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	if strings.Contains(string(data), "kgv_goner") {
		t.Errorf("token still present after clear:\n%s", data)
	}
}
