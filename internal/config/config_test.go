package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"LISTEN_ADDR", "DATABASE_PATH", "WATCH_DIR", "DEBUG"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want :8080", cfg.ListenAddr)
	}
	if cfg.DatabasePath != "pokernow.db" {
		t.Errorf("DatabasePath = %q, want pokernow.db", cfg.DatabasePath)
	}
	if cfg.WatchDir != "imports" {
		t.Errorf("WatchDir = %q, want imports", cfg.WatchDir)
	}
	if cfg.Debug {
		t.Error("Debug should default to false")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("DATABASE_PATH", "/tmp/x.db")
	t.Setenv("WATCH_DIR", "/tmp/drop")
	t.Setenv("DEBUG", "true")

	cfg := Load()
	if cfg.ListenAddr != ":9999" || cfg.DatabasePath != "/tmp/x.db" || cfg.WatchDir != "/tmp/drop" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.Debug {
		t.Error("Debug should be enabled")
	}
}

func TestAsBool(t *testing.T) {
	for _, s := range []string{"1", "true", "YES", " on "} {
		if !asBool(s) {
			t.Errorf("asBool(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "0", "false", "off", "nope"} {
		if asBool(s) {
			t.Errorf("asBool(%q) = true, want false", s)
		}
	}
}
