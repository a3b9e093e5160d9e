package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ACCESS_SECRET_KEY", "access")
	t.Setenv("REFRESH_SECRET_KEY", "refresh")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Driver != "postgres" {
		t.Errorf("expected postgres driver by default, got %s", cfg.Database.Driver)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.App.RefreshTTL != 7*24*time.Hour {
		t.Errorf("expected 7 day refresh TTL, got %v", cfg.App.RefreshTTL)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("expected 2 default origins, got %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ACCESS_SECRET_KEY", "access")
	t.Setenv("REFRESH_SECRET_KEY", "refresh")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/crowdfund-test.db")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("ALLOWED_ORIGINS", "https://give.example.com, https://admin.example.com ,")
	t.Setenv("PUBLIC_URL", "https://give.example.com/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Driver != "sqlite" || cfg.Database.SQLitePath != "/tmp/crowdfund-test.db" {
		t.Errorf("unexpected database config %+v", cfg.Database)
	}
	if cfg.App.AccessTTL != 30*time.Minute {
		t.Errorf("expected 30m access TTL, got %v", cfg.App.AccessTTL)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://admin.example.com" {
		t.Errorf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Server.PublicURL != "https://give.example.com" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.Server.PublicURL)
	}
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("ACCESS_SECRET_KEY", "")
	t.Setenv("REFRESH_SECRET_KEY", "refresh")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error without ACCESS_SECRET_KEY")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("ACCESS_SECRET_KEY", "access")
	t.Setenv("REFRESH_SECRET_KEY", "refresh")
	t.Setenv("DB_DRIVER", "mysql")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an unsupported driver")
	}
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5432", User: "app", Password: "pw", DBName: "crowdfund", SSLMode: "disable",
	}}
	want := "host=db port=5432 user=app password=pw dbname=crowdfund sslmode=disable"
	if got := cfg.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}
