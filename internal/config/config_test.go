package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"DATABASE_URL", "SESSION_SECRET", "HTTP_ADDR", "ENV", "PUBLIC_BASE_URL"} {
		t.Setenv(k, "")
	}
	t.Setenv("TZ", "Europe/Sofia")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabaseURL != defaultDatabaseURL || cfg.SessionSecret != defaultSessionSecret {
		t.Fatalf("ожидали значения по умолчанию, получили %q / %q", cfg.DatabaseURL, cfg.SessionSecret)
	}
	if cfg.HTTPAddr != ":8080" || cfg.Prod() {
		t.Fatalf("неожиданные значения: %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://x/y")
	t.Setenv("ENV", "PROD")
	t.Setenv("PUBLIC_BASE_URL", "https://ediary.example/")
	t.Setenv("TZ", "Nowhere/City")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabaseURL != "postgres://x/y" || !cfg.Prod() {
		t.Fatalf("переопределения не применились: %+v", cfg)
	}
	if cfg.PublicBaseURL != "https://ediary.example" {
		t.Fatalf("хвостовой слэш должен срезаться, получили %q", cfg.PublicBaseURL)
	}
	if cfg.Location != time.Local {
		t.Fatal("при кривом TZ ожидали time.Local")
	}
}
