package shared_test

import (
	"strings"
	"testing"
	"time"

	"siam_tours/internal/shared"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := shared.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.TranslationsTTL != 5*time.Minute {
		t.Fatalf("expected 5m translation ttl, got %s", c.TranslationsTTL)
	}
	if c.EURRate != 37.6 {
		t.Fatalf("expected rate 37.6, got %v", c.EURRate)
	}
	if c.DBDriver != "pgx" {
		t.Fatalf("expected pgx driver, got %s", c.DBDriver)
	}
	if len(c.AdminEmails) == 0 {
		t.Fatalf("expected a default admin allow-list")
	}
	if c.RedisEnabled() {
		t.Fatalf("redis should be disabled without REDIS_ADDR")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", "a@x.io,b@x.io")
	t.Setenv("TRANSLATIONS_TTL", "30s")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	c, err := shared.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.AdminEmails) != 2 || c.AdminEmails[1] != "b@x.io" {
		t.Fatalf("unexpected allow-list: %v", c.AdminEmails)
	}
	if c.TranslationsTTL != 30*time.Second {
		t.Fatalf("unexpected ttl: %s", c.TranslationsTTL)
	}
	if !c.RedisEnabled() {
		t.Fatalf("redis should be enabled")
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	if _, err := shared.Load(); err == nil || !strings.Contains(err.Error(), "DB_DRIVER") {
		t.Fatalf("expected DB_DRIVER error, got %v", err)
	}

	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("TRANSLATIONS_TTL", "soon")
	if _, err := shared.Load(); err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}
