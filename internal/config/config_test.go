package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaultsAndEnvPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  port: "9090"
smtp:
  host: smtp.example.com
  port: 465
  username: quiz@example.com
  from: quiz@example.com
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SMTP_PASSWORD", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.Server.Port)
	}
	if cfg.Storage.QuizzesFile != "quizzes.json" || cfg.Storage.LeaderboardFile != "leaderboard.json" {
		t.Fatalf("expected default storage paths, got %+v", cfg.Storage)
	}
	if cfg.SMTP.Password != "from-env" {
		t.Fatalf("expected SMTP password from env, got %q", cfg.SMTP.Password)
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %s", got)
	}
	if got := TTLDuration("30s", time.Minute); got != 30*time.Second {
		t.Fatalf("expected 30s, got %s", got)
	}
	if got := TTLDuration("garbage", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback on bad input, got %s", got)
	}
}
