package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeCue(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(cfg.SkipWords, DefaultSkipWords) {
		t.Fatalf("got %v", cfg.SkipWords)
	}
	if cfg.CollisionScope != "adjacent" {
		t.Fatalf("got %q", cfg.CollisionScope)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeCue(t, "pochi.cue", `
skip_words: ["de", "la"]
collision_scope: "global"
sample: true
db: "/tmp/formulas.db"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(cfg.SkipWords, []string{"de", "la"}) {
		t.Fatalf("got %v", cfg.SkipWords)
	}
	if cfg.CollisionScope != "global" {
		t.Fatalf("got %q", cfg.CollisionScope)
	}
	if !cfg.Sample {
		t.Fatal("expected sample")
	}
	if cfg.DB != "/tmp/formulas.db" {
		t.Fatalf("got %q", cfg.DB)
	}
	// untouched fields keep defaults
	if !cfg.StrictSanitize {
		t.Fatal("expected strict_sanitize default")
	}
}

func TestLoadFirstFileWins(t *testing.T) {
	first := writeCue(t, "a.cue", `db: "a.db"`)
	second := writeCue(t, "b.cue", `db: "b.db"
log_level: "debug"`)
	cfg, err := Load(first, second)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DB != "a.db" {
		t.Fatalf("got %q", cfg.DB)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("got %q", cfg.LogLevel)
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	path := writeCue(t, "bad.cue", `colour: "blue"`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected schema error")
	}
}

func TestLoadRejectsBadScope(t *testing.T) {
	path := writeCue(t, "bad.cue", `collision_scope: "sometimes"`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected schema error")
	}
}

func TestAssignFirstNotFound(t *testing.T) {
	loader := NewLoader([]string{writeCue(t, "c.cue", `db: "x"`)}, Schema)
	var s string
	if err := loader.AssignFirst("log_level", &s); !errors.Is(err, ErrValueNotFound) {
		t.Fatalf("got %v", err)
	}
}
