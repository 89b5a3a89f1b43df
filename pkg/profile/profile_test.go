package profile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	prof, err := Parse([]byte("name: helper\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if prof.Name != "helper" {
		t.Fatalf("name = %q", prof.Name)
	}
	if prof.Model != DefaultModel {
		t.Fatalf("model should default, got %q", prof.Model)
	}
	if prof.Instructions == "" {
		t.Fatalf("instructions should default")
	}
	if prof.ContextTokenBudget != DefaultContextTokenBudget {
		t.Fatalf("budget = %d", prof.ContextTokenBudget)
	}
}

func TestParseFull(t *testing.T) {
	data := []byte(`
name: researcher
model: gpt-4o-mini
instructions: Answer with citations.
context_token_budget: 2000
enabled_tools:
  - record_fact
  - navigate_to_url
`)
	prof, err := Parse(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if prof.Model != "gpt-4o-mini" {
		t.Fatalf("model = %q", prof.Model)
	}
	if prof.ContextTokenBudget != 2000 {
		t.Fatalf("budget = %d", prof.ContextTokenBudget)
	}
	if !prof.ToolEnabled("record_fact") || prof.ToolEnabled("switch_theme") {
		t.Fatalf("tool filter broken: %v", prof.EnabledTools)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("model: [broken")); err == nil {
		t.Fatalf("invalid yaml should fail")
	}
}

func TestLoadEmptyPath(t *testing.T) {
	prof, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if prof.Model != DefaultModel {
		t.Fatalf("empty path should give defaults")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte("model: gpt-4o-mini\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	prof, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if prof.Model != "gpt-4o-mini" {
		t.Fatalf("model = %q", prof.Model)
	}
}

func TestToolEnabledEmptyAllowsAll(t *testing.T) {
	prof := Default()
	if !prof.ToolEnabled("anything") {
		t.Fatalf("empty enabled list should allow every tool")
	}
}
