// Package profile defines the assistant profile: which model runs the
// conversation, its standing instructions, and which tools it may use.
package profile

import (
	"fmt"
	"os"

	"go.mau.fi/util/ptr"
	"gopkg.in/yaml.v3"
)

const (
	DefaultModel              = "gpt-4o"
	DefaultContextTokenBudget = 4000
)

const defaultInstructions = "You are a helpful assistant embedded in a desktop application. " +
	"Answer concisely. Use the available tools when they apply instead of describing what the user should do."

// Profile configures one assistant persona.
type Profile struct {
	Name               string   `yaml:"name"`
	Model              string   `yaml:"model"`
	Instructions       string   `yaml:"instructions"`
	ContextTokenBudget int      `yaml:"context_token_budget"`
	EnabledTools       []string `yaml:"enabled_tools"`
}

type rawProfile struct {
	Name               string   `yaml:"name"`
	Model              *string  `yaml:"model"`
	Instructions       *string  `yaml:"instructions"`
	ContextTokenBudget *int     `yaml:"context_token_budget"`
	EnabledTools       []string `yaml:"enabled_tools"`
}

// Default returns the built-in profile used when no file is given.
func Default() *Profile {
	return &Profile{
		Name:               "assistant",
		Model:              DefaultModel,
		Instructions:       defaultInstructions,
		ContextTokenBudget: DefaultContextTokenBudget,
	}
}

// Load reads a profile from a YAML file, filling in defaults for
// omitted fields. An empty path returns Default.
func Load(path string) (*Profile, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML profile data.
func Parse(data []byte) (*Profile, error) {
	var raw rawProfile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	prof := &Profile{
		Name:               raw.Name,
		Model:              ptr.Val(raw.Model),
		Instructions:       ptr.Val(raw.Instructions),
		ContextTokenBudget: ptr.Val(raw.ContextTokenBudget),
		EnabledTools:       raw.EnabledTools,
	}
	if prof.Name == "" {
		prof.Name = "assistant"
	}
	if prof.Model == "" {
		prof.Model = DefaultModel
	}
	if prof.Instructions == "" {
		prof.Instructions = defaultInstructions
	}
	if prof.ContextTokenBudget <= 0 {
		prof.ContextTokenBudget = DefaultContextTokenBudget
	}
	return prof, nil
}

// ToolEnabled reports whether the profile allows the named tool. An
// empty EnabledTools list allows everything.
func (p *Profile) ToolEnabled(name string) bool {
	if len(p.EnabledTools) == 0 {
		return true
	}
	for _, t := range p.EnabledTools {
		if t == name {
			return true
		}
	}
	return false
}
