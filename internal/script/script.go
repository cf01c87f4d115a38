// Package script runs YAML scenarios against an item registry and narrates
// each step to a writer. Every scenario starts from an empty registry.
package script

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/storeroom/pkg/types"
)

//go:embed demo.yaml
var demoYAML []byte

// Step operations.
const (
	OpAdd    = "add"
	OpFind   = "find"
	OpRemove = "remove"
	OpList   = "list"
)

// Step outcomes accepted in Step.Expect.
const (
	ExpectOK           = "ok"
	ExpectDuplicateKey = "duplicate_key"
	ExpectNotFound     = "not_found"
	ExpectInvalidID    = "invalid_id"
)

var validOps = map[string]bool{OpAdd: true, OpFind: true, OpRemove: true, OpList: true}

var validExpects = map[string]bool{
	"":                 true,
	ExpectOK:           true,
	ExpectDuplicateKey: true,
	ExpectNotFound:     true,
	ExpectInvalidID:    true,
}

// Script is a named set of scenarios.
type Script struct {
	Name      string     `yaml:"name"`
	Scenarios []Scenario `yaml:"scenarios"`
}

// Scenario seeds a fresh registry with Items and then runs Steps in order.
type Scenario struct {
	Name  string             `yaml:"name"`
	Items []types.ItemRecord `yaml:"items"`
	Steps []Step             `yaml:"steps"`
}

// Step is one registry call.
type Step struct {
	Op          string `yaml:"op"`
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
	Location    string `yaml:"location"`

	// Expect names the outcome the step must have. Empty means any outcome
	// is accepted and errors are only narrated.
	Expect string `yaml:"expect"`

	// Want is the expected description order for a list step.
	Want []string `yaml:"want"`

	// Say replaces the default heading line; Quiet suppresses it.
	Say   string `yaml:"say"`
	Quiet bool   `yaml:"quiet"`

	// ErrorPrefix replaces "Error: " in front of narrated errors.
	ErrorPrefix string `yaml:"error_prefix"`
}

// Parse decodes and validates a YAML script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseFile reads and parses the script at path.
func ParseFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return Parse(data)
}

// Demo returns the built-in demonstration script.
func Demo() (*Script, error) {
	return Parse(demoYAML)
}

// Validate checks step operations and expectations.
func (s *Script) Validate() error {
	if len(s.Scenarios) == 0 {
		return fmt.Errorf("script %q has no scenarios", s.Name)
	}
	for i, sc := range s.Scenarios {
		for j, st := range sc.Steps {
			if !validOps[st.Op] {
				return fmt.Errorf("scenario %d step %d: unknown op %q", i+1, j+1, st.Op)
			}
			if !validExpects[st.Expect] {
				return fmt.Errorf("scenario %d step %d: unknown expect %q", i+1, j+1, st.Expect)
			}
			if st.Want != nil && st.Op != OpList {
				return fmt.Errorf("scenario %d step %d: want is only valid for list", i+1, j+1)
			}
		}
	}
	return nil
}
