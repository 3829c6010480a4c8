// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/workerpatch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes. filename is only used in diagnostics.
	Parse(ctx context.Context, filename string, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 Rule is a replacement applied after the built-in rules
type Rule struct {
	Name    string `json:"name" yaml:"name"`
	Old     string `json:"old,omitempty" yaml:"old,omitempty"`         // Literal text to replace
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"` // Regular expression to replace
	New     string `json:"new" yaml:"new"`                             // Replacement text
	File    string `json:"file,omitempty" yaml:"file,omitempty"`       // Optional glob the input path must match
}

// 📚 Config represents a rule file
type Config struct {
	Strict bool   `json:"strict,omitempty" yaml:"strict,omitempty"`
	Rules  []Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading rule file")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading rule file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, path, data)
	if err != nil {
		return nil, errors.Errorf("parsing rule file: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating rule file: %w", err)
	}

	logger.Debug().Int("rules", len(cfg.Rules)).Bool("strict", cfg.Strict).Msg("loaded rule file")

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	seen := make(map[string]bool, len(cfg.Rules))
	for i, r := range cfg.Rules {
		if r.Name == "" {
			return errors.Errorf("rules[%d].name is required", i)
		}
		if seen[r.Name] {
			return errors.Errorf("rules[%d]: duplicate rule name %q", i, r.Name)
		}
		seen[r.Name] = true

		if r.Old == "" && r.Pattern == "" {
			return errors.Errorf("rules[%d] (%s): one of old or pattern is required", i, r.Name)
		}
		if r.Old != "" && r.Pattern != "" {
			return errors.Errorf("rules[%d] (%s): old and pattern are mutually exclusive", i, r.Name)
		}
	}
	return nil
}

// ReplacementRules converts the rules for the text replacer
func (cfg *Config) ReplacementRules() []text.ReplacementRule {
	out := make([]text.ReplacementRule, 0, len(cfg.Rules))
	for _, r := range cfg.Rules {
		out = append(out, r.ReplacementRule())
	}
	return out
}

// ReplacementRule converts the rule for the text replacer
func (r Rule) ReplacementRule() text.ReplacementRule {
	return text.ReplacementRule{
		Name:           r.Name,
		FromText:       r.Old,
		FromPattern:    r.Pattern,
		ToText:         r.New,
		FileFilterGlob: r.File,
	}
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	mode := "best-effort"
	if cfg.Strict {
		mode = "strict"
	}
	return fmt.Sprintf("%d extra rules (%s)", len(cfg.Rules), mode)
}
