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
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/workerpatch/pkg/patch"
	"github.com/walteh/workerpatch/pkg/text"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:     "valid_yaml",
			filename: "rules.yaml",
			config: `
strict: true
rules:
  - name: locate
    old: locateFile(path)
    new: locateFile(path, prefix)
  - name: node-check
    pattern: 'ENVIRONMENT_IS_NODE\s*=\s*[^;]+;'
    new: ENVIRONMENT_IS_NODE = false;
    file: "*-simd.js"
`,
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Strict, "strict should be true")
				require.Len(t, cfg.Rules, 2, "should have 2 rules")
				assert.Equal(t, Rule{Name: "locate", Old: "locateFile(path)", New: "locateFile(path, prefix)"}, cfg.Rules[0])
				assert.Equal(t, `ENVIRONMENT_IS_NODE\s*=\s*[^;]+;`, cfg.Rules[1].Pattern, "pattern should match")
				assert.Equal(t, "*-simd.js", cfg.Rules[1].File, "file glob should match")
			},
		},
		{
			name:     "minimal_yml",
			filename: "rules.yml",
			config:   "strict: false\n",
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.Strict, "strict should be false")
				assert.Empty(t, cfg.Rules, "rules should be empty")
			},
		},
		{
			name:     "empty_yaml",
			filename: "rules.yaml",
			config:   "",
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.Strict, "strict should default to false")
				assert.Empty(t, cfg.Rules, "rules should be empty")
			},
		},
		{
			name:     "valid_json",
			filename: "rules.json",
			config:   `{"rules": [{"name": "a", "old": "foo", "new": "bar"}]}`,
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.Strict, "strict should default to false")
				require.Len(t, cfg.Rules, 1, "should have 1 rule")
				assert.Equal(t, Rule{Name: "a", Old: "foo", New: "bar"}, cfg.Rules[0])
			},
		},
		{
			name:     "valid_hcl",
			filename: "rules.hcl",
			config: `
strict = true

rule "guard-again" {
  old = "if(_scriptDir2)"
  new = builtin.script_dir_guard
}

rule "digits" {
  pattern = "foo\\d+"
  new     = "foo"
  file    = "*.js"
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Strict, "strict should be true")
				require.Len(t, cfg.Rules, 2, "should have 2 rules")
				assert.Equal(t, "guard-again", cfg.Rules[0].Name, "first rule name should match")
				assert.Equal(t, patch.ScriptDirGuardText, cfg.Rules[0].New, "builtin variable should resolve")
				assert.Equal(t, `foo\d+`, cfg.Rules[1].Pattern, "pattern should match")
				assert.Equal(t, "*.js", cfg.Rules[1].File, "file glob should match")
			},
		},
		{
			name:        "yaml_unknown_field",
			filename:    "rules.yaml",
			config:      "strcit: true\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "json_unknown_field",
			filename:    "rules.json",
			config:      `{"rulez": []}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:        "hcl_missing_new",
			filename:    "rules.hcl",
			config:      "rule \"a\" {\n  old = \"x\"\n}\n",
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name:        "missing_name",
			filename:    "rules.yaml",
			config:      "rules:\n  - old: a\n    new: b\n",
			wantErr:     true,
			errContains: "rules[0].name is required",
		},
		{
			name:        "missing_needle",
			filename:    "rules.yaml",
			config:      "rules:\n  - name: a\n    new: b\n",
			wantErr:     true,
			errContains: "one of old or pattern is required",
		},
		{
			name:        "both_needles",
			filename:    "rules.yaml",
			config:      "rules:\n  - name: a\n    old: a\n    pattern: a\n    new: b\n",
			wantErr:     true,
			errContains: "mutually exclusive",
		},
		{
			name:        "duplicate_name",
			filename:    "rules.yaml",
			config:      "rules:\n  - name: a\n    old: a\n    new: b\n  - name: a\n    old: c\n    new: d\n",
			wantErr:     true,
			errContains: "duplicate rule name",
		},
		{
			name:        "unknown_extension",
			filename:    "rules.txt",
			config:      "anything",
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	ctx := zerolog.New(os.Stderr).WithContext(context.Background())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create temporary config file
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, tt.filename)
			err := os.WriteFile(configPath, []byte(tt.config), 0644)
			require.NoError(t, err, "writing config file should succeed")

			// Load config
			cfg, err := Load(ctx, configPath)
			if tt.wantErr {
				require.Error(t, err, "Load should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}

			require.NoError(t, err, "Load should succeed")
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading rule file")
}

func TestReplacementRules(t *testing.T) {
	cfg := &Config{
		Rules: []Rule{
			{Name: "a", Old: "foo", New: "bar"},
			{Name: "b", Pattern: `x\d`, New: "y", File: "*.js"},
		},
	}

	want := []text.ReplacementRule{
		{Name: "a", FromText: "foo", ToText: "bar"},
		{Name: "b", FromPattern: `x\d`, ToText: "y", FileFilterGlob: "*.js"},
	}
	assert.Equal(t, want, cfg.ReplacementRules())
}

func TestConfigString(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
		want string
	}{
		{
			name: "strict",
			cfg:  &Config{Strict: true, Rules: []Rule{{Name: "a"}}},
			want: "1 extra rules (strict)",
		},
		{
			name: "empty",
			cfg:  &Config{},
			want: "0 extra rules (best-effort)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.String()
			assert.Equal(t, tt.want, got, "String() should match")
		})
	}
}
