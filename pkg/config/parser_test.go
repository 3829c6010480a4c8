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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 🧪 TestParserRegistration tests the parser registration system
func TestParserRegistration(t *testing.T) {
	// Save original parsers
	originalParsers := parsers
	defer func() {
		parsers = originalParsers
	}()

	// Reset parsers
	parsers = nil

	// Create mock parser
	mockParser := &struct {
		Parser
		canParse bool
	}{
		canParse: true,
	}

	// Test registration
	Register(mockParser)
	assert.Len(t, parsers, 1, "should have 1 parser registered")
	assert.Equal(t, mockParser, parsers[0], "registered parser should match")
}

// 🧪 TestParserSelection tests parser selection by file extension
func TestParserSelection(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Parser
	}{
		{
			name:     "yaml_file",
			filename: "config.yaml",
			want:     &YAMLParser{},
		},
		{
			name:     "yml_file",
			filename: "config.yml",
			want:     &YAMLParser{},
		},
		{
			name:     "uppercase_yaml",
			filename: "RULES.YAML",
			want:     &YAMLParser{},
		},
		{
			name:     "json_file",
			filename: "rules.json",
			want:     &JSONParser{},
		},
		{
			name:     "hcl_file",
			filename: "config.hcl",
			want:     &HCLParser{},
		},
		{
			name:     "unknown_extension",
			filename: "config.txt",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetParser(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got, "should return nil for unknown extension")
				return
			}
			require.NotNil(t, got, "should return a parser")
			assert.IsType(t, tt.want, got, "should return correct parser type")
		})
	}
}

// 🧪 TestHCLParsing tests HCL config parsing
func TestHCLParsing(t *testing.T) {
	tests := []struct {
		name        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "functions_unavailable",
			config: `
rule "worker" {
  old = "new Worker(mainJs)"
  new = replace(builtin.worker_eval, "pthreadMainJs", "mainJs")
}
`,
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name: "builtin_reference",
			config: `
rule "worker" {
  old = "new Worker(pthreadMainJs )"
  new = builtin.worker_eval
}
`,
			check: func(t *testing.T, cfg *Config) {
				require.Len(t, cfg.Rules, 1)
				assert.Equal(t, "new Worker(pthreadMainJs, { eval: true })", cfg.Rules[0].New)
				assert.False(t, cfg.Strict)
			},
		},
		{
			name: "invalid_hcl_syntax",
			config: `
rule "a" {
  old =
}`,
			wantErr:     true,
			errContains: "parsing HCL",
		},
		{
			name: "invalid_block_type",
			config: `
unknown_block {
  foo = "bar"
}`,
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name: "missing_label",
			config: `
rule {
  old = "a"
  new = "b"
}`,
			wantErr:     true,
			errContains: "decoding HCL",
		},
	}

	parser := &HCLParser{}
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parser.Parse(ctx, "worker.hcl", []byte(tt.config))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestParseErrorsNameTheFile(t *testing.T) {
	tests := []struct {
		name         string
		parser       Parser
		filename     string
		config       string
		wantContains []string
	}{
		{
			name:         "hcl_syntax",
			parser:       &HCLParser{},
			filename:     "build/worker-rules.hcl",
			config:       "rule \"a\" {\n  old =\n}\n",
			wantContains: []string{"parsing HCL", "build/worker-rules.hcl:"},
		},
		{
			name:         "yaml_syntax",
			parser:       &YAMLParser{},
			filename:     "build/worker-rules.yaml",
			config:       "rules: [\n",
			wantContains: []string{"parsing YAML build/worker-rules.yaml"},
		},
		{
			name:         "json_syntax",
			parser:       &JSONParser{},
			filename:     "build/worker-rules.json",
			config:       `{"strict": tru}`,
			wantContains: []string{"parsing JSON build/worker-rules.json at offset"},
		},
		{
			name:         "json_trailing_data",
			parser:       &JSONParser{},
			filename:     "build/worker-rules.json",
			config:       `{"strict": true} {"strict": false}`,
			wantContains: []string{"build/worker-rules.json", "unexpected data after the top-level object"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.parser.Parse(context.Background(), tt.filename, []byte(tt.config))
			require.Error(t, err)
			for _, want := range tt.wantContains {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestYAMLParser_Empty(t *testing.T) {
	for _, data := range []string{"", "\n"} {
		cfg, err := (&YAMLParser{}).Parse(context.Background(), "rules.yaml", []byte(data))
		require.NoError(t, err, "input %q", data)
		assert.Equal(t, &Config{}, cfg)
	}
}
