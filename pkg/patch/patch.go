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

package patch

import (
	"bytes"
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/workerpatch/pkg/log"
	"github.com/walteh/workerpatch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📦 Options configures a Patcher
type Options struct {
	// Rules are applied after DefaultRules
	Rules []text.ReplacementRule

	// Strict fails the patch when an applicable rule neither matched nor was already applied
	Strict bool

	// Replacer defaults to text.NewPatternReplacer
	Replacer text.TextReplacer
}

// 🔧 Patcher applies the worker loading rules to a script
type Patcher struct {
	rules    []text.ReplacementRule
	strict   bool
	replacer text.TextReplacer
}

// 🏭 NewPatcher creates a Patcher and validates its rules
func NewPatcher(opts Options) (*Patcher, error) {
	replacer := opts.Replacer
	if replacer == nil {
		replacer = text.NewPatternReplacer()
	}

	rules := append(DefaultRules(), opts.Rules...)
	if err := replacer.ValidateRules(rules); err != nil {
		return nil, errors.Errorf("validating rules: %w", err)
	}

	return &Patcher{
		rules:    rules,
		strict:   opts.Strict,
		replacer: replacer,
	}, nil
}

// Rules returns the rules in application order
func (p *Patcher) Rules() []text.ReplacementRule {
	return append([]text.ReplacementRule(nil), p.rules...)
}

// 🔄 Transform applies every rule to content. path only scopes rules with a file filter.
func (p *Patcher) Transform(ctx context.Context, path string, content []byte) (*text.ReplacementResult, error) {
	result, err := p.replacer.ReplaceText(ctx, path, bytes.NewReader(content), p.rules)
	if err != nil {
		return nil, errors.Errorf("replacing text: %w", err)
	}

	if p.strict {
		var unmatched []string
		for _, r := range result.Rules {
			if !r.Skipped && !r.Matched() {
				unmatched = append(unmatched, r.Name)
			}
		}
		if len(unmatched) > 0 {
			return result, errors.WithStack(&UnmatchedRuleError{Path: path, Rules: unmatched})
		}
	}

	return result, nil
}

// 🎯 Patch reads inputPath, applies the rules and writes the result to outputPath.
// The output is created or truncated; its parent directory must exist.
func (p *Patcher) Patch(ctx context.Context, inputPath, outputPath string) (*text.ReplacementResult, error) {
	logger := zerolog.Ctx(ctx).With().Str("input", inputPath).Str("output", outputPath).Logger()

	content, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, errors.WithStack(&InputReadError{Path: inputPath, Err: err})
	}
	logger.Debug().Int("bytes", len(content)).Msg("read input")

	result, err := p.Transform(ctx, inputPath, content)
	if err != nil {
		return result, err
	}

	console := log.FromContext(ctx)
	for _, r := range result.Rules {
		if !r.Skipped && !r.Matched() {
			console.Warningf("rule %s matched nothing in %s", r.Name, inputPath)
		}
	}

	if err := os.WriteFile(outputPath, result.ModifiedContent, 0644); err != nil {
		return result, errors.WithStack(&OutputWriteError{Path: outputPath, Err: err})
	}

	logger.Debug().
		Int("bytes", len(result.ModifiedContent)).
		Int("replacements", result.ReplacementCount).
		Msg("wrote output")

	return result, nil
}

// Patch applies the default rules to inputPath and writes the result to outputPath
func Patch(ctx context.Context, inputPath, outputPath string) error {
	p, err := NewPatcher(Options{})
	if err != nil {
		return err
	}
	_, err = p.Patch(ctx, inputPath, outputPath)
	return err
}
