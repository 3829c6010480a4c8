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

package text

import (
	"context"
	"io"
)

// ReplacementRule defines a single text replacement operation
type ReplacementRule struct {
	// Name identifies the rule in logs and reports
	Name string

	// FromText is a literal needle to replace
	FromText string

	// FromPattern is a regular expression to replace, mutually exclusive with FromText
	FromPattern string

	// NotAfter is a regexp character class body (e.g. `\w$`). A FromPattern match
	// directly preceded by a rune in the class is left alone.
	NotAfter string

	// ToText is the replacement text. For pattern rules $1 / ${name} are expanded.
	ToText string

	// FileFilterGlob restricts the rule to files matching the glob. Empty means every file.
	FileFilterGlob string
}

// RuleResult is the outcome of a single rule
type RuleResult struct {
	Name string

	// ReplacementCount is the number of matches replaced by this rule
	ReplacementCount int

	// AlreadyApplied is true when nothing matched but ToText is already in the content
	AlreadyApplied bool

	// Skipped is true when the file did not match FileFilterGlob
	Skipped bool
}

// Matched reports whether the rule changed the content or had already been applied
func (r RuleResult) Matched() bool {
	return r.ReplacementCount > 0 || r.AlreadyApplied
}

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the number of replacements made across all rules
	ReplacementCount int

	// Rules holds one entry per input rule, in order
	Rules []RuleResult

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies a set of replacement rules, in order, to the content read from r.
	// path is only used to evaluate each rule's FileFilterGlob.
	ReplaceText(ctx context.Context, path string, r io.Reader, rules []ReplacementRule) (*ReplacementResult, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []ReplacementRule) error
}
