package text

import (
	"context"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// PatternReplacer implements TextReplacer for literal and regular expression rules
type PatternReplacer struct{}

// NewPatternReplacer creates a new PatternReplacer
func NewPatternReplacer() *PatternReplacer {
	return &PatternReplacer{}
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *PatternReplacer) ReplaceText(ctx context.Context, path string, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	if err := r.ValidateRules(rules); err != nil {
		return nil, err
	}

	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		Rules:           make([]RuleResult, 0, len(rules)),
	}

	logger := zerolog.Ctx(ctx)
	current := string(originalContent)
	for _, rule := range rules {
		rr := RuleResult{Name: rule.Name}

		if !matchesFile(rule.FileFilterGlob, path) {
			rr.Skipped = true
			result.Rules = append(result.Rules, rr)
			logger.Debug().Str("rule", rule.Name).Str("glob", rule.FileFilterGlob).Str("path", path).Msg("rule skipped by file filter")
			continue
		}

		current, rr.ReplacementCount = applyRule(rule, current)
		if rr.ReplacementCount == 0 && rule.ToText != "" {
			rr.AlreadyApplied = strings.Contains(current, rule.ToText)
		}

		result.ReplacementCount += rr.ReplacementCount
		result.Rules = append(result.Rules, rr)

		logger.Debug().
			Str("rule", rule.Name).
			Int("replacements", rr.ReplacementCount).
			Bool("already_applied", rr.AlreadyApplied).
			Msg("applied rule")
	}

	result.ModifiedContent = []byte(current)
	result.WasModified = current != string(originalContent)
	return result, nil
}

// applyRule replaces every occurrence of the rule's needle and returns the match count
func applyRule(rule ReplacementRule, content string) (string, int) {
	if rule.FromText != "" {
		n := strings.Count(content, rule.FromText)
		if n == 0 {
			return content, 0
		}
		return strings.ReplaceAll(content, rule.FromText, rule.ToText), n
	}

	// already validated
	re := regexp.MustCompile(rule.FromPattern)
	var guard *regexp.Regexp
	if rule.NotAfter != "" {
		guard = regexp.MustCompile(notAfterClass(rule.NotAfter))
	}

	var b strings.Builder
	last, n := 0, 0
	for _, m := range re.FindAllStringSubmatchIndex(content, -1) {
		if guard != nil && m[0] > 0 {
			prev, _ := utf8.DecodeLastRuneInString(content[:m[0]])
			if guard.MatchString(string(prev)) {
				continue
			}
		}
		b.WriteString(content[last:m[0]])
		b.Write(re.ExpandString(nil, rule.ToText, content, m))
		last = m[1]
		n++
	}
	if n == 0 {
		return content, 0
	}
	b.WriteString(content[last:])
	return b.String(), n
}

func notAfterClass(class string) string {
	return "^[" + class + "]$"
}

// matchesFile reports whether path is selected by glob. A glob without a
// separator is matched against the base name.
func matchesFile(glob, path string) bool {
	if glob == "" {
		return true
	}
	target := filepath.ToSlash(path)
	if !strings.Contains(glob, "/") {
		target = filepath.Base(path)
	}
	ok, err := doublestar.Match(glob, target)
	return err == nil && ok
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *PatternReplacer) ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		switch {
		case rule.FromText == "" && rule.FromPattern == "":
			return errors.Errorf("rule %d (%s): from_text or from_pattern is required", i, rule.Name)
		case rule.FromText != "" && rule.FromPattern != "":
			return errors.Errorf("rule %d (%s): from_text and from_pattern are mutually exclusive", i, rule.Name)
		}
		if rule.FromPattern != "" {
			if _, err := regexp.Compile(rule.FromPattern); err != nil {
				return errors.Errorf("rule %d (%s): compiling from_pattern: %w", i, rule.Name, err)
			}
		}
		if rule.NotAfter != "" {
			if rule.FromPattern == "" {
				return errors.Errorf("rule %d (%s): not_after requires from_pattern", i, rule.Name)
			}
			if _, err := regexp.Compile(notAfterClass(rule.NotAfter)); err != nil {
				return errors.Errorf("rule %d (%s): compiling not_after: %w", i, rule.Name, err)
			}
		}
		if rule.FileFilterGlob != "" && !doublestar.ValidatePattern(rule.FileFilterGlob) {
			return errors.Errorf("rule %d (%s): invalid file_filter_glob %q", i, rule.Name, rule.FileFilterGlob)
		}
	}
	return nil
}
