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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	ruleIndent  = 4  // spaces to indent rule entries
	nameWidth   = 20 // Base width for rule name
	countWidth  = 6  // Width for replacement count
	statusWidth = 16 // Width for status text
)

// 🎯 RuleOperation represents the outcome of one rule for logging
type RuleOperation struct {
	Name           string // Rule name
	Replacements   int    // Number of replacements made
	AlreadyApplied bool   // Nothing matched but the replacement text is present
	Skipped        bool   // The rule's file filter excluded the input
}

// 📦 PatchOperation represents a patched script for logging
type PatchOperation struct {
	Input  string          // Input script path
	Output string          // Output script path
	Rules  []RuleOperation // Rule outcomes, in application order
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = console
		w.NoColor = color.NoColor
	})).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a logger that discards everything
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return New(io.Discard, zerolog.Disabled)
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatRuleOperation formats a rule outcome for display
func (l *Logger) formatRuleOperation(op RuleOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	var status string
	switch {
	case op.Skipped:
		symbol = '⏭'
		symbolColor = color.Faint
		status = "skipped"
	case op.Replacements > 0:
		symbol = '✓'
		symbolColor = color.FgGreen
		status = "patched"
	case op.AlreadyApplied:
		symbol = '•'
		symbolColor = color.FgCyan
		status = "already patched"
	default:
		symbol = '-'
		symbolColor = color.FgYellow
		status = "no match"
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", ruleIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Name),
		color.New(color.FgBlue).Sprint(fmt.Sprintf("%*d", countWidth, op.Replacements)),
		fmt.Sprintf("%-*s", statusWidth, status))
}

// 📝 LogPatch logs the rule outcomes of a patched script
func (l *Logger) LogPatch(ctx context.Context, op PatchOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "[patching %s]\n", color.New(color.FgCyan).Sprint(op.Input))
	fmt.Fprintf(l.console, "%s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Output))

	total := 0
	for _, r := range op.Rules {
		fmt.Fprintln(l.console, l.formatRuleOperation(r))
		total += r.Replacements

		l.zlog.Debug().
			Str("rule", r.Name).
			Int("replacements", r.Replacements).
			Bool("already_applied", r.AlreadyApplied).
			Bool("skipped", r.Skipped).
			Msg("rule operation")
	}

	l.zlog.Info().
		Str("input", op.Input).
		Str("output", op.Output).
		Int("rules", len(op.Rules)).
		Int("replacements", total).
		Msg("patch operation complete")
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	nameText := color.New(color.Bold, color.FgCyan).Sprint("workerpatch")
	fmt.Fprintf(l.console, "\n%s %s\n\n", nameText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
