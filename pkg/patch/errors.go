package patch

import (
	"fmt"
	"strings"
)

// InputReadError is returned when the input script cannot be read
type InputReadError struct {
	Path string
	Err  error
}

func (e *InputReadError) Error() string {
	return fmt.Sprintf("reading input %s: %v", e.Path, e.Err)
}

func (e *InputReadError) Unwrap() error { return e.Err }

// OutputWriteError is returned when the patched script cannot be written
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("writing output %s: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() error { return e.Err }

// ArgumentError is returned when the command line does not carry exactly an input and an output path
type ArgumentError struct {
	Got int
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("expected 2 arguments <jsFile> <outFile>, got %d", e.Got)
}

// UnmatchedRuleError is returned in strict mode when rules neither matched nor were already applied
type UnmatchedRuleError struct {
	Path  string
	Rules []string
}

func (e *UnmatchedRuleError) Error() string {
	return fmt.Sprintf("no match in %s for rules: %s", e.Path, strings.Join(e.Rules, ", "))
}
