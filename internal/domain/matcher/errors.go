package matcher

import "fmt"

// ConfigError reports configuration text that does not describe a matcher tree.
// Line and Column are 1-based; zero means the position is unknown.
type ConfigError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("config: line %d, column %d: %s", e.Line, e.Column, e.Msg)
	}
	return "config: " + e.Msg
}

// PatternError reports a regex that failed to compile during evaluation.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid regex %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }
