package trace

import (
	"strings"
	"time"
)

// Step records what one matcher layer received, how it matched, and what it forwarded.
type Step struct {
	Input  string `json:"input"`
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
	Output string `json:"output"`
}

// LogTrace is the ordered record of every layer that contributed to a redirect,
// outermost matcher first, plus the final redirect URL.
type LogTrace struct {
	Steps []Step `json:"steps"`
	URL   string `json:"url"`
}

// Leaf starts a trace at the matcher that produced the redirect.
func Leaf(step Step, url string) LogTrace {
	return LogTrace{Steps: []Step{step}, URL: url}
}

// Prepend returns a copy of t with step placed before all existing steps.
// Enclosing layers call it as the recursion unwinds.
func (t LogTrace) Prepend(step Step) LogTrace {
	steps := make([]Step, 0, len(t.Steps)+1)
	steps = append(steps, step)
	steps = append(steps, t.Steps...)
	return LogTrace{Steps: steps, URL: t.URL}
}

// Render formats the trace as
//
//	input0 + kind0(detail0) => output0 + kind1(detail1) => ... => url
//
// A trace without steps renders as the bare URL.
func (t LogTrace) Render() string {
	if len(t.Steps) == 0 {
		return t.URL
	}

	var b strings.Builder
	b.WriteString(t.Steps[0].Input)
	for i, s := range t.Steps {
		if i > 0 {
			b.WriteString(" => ")
			b.WriteString(t.Steps[i-1].Output)
		}
		b.WriteString(" + ")
		b.WriteString(s.Kind)
		b.WriteByte('(')
		b.WriteString(s.Detail)
		b.WriteByte(')')
	}
	b.WriteString(" => ")
	b.WriteString(t.URL)
	return b.String()
}

func (t LogTrace) String() string { return t.Render() }

// Entry represents one resolution attempt as seen by a front end.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Input     string    `json:"input"`
	Matched   bool      `json:"matched"`
	Redirect  string    `json:"redirect,omitempty"`
	Trace     string    `json:"trace,omitempty"`
	Error     string    `json:"error,omitempty"`
}
