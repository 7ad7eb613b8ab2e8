package matcher

// Kind names a matcher variant as it appears in traces and configuration.
type Kind string

const (
	KindExact  Kind = "exact"
	KindPrefix Kind = "prefix"
	KindFuzzy  Kind = "fuzzy"
	KindRegex  Kind = "regex"
	KindList   Kind = "list"
)

// Defaults applied when a field is absent from the configuration.
const (
	DefaultCaseSensitive = false
	DefaultTrim          = true
	DefaultTolerance     = 3
)

// Node is one unit of a matcher tree. The set of implementations is closed:
// *Exact, *Prefix, *Fuzzy, *Regex and List.
type Node interface {
	Kind() Kind
	node()
}

// Continuation says what a matching node does next: redirect to URL, or
// hand its output to Next. URL wins when both are set. An empty URL is absent.
type Continuation struct {
	URL  string
	Next Node
}

// Terminal reports whether the continuation produces a redirect directly.
func (c Continuation) Terminal() bool { return c.URL != "" }

// Exact matches the whole (optionally trimmed) input against Target.
type Exact struct {
	Target        string
	CaseSensitive bool
	Trim          bool
	Continuation
}

// Prefix matches inputs starting with Prefix and forwards the remainder.
type Prefix struct {
	Prefix        string
	CaseSensitive bool
	Continuation
}

// Fuzzy matches inputs within Tolerance edits of Target.
type Fuzzy struct {
	Target    string
	Tolerance int
	Continuation
}

// Regex searches the input for Pattern. MatchWith, when non-nil, rewrites
// the value forwarded to Next using $0..$N capture placeholders. An empty
// template forwards the empty string.
type Regex struct {
	Pattern       string
	CaseSensitive bool
	MatchWith     *string
	Continuation
}

// List tries its nodes in order; the first match wins.
type List []Node

func (*Exact) Kind() Kind  { return KindExact }
func (*Prefix) Kind() Kind { return KindPrefix }
func (*Fuzzy) Kind() Kind  { return KindFuzzy }
func (*Regex) Kind() Kind  { return KindRegex }
func (List) Kind() Kind    { return KindList }

func (*Exact) node()  {}
func (*Prefix) node() {}
func (*Fuzzy) node()  {}
func (*Regex) node()  {}
func (List) node()    {}

// NewExact returns an Exact node with default flags.
func NewExact(target string, next Continuation) *Exact {
	return &Exact{Target: target, CaseSensitive: DefaultCaseSensitive, Trim: DefaultTrim, Continuation: next}
}

// NewPrefix returns a Prefix node with default flags.
func NewPrefix(prefix string, next Continuation) *Prefix {
	return &Prefix{Prefix: prefix, CaseSensitive: DefaultCaseSensitive, Continuation: next}
}

// NewFuzzy returns a Fuzzy node with the default tolerance.
func NewFuzzy(target string, next Continuation) *Fuzzy {
	return &Fuzzy{Target: target, Tolerance: DefaultTolerance, Continuation: next}
}

// NewRegex returns a case-insensitive Regex node without a rewrite template.
func NewRegex(pattern string, next Continuation) *Regex {
	return &Regex{Pattern: pattern, CaseSensitive: DefaultCaseSensitive, Continuation: next}
}

// Template returns a MatchWith value for tmpl.
func Template(tmpl string) *string { return &tmpl }

// RedirectTo is shorthand for a terminal continuation.
func RedirectTo(url string) Continuation { return Continuation{URL: url} }

// DelegateTo is shorthand for a delegating continuation.
func DelegateTo(next Node) Continuation { return Continuation{Next: next} }

// Config is a parsed configuration document.
type Config struct {
	Match Node
}
