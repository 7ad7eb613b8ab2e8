package matcher

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/sophialabs/catapult/internal/domain/trace"
)

// Result is the outcome of a successful resolution.
type Result struct {
	Redirect string
	Trace    trace.LogTrace
}

// Apply evaluates node against input.
//
// It returns ok=false when nothing in the tree matched, or when the matching
// path ended at a node without a url or child. Errors from nested nodes are
// returned unchanged and are never turned into a non-match.
func Apply(node Node, input string) (Result, bool, error) {
	switch n := node.(type) {
	case nil:
		return Result{}, false, nil
	case *Exact:
		return applyExact(n, input)
	case *Prefix:
		return applyPrefix(n, input)
	case *Fuzzy:
		return applyFuzzy(n, input)
	case *Regex:
		return applyRegex(n, input)
	case List:
		return applyList(n, input)
	default:
		return Result{}, false, fmt.Errorf("unsupported matcher node %T", node)
	}
}

func applyExact(n *Exact, input string) (Result, bool, error) {
	candidate := input
	if n.Trim {
		candidate = strings.TrimSpace(candidate)
	}
	if !equal(candidate, n.Target, n.CaseSensitive) {
		return Result{}, false, nil
	}

	step := newStep(n, input, candidate)
	return proceed(n.Continuation, step, func(url string) string {
		return strings.ReplaceAll(url, "$1", candidate)
	})
}

func applyPrefix(n *Prefix, input string) (Result, bool, error) {
	if len(input) < len(n.Prefix) {
		return Result{}, false, nil
	}
	head, rest := input[:len(n.Prefix)], input[len(n.Prefix):]
	if !equal(head, n.Prefix, n.CaseSensitive) {
		return Result{}, false, nil
	}

	step := newStep(n, input, rest)
	return proceed(n.Continuation, step, func(url string) string {
		return strings.NewReplacer("$1", head, "$2", rest).Replace(url)
	})
}

func applyFuzzy(n *Fuzzy, input string) (Result, bool, error) {
	if fuzzy.LevenshteinDistance(input, n.Target) > n.Tolerance {
		return Result{}, false, nil
	}

	step := newStep(n, input, input)
	return proceed(n.Continuation, step, func(url string) string {
		return strings.ReplaceAll(url, "$1", input)
	})
}

func applyRegex(n *Regex, input string) (Result, bool, error) {
	re, err := Compile(n.Pattern, n.CaseSensitive)
	if err != nil {
		return Result{}, false, err
	}

	loc := re.FindStringSubmatchIndex(input)
	if loc == nil {
		return Result{}, false, nil
	}

	candidate := input[loc[0]:loc[1]]
	if n.MatchWith != nil {
		candidate = expandGroups(*n.MatchWith, input, loc)
	}

	step := newStep(n, input, candidate)
	return proceed(n.Continuation, step, func(url string) string {
		return expandGroups(url, input, loc)
	})
}

func applyList(l List, input string) (Result, bool, error) {
	for _, child := range l {
		res, ok, err := Apply(child, input)
		if err != nil {
			return Result{}, false, err
		}
		if ok {
			return res, true, nil
		}
	}
	return Result{}, false, nil
}

func newStep(n Node, input, output string) trace.Step {
	return trace.Step{Input: input, Kind: string(n.Kind()), Detail: Detail(n), Output: output}
}

// proceed finishes a layer that matched: it either builds the redirect from
// the url template or hands step.Output to the child and prepends step to the
// child's trace.
func proceed(c Continuation, step trace.Step, expand func(url string) string) (Result, bool, error) {
	if c.Terminal() {
		redirect := expand(c.URL)
		return Result{Redirect: redirect, Trace: trace.Leaf(step, redirect)}, true, nil
	}
	if c.Next == nil {
		return Result{}, false, nil
	}

	res, ok, err := Apply(c.Next, step.Output)
	if err != nil || !ok {
		return Result{}, false, err
	}
	res.Trace = res.Trace.Prepend(step)
	return res, true, nil
}

// Compile builds the regexp used by a Regex node.
func Compile(pattern string, caseSensitive bool) (*regexp.Regexp, error) {
	expr := pattern
	if !caseSensitive {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Err: err}
	}
	return re, nil
}

func equal(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return a == b
	}
	return equalFoldASCII(a, b)
}
