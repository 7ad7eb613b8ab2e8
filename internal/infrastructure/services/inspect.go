package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sophialabs/catapult/internal/domain/matcher"
)

// Finding is a non-fatal observation about one node of a configuration.
type Finding struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (f Finding) String() string { return f.Path + ": " + f.Message }

// Report summarises a matcher tree.
type Report struct {
	Nodes     int                  `json:"nodes"`
	Kinds     map[matcher.Kind]int `json:"kinds"`
	Depth     int                  `json:"depth"`
	Redirects int                  `json:"redirects"`
	Warnings  []Finding            `json:"warnings,omitempty"`
}

var kindOrder = []matcher.Kind{
	matcher.KindExact,
	matcher.KindPrefix,
	matcher.KindFuzzy,
	matcher.KindRegex,
	matcher.KindList,
}

// Summary renders a one-line description such as
// "5 matchers (exact 2, prefix 1, list 2), depth 2, 3 redirects".
func (r *Report) Summary() string {
	var parts []string
	for _, k := range kindOrder {
		if n := r.Kinds[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", k, n))
		}
	}
	return fmt.Sprintf("%d matchers (%s), depth %d, %d redirects",
		r.Nodes, strings.Join(parts, ", "), r.Depth, r.Redirects)
}

// Inspect walks cfg, compiles every regex and collects warnings about
// matchers that can never take effect. The returned error joins every
// pattern that failed to compile; the report is complete either way.
func Inspect(cfg *matcher.Config) (*Report, error) {
	report := &Report{Kinds: make(map[matcher.Kind]int)}
	var errs []error

	matcher.Walk(cfg.Match, func(n matcher.Node, path string, depth int) {
		report.Nodes++
		report.Kinds[n.Kind()]++
		if depth > report.Depth {
			report.Depth = depth
		}

		if list, ok := n.(matcher.List); ok {
			if len(list) == 0 {
				report.warn(path, "empty list never matches")
			}
			return
		}

		c, _ := matcher.ContinuationOf(n)
		switch {
		case c.Terminal() && c.Next != nil:
			report.Redirects++
			report.warn(path, "nested match is ignored because url is set")
		case c.Terminal():
			report.Redirects++
		case c.Next == nil:
			report.warn(path, "no url and no nested match; this matcher never resolves")
		}

		if re, ok := n.(*matcher.Regex); ok {
			if _, err := matcher.Compile(re.Pattern, re.CaseSensitive); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", path, err))
			}
			if re.MatchWith != nil && c.Next == nil {
				report.warn(path, "match-with has no effect without a nested match")
			}
		}
	})

	if cfg.Match == nil {
		report.warn(matcher.RootPath, "configuration has no matcher")
	}

	return report, errors.Join(errs...)
}

func (r *Report) warn(path, msg string) {
	r.Warnings = append(r.Warnings, Finding{Path: path, Message: msg})
}
