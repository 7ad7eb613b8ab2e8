package filesystem

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sophialabs/catapult/internal/domain/matcher"
)

// Parse turns configuration text into a matcher tree.
func Parse(data []byte) (*matcher.Config, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &matcher.ConfigError{Msg: err.Error()}
	}
	return ParseDocument(&root)
}

// ParseDocument turns an already-parsed YAML document into a matcher tree.
// The document must be a mapping with a "match" key.
func ParseDocument(root *yaml.Node) (*matcher.Config, error) {
	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind == 0 || doc.Kind == yaml.DocumentNode {
		return nil, &matcher.ConfigError{Msg: "configuration is empty"}
	}
	if doc.Kind != yaml.MappingNode {
		return nil, configErrorAt(doc, "top level must be a mapping with a match key")
	}

	var d yamlDocument
	if err := doc.Decode(&d); err != nil {
		return nil, configErrorAt(doc, err.Error())
	}
	if d.Match.Kind == 0 {
		return nil, configErrorAt(doc, "missing match key")
	}

	node, err := ParseNode(&d.Match)
	if err != nil {
		return nil, err
	}
	return &matcher.Config{Match: node}, nil
}

type variant struct {
	key    string
	decode func(*yaml.Node) (matcher.Node, error)
}

// variants are tried in this order; the first one whose key is present and
// whose fields decode wins. The decoders recurse into ParseNode, so the
// table is filled in init.
var variants []variant

func init() {
	variants = []variant{
		{key: "exact", decode: decodeExact},
		{key: "prefix", decode: decodePrefix},
		{key: "fuzzy", decode: decodeFuzzy},
		{key: "regex", decode: decodeRegex},
	}
}

// ParseNode decodes a single matcher node: a mapping for Exact, Prefix,
// Fuzzy and Regex, or a sequence for List.
func ParseNode(n *yaml.Node) (matcher.Node, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}

	switch n.Kind {
	case yaml.SequenceNode:
		list := make(matcher.List, 0, len(n.Content))
		for _, item := range n.Content {
			child, err := ParseNode(item)
			if err != nil {
				return nil, err
			}
			list = append(list, child)
		}
		return list, nil

	case yaml.MappingNode:
		var firstErr error
		for _, v := range variants {
			if !hasKey(n, v.key) {
				continue
			}
			node, err := v.decode(n)
			if err == nil {
				return node, nil
			}
			if firstErr == nil {
				firstErr = err
			}
		}
		if firstErr != nil {
			return nil, firstErr
		}
		return nil, configErrorAt(n, "mapping does not match any matcher (expected one of exact, prefix, fuzzy, regex)")

	default:
		return nil, configErrorAt(n, fmt.Sprintf("expected a matcher mapping or list, got %s", describe(n)))
	}
}

func decodeExact(n *yaml.Node) (matcher.Node, error) {
	var y yamlExact
	if err := n.Decode(&y); err != nil {
		return nil, decodeError(n, "exact", err)
	}
	if y.Exact == nil {
		return nil, configErrorAt(n, "exact matcher requires a string value")
	}
	next, err := continuation(n, y.URL, &y.Match)
	if err != nil {
		return nil, err
	}
	out := matcher.NewExact(*y.Exact, next)
	if y.CaseSensitive != nil {
		out.CaseSensitive = *y.CaseSensitive
	}
	if y.Trim != nil {
		out.Trim = *y.Trim
	}
	return out, nil
}

func decodePrefix(n *yaml.Node) (matcher.Node, error) {
	var y yamlPrefix
	if err := n.Decode(&y); err != nil {
		return nil, decodeError(n, "prefix", err)
	}
	if y.Prefix == nil {
		return nil, configErrorAt(n, "prefix matcher requires a string value")
	}
	next, err := continuation(n, y.URL, &y.Match)
	if err != nil {
		return nil, err
	}
	out := matcher.NewPrefix(*y.Prefix, next)
	if y.CaseSensitive != nil {
		out.CaseSensitive = *y.CaseSensitive
	}
	return out, nil
}

func decodeFuzzy(n *yaml.Node) (matcher.Node, error) {
	var y yamlFuzzy
	if err := n.Decode(&y); err != nil {
		return nil, decodeError(n, "fuzzy", err)
	}
	if y.Fuzzy == nil {
		return nil, configErrorAt(n, "fuzzy matcher requires a string value")
	}
	if y.Tolerance != nil && *y.Tolerance < 0 {
		return nil, configErrorAt(n, fmt.Sprintf("fuzzy tolerance must not be negative, got %d", *y.Tolerance))
	}
	next, err := continuation(n, y.URL, &y.Match)
	if err != nil {
		return nil, err
	}
	out := matcher.NewFuzzy(*y.Fuzzy, next)
	if y.Tolerance != nil {
		out.Tolerance = *y.Tolerance
	}
	return out, nil
}

func decodeRegex(n *yaml.Node) (matcher.Node, error) {
	var y yamlRegex
	if err := n.Decode(&y); err != nil {
		return nil, decodeError(n, "regex", err)
	}
	if y.Regex == nil {
		return nil, configErrorAt(n, "regex matcher requires a pattern")
	}
	next, err := continuation(n, y.URL, &y.Match)
	if err != nil {
		return nil, err
	}
	out := matcher.NewRegex(*y.Regex, next)
	if y.CaseSensitive != nil {
		out.CaseSensitive = *y.CaseSensitive
	}
	out.MatchWith = y.MatchWith
	return out, nil
}

// continuation builds the url/child pair shared by all non-list variants.
func continuation(n *yaml.Node, url *string, child *yaml.Node) (matcher.Continuation, error) {
	var c matcher.Continuation
	if url != nil {
		if *url == "" {
			return c, configErrorAt(n, "url must not be empty; remove the url key to use the nested match")
		}
		c.URL = *url
	}
	if child.Kind != 0 && !isNull(child) {
		next, err := ParseNode(child)
		if err != nil {
			return c, err
		}
		c.Next = next
	}
	return c, nil
}

func decodeError(n *yaml.Node, kind string, err error) error {
	var te *yaml.TypeError
	if errors.As(err, &te) && len(te.Errors) > 0 {
		return configErrorAt(n, fmt.Sprintf("invalid %s matcher: %s", kind, te.Errors[0]))
	}
	return configErrorAt(n, fmt.Sprintf("invalid %s matcher: %v", kind, err))
}

func configErrorAt(n *yaml.Node, msg string) *matcher.ConfigError {
	return &matcher.ConfigError{Line: n.Line, Column: n.Column, Msg: msg}
}

func hasKey(mapping *yaml.Node, key string) bool {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return true
		}
	}
	return false
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func describe(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		if isNull(n) {
			return "null"
		}
		return fmt.Sprintf("scalar %q", n.Value)
	case yaml.AliasNode:
		return "unresolved alias"
	default:
		return "unknown node"
	}
}
