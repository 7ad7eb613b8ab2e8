package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sophialabs/catapult/internal/domain/matcher"
)

func TestWalk_VisitsEveryNodeWithDepth(t *testing.T) {
	tree := matcher.List{
		matcher.NewExact("a", matcher.RedirectTo("https://a")),
		matcher.NewPrefix("p/", matcher.DelegateTo(
			matcher.NewRegex("x", matcher.RedirectTo("https://x")),
		)),
	}

	var kinds []matcher.Kind
	var paths []string
	var depths []int
	matcher.Walk(tree, func(n matcher.Node, path string, depth int) {
		kinds = append(kinds, n.Kind())
		paths = append(paths, path)
		depths = append(depths, depth)
	})

	assert.Equal(t, []matcher.Kind{matcher.KindList, matcher.KindExact, matcher.KindPrefix, matcher.KindRegex}, kinds)
	assert.Equal(t, []string{"match", "match[0]", "match[1]", "match[1].match"}, paths)
	assert.Equal(t, []int{0, 1, 1, 2}, depths)
}

func TestDetail(t *testing.T) {
	assert.Equal(t, "lit", matcher.Detail(matcher.NewExact("lit", matcher.Continuation{})))
	assert.Equal(t, "p/", matcher.Detail(matcher.NewPrefix("p/", matcher.Continuation{})))
	assert.Equal(t, "dog", matcher.Detail(matcher.NewFuzzy("dog", matcher.Continuation{})))
	assert.Equal(t, "^x$", matcher.Detail(matcher.NewRegex("^x$", matcher.Continuation{})))
	assert.Equal(t, "", matcher.Detail(matcher.List{}))
}

func TestConfigErrorMessage(t *testing.T) {
	withPos := &matcher.ConfigError{Line: 3, Column: 5, Msg: "bad node"}
	assert.Equal(t, "config: line 3, column 5: bad node", withPos.Error())

	noPos := &matcher.ConfigError{Msg: "empty"}
	assert.Equal(t, "config: empty", noPos.Error())
}

func TestWalk_VisitsShadowedChildren(t *testing.T) {
	tree := matcher.NewExact("a", matcher.Continuation{
		URL:  "https://a",
		Next: matcher.NewExact("b", matcher.RedirectTo("https://b")),
	})

	var count int
	matcher.Walk(tree, func(matcher.Node, string, int) { count++ })
	assert.Equal(t, 2, count)
}
