package matcher

import "strconv"

// RootPath is the location of the top-level node in Walk paths.
const RootPath = "match"

// Walk visits node and every node reachable from it in depth-first order.
// It passes the node's location in configuration terms (match, match[1],
// match[1].match) and its nesting depth, 0 for the root. A List counts as
// one level. Children that are shadowed by a url are still visited.
func Walk(node Node, fn func(n Node, path string, depth int)) {
	walk(node, RootPath, 0, fn)
}

func walk(node Node, path string, depth int, fn func(Node, string, int)) {
	if node == nil {
		return
	}
	fn(node, path, depth)

	switch n := node.(type) {
	case List:
		for i, child := range n {
			walk(child, path+"["+strconv.Itoa(i)+"]", depth+1, fn)
		}
	default:
		if c, ok := ContinuationOf(node); ok {
			walk(c.Next, path+".match", depth+1, fn)
		}
	}
}

// ContinuationOf returns the continuation of a non-List node.
func ContinuationOf(node Node) (Continuation, bool) {
	switch n := node.(type) {
	case *Exact:
		return n.Continuation, true
	case *Prefix:
		return n.Continuation, true
	case *Fuzzy:
		return n.Continuation, true
	case *Regex:
		return n.Continuation, true
	default:
		return Continuation{}, false
	}
}

// Detail returns the value a node shows in traces: its literal or pattern.
func Detail(node Node) string {
	switch n := node.(type) {
	case *Exact:
		return n.Target
	case *Prefix:
		return n.Prefix
	case *Fuzzy:
		return n.Target
	case *Regex:
		return n.Pattern
	default:
		return ""
	}
}
