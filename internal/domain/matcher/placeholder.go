package matcher

import (
	"strconv"
	"strings"
)

// expandGroups replaces $N placeholders in tmpl with capture group N of the
// match described by loc (as returned by FindStringSubmatchIndex).
//
// The template is scanned once, left to right. For each '$' the longest run
// of digits naming an existing group is used, so "$10" means group 10 when
// the pattern has at least eleven groups and "$1" followed by "0" otherwise.
// "$0" never extends into following digits. Substituted text is not scanned
// again. Placeholders without a participating group are kept verbatim.
func expandGroups(tmpl, input string, loc []int) string {
	if !strings.Contains(tmpl, "$") {
		return tmpl
	}
	groups := len(loc) / 2

	var b strings.Builder
	b.Grow(len(tmpl))
	for i := 0; i < len(tmpl); {
		if tmpl[i] != '$' {
			b.WriteByte(tmpl[i])
			i++
			continue
		}

		group, end := groupRef(tmpl, i+1, groups)
		if group < 0 || loc[2*group] < 0 {
			b.WriteByte('$')
			i++
			continue
		}
		b.WriteString(input[loc[2*group]:loc[2*group+1]])
		i = end
	}
	return b.String()
}

// groupRef parses the digits starting at tmpl[start] and returns the group
// index and the end offset of the longest prefix naming one of groups groups.
// It returns -1 when no such prefix exists.
func groupRef(tmpl string, start, groups int) (int, int) {
	end := start
	for end < len(tmpl) && isDigit(tmpl[end]) {
		end++
	}
	if end == start {
		return -1, start
	}
	if tmpl[start] == '0' {
		return 0, start + 1
	}
	for k := end; k > start; k-- {
		idx, err := strconv.Atoi(tmpl[start:k])
		if err == nil && idx < groups {
			return idx, k
		}
	}
	return -1, start
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// equalFoldASCII compares a and b ignoring ASCII case only; other bytes must match exactly.
func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
