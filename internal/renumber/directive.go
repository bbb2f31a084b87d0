// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package renumber

import (
	"strconv"
	"strings"
	"unicode"
)

// directivePrefix marks an In payload that sets the counter instead of
// advancing it.
const directivePrefix = "^"

// parseDirective reports whether payload is a reset directive and, if so,
// the value the counter takes. Only leading whitespace may precede the
// caret. The value is the run of ASCII digits right after the caret; an
// empty run, or one that does not fit in an int, resets to 1.
func parseDirective(payload string) (int, bool) {
	rest, ok := strings.CutPrefix(strings.TrimLeftFunc(payload, unicode.IsSpace), directivePrefix)
	if !ok {
		return 0, false
	}
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return 1, true
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 1, true
	}
	return n, true
}
