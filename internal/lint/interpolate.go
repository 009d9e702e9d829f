package lint

import (
	"fmt"
	"strings"
)

// Interpolate replaces {{name}} placeholders (spaces inside the braces
// are allowed) with values from data. Unknown names stay as written.
func Interpolate(template string, data map[string]any) string {
	if len(data) == 0 || !strings.Contains(template, "{{") {
		return template
	}
	var b strings.Builder
	b.Grow(len(template))
	rest := template
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			b.WriteString(rest)
			return b.String()
		}
		closeAt := strings.Index(rest[open+2:], "}}")
		if closeAt < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:open])
		placeholder := rest[open : open+2+closeAt+2]
		name := strings.TrimSpace(rest[open+2 : open+2+closeAt])
		if v, ok := data[name]; ok {
			fmt.Fprint(&b, v)
		} else {
			b.WriteString(placeholder)
		}
		rest = rest[open+2+closeAt+2:]
	}
}
