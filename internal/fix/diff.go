package fix

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"valign/internal/source"
)

// UnifiedDiff renders the change as a unified diff with three lines of
// context. It returns "" when the contents are equal.
func UnifiedDiff(path string, before, after []byte) (string, error) {
	if string(before) == string(after) {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
}

// Diffs renders every change of result in path order, with paths
// relative to baseDir where possible.
func Diffs(result *ApplyResult, baseDir string) (string, error) {
	if result == nil {
		return "", nil
	}
	var b strings.Builder
	for _, ch := range result.FileChanges {
		path := ch.Path
		if baseDir != "" {
			if rel, err := source.RelativePath(ch.Path, baseDir); err == nil {
				path = rel
			}
		}
		d, err := UnifiedDiff(path, ch.Before, ch.After)
		if err != nil {
			return "", err
		}
		b.WriteString(d)
	}
	return b.String(), nil
}
