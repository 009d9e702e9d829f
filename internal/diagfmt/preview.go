package diagfmt

import (
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"

	"valign/internal/diag"
	"valign/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixPreview renders the lines touched by edits before and after
// applying them. All edits must target the same file and must not overlap.
func buildFixPreview(fs *source.FileSet, edits []diag.TextEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, fmt.Errorf("nil FileSet")
	}
	if len(edits) == 0 {
		return fixEditPreview{}, fmt.Errorf("fix has no edits")
	}
	fileID := edits[0].Span.File
	file := fs.Get(fileID)
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", fileID)
	}

	lo, hi := edits[0].Span.Start, edits[0].Span.End
	for _, e := range edits[1:] {
		if e.Span.File != fileID {
			return fixEditPreview{}, fmt.Errorf("fix edits span several files")
		}
		lo, hi = min(lo, e.Span.Start), max(hi, e.Span.End)
	}

	lenFileContent, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fixEditPreview{}, fmt.Errorf("len file content overflow: %w", err)
	}
	startPos, endPos := fs.Resolve(source.Span{File: fileID, Start: lo, End: hi})
	blockStart := lineStartOffset(file, startPos.Line)
	blockEnd := min(max(lineEndOffset(file, endPos.Line), blockStart), lenFileContent)

	original := file.Content[blockStart:blockEnd]

	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b diag.TextEdit) int {
		return int(b.Span.Start) - int(a.Span.Start)
	})
	after := slices.Clone(original)
	for _, e := range sorted {
		relStart := int(e.Span.Start) - int(blockStart)
		relEnd := int(e.Span.End) - int(blockStart)
		if relStart < 0 || relEnd < relStart || relEnd > len(after) {
			return fixEditPreview{}, fmt.Errorf("edit span %d..%d out of range for preview block", e.Span.Start, e.Span.End)
		}
		after = slices.Concat(after[:relStart], []byte(e.NewText), after[relEnd:])
	}

	return fixEditPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(after),
	}, nil
}

func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n")
}

// lineStartOffset returns the offset of the 1-based line.
func lineStartOffset(f *source.File, line uint32) uint32 {
	if line <= 1 || len(f.LineStarts) == 0 {
		return 0
	}
	if int(line) <= len(f.LineStarts) {
		return f.LineStarts[line-1]
	}
	return uint32(len(f.Content)) // #nosec G115 -- bounded by FileSet.Add
}

// lineEndOffset returns the offset just past the newline of the 1-based line.
func lineEndOffset(f *source.File, line uint32) uint32 {
	if int(line) < len(f.LineStarts) {
		return f.LineStarts[line]
	}
	return uint32(len(f.Content)) // #nosec G115 -- bounded by FileSet.Add
}
