package fix

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"

	"valign/internal/diag"
	"valign/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

func (m ApplyMode) String() string {
	switch m {
	case ApplyModeOnce:
		return "once"
	case ApplyModeAll:
		return "all"
	case ApplyModeID:
		return "id"
	}
	return "unknown"
}

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange holds the rewritten content of one file. Nothing is
// written to disk until Write is called.
type FileChange struct {
	File      source.FileID
	Path      string
	Before    []byte
	After     []byte
	EditCount int
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

// Changed returns the new content for file, if a fix touched it.
func (r *ApplyResult) Changed(file source.FileID) ([]byte, bool) {
	if r == nil {
		return nil, false
	}
	for _, ch := range r.FileChanges {
		if ch.File == file {
			return ch.After, true
		}
	}
	return nil, false
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply collects fixes from diagnostics, selects a subset according to
// opts and applies them to in-memory copies of the files.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Applied:     make([]AppliedFix, 0),
		Skipped:     make([]SkippedFix, 0),
		FileChanges: make([]FileChange, 0),
	}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	ctx := diag.FixBuildContext{FileSet: fs}
	candidates, buildSkips := gatherCandidates(ctx, diagnostics)
	result.Skipped = append(result.Skipped, buildSkips...)

	if len(candidates) == 0 {
		return result, ErrNoFixes
	}

	sortCandidates(candidates)

	selected, selectionSkips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, selectionSkips...)

	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	applied, skippedDuringApply, changes := applyCandidates(fs, selected)
	result.Applied = append(result.Applied, applied...)
	result.Skipped = append(result.Skipped, skippedDuringApply...)
	result.FileChanges = append(result.FileChanges, changes...)

	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// gatherCandidates materializes the fixes of every diagnostic. Fixes that
// fail to build, carry no edits or repeat an earlier ID are skipped. A
// missing ID is synthesized from the diagnostic code, file, start offset
// and fix index. order keeps insertion order for the stable sort.
func gatherCandidates(ctx diag.FixBuildContext, diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	cands := make([]candidate, 0)
	skips := make([]SkippedFix, 0)

	seen := make(map[string]struct{})
	order := 0
	for _, d := range diagnostics {
		if !d.HasFix() {
			continue
		}

		resolved, err := diag.MaterializeFixes(ctx, d.Fixes)
		if err != nil {
			skips = append(skips, SkippedFix{
				Title:  d.Message,
				Reason: fmt.Sprintf("failed to build fixes: %v", err),
			})
			continue
		}

		for idx, f := range resolved {
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{
					ID:     f.ID,
					Title:  f.Title,
					Reason: "fix has no edits",
				})
				continue
			}
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			}
			if _, dup := seen[f.ID]; dup {
				skips = append(skips, SkippedFix{
					ID:     f.ID,
					Title:  f.Title,
					Reason: "duplicate fix id",
				})
				continue
			}
			seen[f.ID] = struct{}{}
			cands = append(cands, candidate{
				diag:  d,
				fix:   f,
				order: order,
			})
			order++
		}
	}
	return cands, skips
}

// sortCandidates orders candidates by file, primary span and then the
// order they were gathered in, which is unique.
func sortCandidates(candidates []candidate) {
	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return cmp.Or(
			cmp.Compare(a.diag.Primary.File, b.diag.Primary.File),
			cmp.Compare(a.diag.Primary.Start, b.diag.Primary.Start),
			cmp.Compare(a.diag.Primary.End, b.diag.Primary.End),
			cmp.Compare(a.order, b.order),
		)
	})
}

func safe(c candidate) bool {
	return c.fix.Applicability == diag.FixApplicabilityAlwaysSafe
}

// selectCandidates picks what opts asks for from a non-empty, sorted
// candidate list. Once takes the first safe fix, or the first fix at all.
func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		i := slices.IndexFunc(candidates, func(c candidate) bool { return c.fix.ID == opts.TargetID })
		if i < 0 {
			return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}
		}
		return candidates[i : i+1], nil
	case ApplyModeAll:
		selected := make([]candidate, 0, len(candidates))
		var skipped []SkippedFix
		for _, cand := range candidates {
			if safe(cand) {
				selected = append(selected, cand)
				continue
			}
			skipped = append(skipped, SkippedFix{
				ID:     cand.fix.ID,
				Title:  cand.fix.Title,
				Reason: fmt.Sprintf("applicability is %s", cand.fix.Applicability),
			})
		}
		return selected, skipped
	case ApplyModeOnce:
		if i := slices.IndexFunc(candidates, safe); i >= 0 {
			return candidates[i : i+1], nil
		}
		return candidates[:1], nil
	}
	return nil, nil
}

// fileState is the rewritten content of one file together with the
// edits already applied to it, kept sorted in original offsets.
type fileState struct {
	file  *source.File
	path  string
	buf   []byte
	edits []diag.TextEdit
	count int
}

// with returns the state after applying edits, or the reason they
// cannot be applied. s is left untouched.
func (s *fileState) with(edits []diag.TextEdit) (*fileState, string) {
	for _, prev := range s.edits {
		for _, e := range edits {
			if spansConflict(prev, e) {
				return nil, "conflicts with previously applied edits in " + s.path
			}
		}
	}

	// back to front so earlier offsets stay valid
	slices.SortStableFunc(edits, func(a, b diag.TextEdit) int {
		return cmp.Or(
			cmp.Compare(b.Span.Start, a.Span.Start),
			cmp.Compare(b.Span.End, a.Span.End),
		)
	})

	next := &fileState{
		file:  s.file,
		path:  s.path,
		buf:   slices.Clone(s.buf),
		edits: slices.Clone(s.edits),
		count: s.count + len(edits),
	}
	for _, e := range edits {
		start := int(e.Span.Start) + shift(next.edits, int(e.Span.Start))
		end := int(e.Span.End) + shift(next.edits, int(e.Span.End))
		if start < 0 || end < start || end > len(next.buf) {
			return nil, "edit span out of range"
		}
		if e.OldText != "" && string(next.buf[start:end]) != e.OldText {
			return nil, "existing text does not match expected content"
		}
		next.buf = slices.Replace(next.buf, start, end, []byte(e.NewText)...)
		next.edits = insertEditSorted(next.edits, e)
	}
	return next, ""
}

// applyCandidates applies each selected fix as a unit: either every edit
// of the fix lands or none does.
func applyCandidates(fs *source.FileSet, selected []candidate) ([]AppliedFix, []SkippedFix, []FileChange) {
	states := make(map[source.FileID]*fileState)
	var (
		applied []AppliedFix
		skipped []SkippedFix
	)
	baseDir := fs.BaseDir()

	for _, cand := range selected {
		staged := make(map[source.FileID]*fileState)
		total := 0
		var reason string
		for fileID, edits := range groupEditsByFile(cand.fix.Edits) {
			st := states[fileID]
			if st == nil {
				file := fs.Get(fileID)
				if file == nil {
					reason = "target file is unknown"
					break
				}
				st = &fileState{file: file, path: file.FormatPath("auto", baseDir), buf: file.Content}
			}
			next, why := st.with(edits)
			if why != "" {
				reason = why
				break
			}
			staged[fileID] = next
			total += len(edits)
		}
		if reason != "" {
			skipped = append(skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: reason})
			continue
		}
		maps.Copy(states, staged)

		applied = append(applied, AppliedFix{
			ID:            cand.fix.ID,
			Title:         cand.fix.Title,
			Code:          cand.diag.Code,
			Message:       cand.diag.Message,
			Applicability: cand.fix.Applicability,
			PrimaryPath:   primaryPath(fs, cand.diag.Primary.File),
			EditCount:     total,
		})
	}

	changes := make([]FileChange, 0, len(states))
	for id, st := range states {
		changes = append(changes, FileChange{
			File:      id,
			Path:      st.file.Path,
			Before:    st.file.Content,
			After:     st.buf,
			EditCount: st.count,
		})
	}
	slices.SortStableFunc(changes, func(a, b FileChange) int { return cmp.Compare(a.Path, b.Path) })
	return applied, skipped, changes
}

// spansConflict reports whether two edits overlap as half-open ranges.
// Two insertions never conflict; an insertion conflicts with a
// replacement that strictly contains its position or starts at it.
func spansConflict(a, b diag.TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	switch {
	case aStart == aEnd && bStart == bEnd:
		return false
	case aStart == aEnd:
		return bStart <= aStart && aStart < bEnd
	case bStart == bEnd:
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

func groupEditsByFile(edits []diag.TextEdit) map[source.FileID][]diag.TextEdit {
	buckets := make(map[source.FileID][]diag.TextEdit)
	for _, e := range edits {
		buckets[e.Span.File] = append(buckets[e.Span.File], e)
	}
	return buckets
}

// shift is how far pos has moved because of the applied edits that end
// at or before it.
func shift(applied []diag.TextEdit, pos int) int {
	delta := 0
	for _, e := range applied {
		start, end := int(e.Span.Start), int(e.Span.End)
		if start > pos {
			break
		}
		if end <= pos {
			delta += len(e.NewText) - (end - start)
		}
	}
	return delta
}

func insertEditSorted(edits []diag.TextEdit, edit diag.TextEdit) []diag.TextEdit {
	i, _ := slices.BinarySearchFunc(edits, edit, func(e, t diag.TextEdit) int {
		return cmp.Or(cmp.Compare(e.Span.Start, t.Span.Start), cmp.Compare(e.Span.End, t.Span.End))
	})
	return slices.Insert(edits, i, edit)
}

func primaryPath(fs *source.FileSet, id source.FileID) string {
	if file := fs.Get(id); file != nil {
		return file.FormatPath("auto", fs.BaseDir())
	}
	return ""
}
