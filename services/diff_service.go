package services

import (
	"fmt"
	"strconv"
	"strings"

	"moltpedia/models"
)

// DiffService produces and applies line-based textual patches between two
// content strings. Patches use the unified-diff hunk format so history rows
// stay readable, but Apply is strict: every context and deletion line must
// match the base at the stated offset, otherwise the patch is rejected.
type DiffService interface {
	// Diff returns a patch transforming old into new. Empty when old == new.
	Diff(old, new string) string
	// Apply reconstructs content from base and patch. It satisfies
	// Apply(old, Diff(old, new)) == new for all inputs.
	Apply(base, patch string) (string, error)
}

type diffService struct{}

func NewDiffService() DiffService {
	return &diffService{}
}

const hunkContext = 3

// Content is modelled as strings.Split(content, "\n"), which strings.Join
// inverts exactly, so the round-trip law holds for trailing newlines and the
// empty string alike.
func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

type editOp struct {
	kind byte // ' ', '-' or '+'
	text string
}

func (d *diffService) Diff(old, new string) string {
	if old == new {
		return ""
	}

	oldLines := splitLines(old)
	newLines := splitLines(new)
	ops := editScript(oldLines, newLines)

	var b strings.Builder
	oldPos, newPos := 0, 0 // 0-based offsets into old/new at the current op

	i := 0
	for i < len(ops) {
		// Skip the unchanged run before the next change.
		for i < len(ops) && ops[i].kind == ' ' {
			oldPos++
			newPos++
			i++
		}
		if i == len(ops) {
			break
		}

		// Hunk starts up to hunkContext lines before the change.
		lead := hunkContext
		if lead > oldPos {
			lead = oldPos
		}
		hunkOps := make([]editOp, 0, lead)
		for k := lead; k > 0; k-- {
			hunkOps = append(hunkOps, ops[i-k])
		}
		hunkOldStart := oldPos - lead
		hunkNewStart := newPos - lead

		// Consume changes, merging change runs separated by at most
		// 2*hunkContext unchanged lines into the same hunk.
		for i < len(ops) {
			if ops[i].kind == ' ' {
				run := 0
				for i+run < len(ops) && ops[i+run].kind == ' ' {
					run++
				}
				if i+run == len(ops) || run > 2*hunkContext {
					// Trailing context closes the hunk.
					tail := run
					if tail > hunkContext {
						tail = hunkContext
					}
					for k := 0; k < tail; k++ {
						hunkOps = append(hunkOps, ops[i+k])
						oldPos++
						newPos++
					}
					i += run
					oldPos += run - tail
					newPos += run - tail
					break
				}
				for k := 0; k < run; k++ {
					hunkOps = append(hunkOps, ops[i+k])
					oldPos++
					newPos++
				}
				i += run
				continue
			}
			hunkOps = append(hunkOps, ops[i])
			if ops[i].kind == '-' {
				oldPos++
			} else {
				newPos++
			}
			i++
		}

		writeHunk(&b, hunkOps, hunkOldStart, hunkNewStart)
	}

	return b.String()
}

func writeHunk(b *strings.Builder, ops []editOp, oldStart, newStart int) {
	oldCount, newCount := 0, 0
	for _, op := range ops {
		switch op.kind {
		case ' ':
			oldCount++
			newCount++
		case '-':
			oldCount++
		case '+':
			newCount++
		}
	}

	// Unified convention: a zero-length range reports the line before it.
	oldHeader := oldStart + 1
	if oldCount == 0 {
		oldHeader = oldStart
	}
	newHeader := newStart + 1
	if newCount == 0 {
		newHeader = newStart
	}

	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	fmt.Fprintf(b, "@@ -%d,%d +%d,%d @@", oldHeader, oldCount, newHeader, newCount)
	for _, op := range ops {
		b.WriteByte('\n')
		b.WriteByte(op.kind)
		b.WriteString(op.text)
	}
}

// editScript computes a line-level edit script via longest common
// subsequence. Deletions are emitted before insertions at the same point,
// which keeps the output deterministic.
func editScript(oldLines, newLines []string) []editOp {
	n, m := len(oldLines), len(newLines)
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if oldLines[i] == newLines[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	ops := make([]editOp, 0, n+m)
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case oldLines[i] == newLines[j]:
			ops = append(ops, editOp{' ', oldLines[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			ops = append(ops, editOp{'-', oldLines[i]})
			i++
		default:
			ops = append(ops, editOp{'+', newLines[j]})
			j++
		}
	}
	for ; i < n; i++ {
		ops = append(ops, editOp{'-', oldLines[i]})
	}
	for ; j < m; j++ {
		ops = append(ops, editOp{'+', newLines[j]})
	}
	return ops
}

func (d *diffService) Apply(base, patch string) (string, error) {
	if patch == "" {
		return base, nil
	}

	baseLines := splitLines(base)
	patchLines := strings.Split(patch, "\n")

	out := make([]string, 0, len(baseLines))
	pos := 0 // 0-based offset into baseLines

	i := 0
	for i < len(patchLines) {
		header := patchLines[i]
		if !strings.HasPrefix(header, "@@ ") {
			return "", models.ErrorPatchMismatch{Message: fmt.Sprintf("malformed patch: expected hunk header, got %q", header)}
		}
		oldStart, oldCount, err := parseHunkHeader(header)
		if err != nil {
			return "", err
		}

		// Translate the header back into a 0-based offset.
		start := oldStart - 1
		if oldCount == 0 {
			start = oldStart
		}
		if start < pos || start > len(baseLines) {
			return "", models.ErrorPatchMismatch{Message: fmt.Sprintf("hunk offset %d outside base of %d lines", oldStart, len(baseLines))}
		}
		out = append(out, baseLines[pos:start]...)
		pos = start

		i++
		for i < len(patchLines) && !strings.HasPrefix(patchLines[i], "@@ ") {
			line := patchLines[i]
			if line == "" {
				return "", models.ErrorPatchMismatch{Message: "malformed patch: empty body line"}
			}
			text := line[1:]
			switch line[0] {
			case ' ':
				if pos >= len(baseLines) || baseLines[pos] != text {
					return "", models.ErrorPatchMismatch{Message: fmt.Sprintf("context mismatch at base line %d", pos+1)}
				}
				out = append(out, baseLines[pos])
				pos++
			case '-':
				if pos >= len(baseLines) || baseLines[pos] != text {
					return "", models.ErrorPatchMismatch{Message: fmt.Sprintf("deletion mismatch at base line %d", pos+1)}
				}
				pos++
			case '+':
				out = append(out, text)
			default:
				return "", models.ErrorPatchMismatch{Message: fmt.Sprintf("malformed patch line %q", line)}
			}
			i++
		}
	}

	out = append(out, baseLines[pos:]...)
	return strings.Join(out, "\n"), nil
}

func parseHunkHeader(header string) (oldStart, oldCount int, err error) {
	fields := strings.Fields(header)
	if len(fields) < 4 || fields[0] != "@@" || !strings.HasPrefix(fields[1], "-") {
		return 0, 0, models.ErrorPatchMismatch{Message: fmt.Sprintf("malformed hunk header %q", header)}
	}
	oldRange := strings.TrimPrefix(fields[1], "-")
	parts := strings.SplitN(oldRange, ",", 2)
	oldStart, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, models.ErrorPatchMismatch{Message: fmt.Sprintf("malformed hunk header %q", header)}
	}
	oldCount = 1
	if len(parts) == 2 {
		oldCount, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, models.ErrorPatchMismatch{Message: fmt.Sprintf("malformed hunk header %q", header)}
		}
	}
	return oldStart, oldCount, nil
}
