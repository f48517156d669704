package src

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"strings"
	"sync"
)

// ChangeTracker numbers the model responses applied to a workspace and
// renders unified diffs for the execution report.
type ChangeTracker struct {
	mu    sync.Mutex
	turns uint64
}

func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{}
}

// BeginTurn marks the start of one model response being applied.
func (t *ChangeTracker) BeginTurn() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns++
	return t.turns
}

type edit struct {
	tag byte // ' ' same, '+' add, '-' del
	txt string
}

func splitLines(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	return strings.Split(strings.TrimRight(string(b), "\n"), "\n")
}

// Diff renders a git-style unified diff between oldB and newB, or "" when equal.
func (t *ChangeTracker) Diff(rel string, oldB, newB []byte) string {
	if bytes.Equal(oldB, newB) {
		return ""
	}
	seq := appendEdits(oldB, newB)
	if seq == nil {
		seq = lineEdits(splitLines(oldB), splitLines(newB))
	}

	var out strings.Builder
	fmt.Fprintf(&out, "diff --git a/%s b/%s\n", rel, rel)
	fmt.Fprintf(&out, "index %s..%s 100644\n", shortSHA(oldB), shortSHA(newB))
	fmt.Fprintf(&out, "--- a/%s\n", rel)
	fmt.Fprintf(&out, "+++ b/%s\n", rel)

	const context = 3
	var hunk []edit
	var startOld, startNew, countOld, countNew, trailing int
	oldLine, newLine := 0, 0

	flush := func() {
		if len(hunk) == 0 {
			return
		}
		fmt.Fprintf(&out, "@@ -%d,%d +%d,%d @@\n", startOld+1, countOld, startNew+1, countNew)
		for _, e := range hunk {
			out.WriteByte(e.tag)
			out.WriteString(e.txt)
			out.WriteByte('\n')
		}
		hunk = hunk[:0]
	}

	inHunk := false
	for idx, e := range seq {
		if e.tag != ' ' {
			if !inHunk {
				inHunk = true
				lead := min(context, idx)
				// lead context lines are unchanged, so both counters step back equally
				startOld, startNew = oldLine-lead, newLine-lead
				hunk = append(hunk, seq[idx-lead:idx]...)
				countOld, countNew = lead, lead
			}
			trailing = 0
			hunk = append(hunk, e)
			if e.tag == '-' {
				countOld++
			} else {
				countNew++
			}
		} else if inHunk {
			hunk = append(hunk, e)
			countOld++
			countNew++
			trailing++
			end := min(idx+context+1, len(seq))
			if trailing >= context && !hasChangeAhead(seq[idx+1:end]) {
				flush()
				inHunk = false
			}
		}

		switch e.tag {
		case ' ':
			oldLine++
			newLine++
		case '-':
			oldLine++
		case '+':
			newLine++
		}
	}
	if inHunk {
		flush()
	}
	return out.String()
}

// appendEdits is the linear edit script for newB = oldB + tail when oldB ends
// on a line boundary. It returns nil for any other change.
func appendEdits(oldB, newB []byte) []edit {
	if len(oldB) > 0 && oldB[len(oldB)-1] != '\n' {
		return nil
	}
	if len(newB) <= len(oldB) || !bytes.HasPrefix(newB, oldB) {
		return nil
	}
	oldLines, added := splitLines(oldB), splitLines(newB[len(oldB):])
	seq := make([]edit, 0, len(oldLines)+len(added))
	for _, l := range oldLines {
		seq = append(seq, edit{' ', l})
	}
	for _, l := range added {
		seq = append(seq, edit{'+', l})
	}
	return seq
}

// lineEdits computes an LCS-based edit script.
func lineEdits(oldLines, newLines []string) []edit {
	n, m := len(oldLines), len(newLines)
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if oldLines[i] == newLines[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	var seq []edit
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case oldLines[i] == newLines[j]:
			seq = append(seq, edit{' ', oldLines[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			seq = append(seq, edit{'-', oldLines[i]})
			i++
		default:
			seq = append(seq, edit{'+', newLines[j]})
			j++
		}
	}
	for ; i < n; i++ {
		seq = append(seq, edit{'-', oldLines[i]})
	}
	for ; j < m; j++ {
		seq = append(seq, edit{'+', newLines[j]})
	}
	return seq
}

func shortSHA(b []byte) string {
	h := sha1.Sum(b)
	return fmt.Sprintf("%x", h[:3])
}

func hasChangeAhead(next []edit) bool {
	for _, e := range next {
		if e.tag != ' ' {
			return true
		}
	}
	return false
}
