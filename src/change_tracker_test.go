package src

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeTrackerDiffHunk(t *testing.T) {
	old := "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n"
	updated := strings.Replace(old, "5\n", "X\n", 1)

	diff := NewChangeTracker().Diff("f.txt", []byte(old), []byte(updated))
	assert.True(t, strings.HasPrefix(diff, "diff --git a/f.txt b/f.txt\nindex "))
	assert.Contains(t, diff, "--- a/f.txt\n+++ b/f.txt\n")
	assert.Contains(t, diff, "@@ -2,7 +2,7 @@\n 2\n 3\n 4\n-5\n+X\n 6\n 7\n 8\n")
	assert.NotContains(t, diff, " 9\n")
}

func TestChangeTrackerDiffNewFile(t *testing.T) {
	diff := NewChangeTracker().Diff("app.py", nil, []byte("a\nb\n"))
	assert.Contains(t, diff, "+a\n+b\n")
}

func TestChangeTrackerDiffEqual(t *testing.T) {
	assert.Empty(t, NewChangeTracker().Diff("x", []byte("same"), []byte("same")))
}

func TestChangeTrackerAppendMatchesFullDiff(t *testing.T) {
	old := []byte("1\n2\n3\n4\n5\n")
	updated := append(append([]byte(nil), old...), "6\n7\n"...)

	fast := appendEdits(old, updated)
	require.NotNil(t, fast)
	assert.Equal(t, lineEdits(splitLines(old), splitLines(updated)), fast)

	diff := NewChangeTracker().Diff("f.txt", old, updated)
	assert.Contains(t, diff, "@@ -3,3 +3,5 @@\n 3\n 4\n 5\n+6\n+7\n")
}

func TestChangeTrackerAppendFastPathIsLinear(t *testing.T) {
	var old strings.Builder
	for i := 0; i < 50000; i++ {
		old.WriteString("line\n")
	}
	updated := old.String() + "tail\n"

	// a full LCS table for this input would need tens of gigabytes
	diff := NewChangeTracker().Diff("big_temp.py", []byte(old.String()), []byte(updated))
	assert.True(t, strings.HasSuffix(diff, " line\n line\n line\n+tail\n"))
}

func TestAppendEditsFallsBack(t *testing.T) {
	assert.Nil(t, appendEdits([]byte("a"), []byte("ab\n")), "old content without a trailing newline")
	assert.Nil(t, appendEdits([]byte("a\n"), []byte("b\n")), "not an append")
	assert.Nil(t, appendEdits([]byte("a\n"), []byte("a\n")), "nothing appended")
}

func TestChangeTrackerTurns(t *testing.T) {
	tr := NewChangeTracker()
	assert.Equal(t, uint64(1), tr.BeginTurn())
	assert.Equal(t, uint64(2), tr.BeginTurn())
}
