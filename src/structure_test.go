package src

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(nodes []*StructureNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

func TestParseStructureNesting(t *testing.T) {
	text := "calculator/\n    src/\n        main.py\n        ops.py\n    tests/\n        test_ops.py\n    README.md\n"
	s := ParseStructure(text)

	require.Equal(t, []string{"calculator"}, names(s.Children))
	calc, ok := s.Child("calculator")
	require.True(t, ok)
	assert.Equal(t, []string{"src", "tests", "README.md"}, names(calc.Children))

	src, ok := calc.Child("src")
	require.True(t, ok)
	assert.Equal(t, []string{"main.py", "ops.py"}, names(src.Children))
	readme, _ := calc.Child("README.md")
	assert.True(t, readme.IsLeaf())
	assert.Equal(t, 7, s.Len())
}

func TestParseStructureSkipsBlankLinesAndStripsSeparators(t *testing.T) {
	s := ParseStructure("app\\\n\n    lib//\n\n        util.go\n")
	app, ok := s.Child("app")
	require.True(t, ok)
	lib, ok := app.Child("lib")
	require.True(t, ok)
	_, ok = lib.Child("util.go")
	assert.True(t, ok)
}

func TestParseStructureDepthJumpInsertsAtRoot(t *testing.T) {
	s := ParseStructure("root/\n            deep.txt\n")
	assert.Equal(t, []string{"root", "deep.txt"}, names(s.Children))
	root, _ := s.Child("root")
	assert.True(t, root.IsLeaf())
}

func TestParseStructureTreeGlyphsAndTabs(t *testing.T) {
	glyphs := ParseStructure("proj/\n├── cmd/\n│   └── main.go\n└── go.mod\n")
	proj, ok := glyphs.Child("proj")
	require.True(t, ok)
	assert.Equal(t, []string{"cmd", "go.mod"}, names(proj.Children))
	cmd, _ := proj.Child("cmd")
	assert.Equal(t, []string{"main.go"}, names(cmd.Children))

	tabs := ParseStructure("a/\n\tb/\n\t\tc.txt\n")
	a, _ := tabs.Child("a")
	b, ok := a.Child("b")
	require.True(t, ok)
	assert.Equal(t, []string{"c.txt"}, names(b.Children))
}

func TestParseStructureMergesRepeatedPaths(t *testing.T) {
	s := ParseStructure("a/\n    b/\na/\n    c/\n")
	require.Len(t, s.Children, 1)
	a, _ := s.Child("a")
	assert.Equal(t, []string{"b", "c"}, names(a.Children))
}

func TestStructureFormatRoundTrip(t *testing.T) {
	inputs := []string{
		"calculator/\n    src/\n        main.py\n    README.md\n",
		"a\nb\n    c\n        d\n    e\nf\n",
		"x/\n    y/\n        z/\n            deep.go\n    w.go\n",
	}
	for _, in := range inputs {
		first := ParseStructure(in)
		formatted := first.Format()
		second := ParseStructure(formatted)
		assert.Equal(t, formatted, second.Format(), "input %q", in)
		assert.Equal(t, first.Len(), second.Len())
	}
}

func TestStructureFormat(t *testing.T) {
	s := NewStructure()
	s.Insert([]string{"app", "main.go"})
	s.Insert([]string{"app", "README.md"})
	s.Insert([]string{"docs"})
	assert.Equal(t, "app/\n    main.go/\n    README.md/\ndocs/", s.Format())
}

func TestRequestStructureStripsFences(t *testing.T) {
	var got []Message
	gw := GatewayFunc(func(_ context.Context, msgs []Message) (string, error) {
		got = msgs
		return "```\nshop/\n    api.py\n```", nil
	})
	s, raw, err := RequestStructure(context.Background(), gw, "Build a shop")
	require.NoError(t, err)
	assert.Contains(t, raw, "shop/")
	require.Len(t, got, 2)
	assert.Equal(t, RoleSystem, got[0].Role)
	assert.Contains(t, got[1].Content, "Build a shop")

	shop, ok := s.Child("shop")
	require.True(t, ok)
	assert.Equal(t, []string{"api.py"}, names(shop.Children))
}
