package src

import (
	"context"
	"fmt"
	"strings"
)

const indentUnit = 4

// StructureNode is one path segment of a proposed project layout.
// Children keep the order in which they were first seen.
type StructureNode struct {
	Name     string           `json:"name"`
	Children []*StructureNode `json:"children,omitempty"`
	index    map[string]*StructureNode
}

// Structure is the root of a project layout tree; the root itself has no name.
type Structure struct {
	StructureNode
}

func NewStructure() *Structure { return &Structure{} }

func (n *StructureNode) Child(name string) (*StructureNode, bool) {
	c, ok := n.index[name]
	return c, ok
}

func (n *StructureNode) IsLeaf() bool { return len(n.Children) == 0 }

func (n *StructureNode) ensureChild(name string) *StructureNode {
	if c, ok := n.index[name]; ok {
		return c
	}
	if n.index == nil {
		n.index = map[string]*StructureNode{}
	}
	c := &StructureNode{Name: name}
	n.index[name] = c
	n.Children = append(n.Children, c)
	return c
}

// Insert adds the node at path, creating intermediate nodes as needed.
func (s *Structure) Insert(path []string) {
	cur := &s.StructureNode
	for _, seg := range path {
		cur = cur.ensureChild(seg)
	}
}

// Len counts every node below the root.
func (s *Structure) Len() int {
	var count func(n *StructureNode) int
	count = func(n *StructureNode) int {
		total := len(n.Children)
		for _, c := range n.Children {
			total += count(c)
		}
		return total
	}
	return count(&s.StructureNode)
}

// Format renders the tree as indented text, one segment per line, each level
// indented by four spaces and every name followed by a separator.
func (s *Structure) Format() string {
	var lines []string
	var walk func(depth int, n *StructureNode)
	walk = func(depth int, n *StructureNode) {
		for _, c := range n.Children {
			lines = append(lines, strings.Repeat(" ", depth*indentUnit)+c.Name+"/")
			walk(depth+1, c)
		}
	}
	walk(0, &s.StructureNode)
	return strings.Join(lines, "\n")
}

// tree-drawing prefixes models like to emit; each is one indent unit wide
var treeGlyphs = []string{"├── ", "└── ", "│   ", "|-- ", "`-- ", "|   "}

// ParseStructure builds a tree from indentation-delimited text.
//
// depth = indentation/4. The current path is cut to depth entries before the
// segment is appended. A depth deeper than the current path resets it, so the
// segment lands at the root.
func ParseStructure(text string) *Structure {
	s := NewStructure()
	var current []string

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent, rest := measureIndent(line)
		name := cleanSegment(rest)
		if name == "" {
			continue
		}

		depth := indent / indentUnit
		if depth > len(current) {
			current = current[:0]
		} else {
			current = current[:depth]
		}
		current = append(current, name)
		s.Insert(current)
	}
	return s
}

func measureIndent(line string) (int, string) {
	cols := 0
	for {
		switch {
		case strings.HasPrefix(line, " "):
			cols++
			line = line[1:]
		case strings.HasPrefix(line, "\t"):
			cols += indentUnit
			line = line[1:]
		default:
			matched := false
			for _, g := range treeGlyphs {
				if strings.HasPrefix(line, g) {
					cols += indentUnit
					line = line[len(g):]
					matched = true
					break
				}
			}
			if !matched {
				return cols, line
			}
		}
	}
}

func cleanSegment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, `/\`)
	s = strings.NewReplacer("/", "_", `\`, "_").Replace(s)
	return strings.TrimSpace(s)
}

// RequestStructure asks the model for a directory layout for goal.
func RequestStructure(ctx context.Context, gw Gateway, goal string) (*Structure, string, error) {
	messages := []Message{
		SystemMessage(PlannerSystemPrompt),
		UserMessage(fmt.Sprintf(StructurePromptTemplate, goal)),
	}
	resp, err := gw.Complete(ctx, messages)
	if err != nil {
		return nil, "", fmt.Errorf("request structure: %w", err)
	}
	return ParseStructure(stripFences(resp)), resp, nil
}

// stripFences drops ``` marker lines so a fenced tree parses like a bare one.
func stripFences(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "```") {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
