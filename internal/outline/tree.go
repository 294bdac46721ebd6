package outline

import (
	"fmt"
	"io"
	"strings"
)

// Node is an outline entry together with the deeper entries that follow it.
type Node struct {
	Entry    Entry  `json:"entry"`
	Children []Node `json:"children,omitempty"`
}

// Nest turns the flat, level-annotated outline into a tree. An entry becomes
// a child of the closest preceding entry with a shallower level; entries with
// no such predecessor are roots. Skipped levels (H1 followed by H3) nest
// directly.
func Nest(entries []Entry) []Node {
	// parent[i] is the index of entry i's parent, or -1 for roots.
	parent := make([]int, len(entries))
	var stack []int
	for i, e := range entries {
		for len(stack) > 0 && entries[stack[len(stack)-1]].Level >= e.Level {
			stack = stack[:len(stack)-1]
		}
		parent[i] = -1
		if len(stack) > 0 {
			parent[i] = stack[len(stack)-1]
		}
		stack = append(stack, i)
	}

	children := make([][]int, len(entries))
	var roots []int
	for i, p := range parent {
		if p < 0 {
			roots = append(roots, i)
			continue
		}
		children[p] = append(children[p], i)
	}

	var build func(i int) Node
	build = func(i int) Node {
		n := Node{Entry: entries[i]}
		for _, c := range children[i] {
			n.Children = append(n.Children, build(c))
		}
		return n
	}
	out := make([]Node, 0, len(roots))
	for _, r := range roots {
		out = append(out, build(r))
	}
	return out
}

// WriteTree prints the document title and its heading tree, two spaces of
// indentation per nesting step.
func WriteTree(w io.Writer, doc Document) error {
	if _, err := fmt.Fprintln(w, doc.Title); err != nil {
		return err
	}
	var walk func(nodes []Node, depth int) error
	walk = func(nodes []Node, depth int) error {
		for _, n := range nodes {
			indent := strings.Repeat("  ", depth+1)
			if _, err := fmt.Fprintf(w, "%s%s %s (p. %d)\n", indent, n.Entry.Level, n.Entry.Text, n.Entry.Page); err != nil {
				return err
			}
			if err := walk(n.Children, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(Nest(doc.Outline), 0)
}
