package view

import (
	"fmt"
	"io"

	"github.com/Lemonzyy/nbt-sniffer/pkg/extract"
	"github.com/charmbracelet/lipgloss/tree"
)

// PrintTrees renders per-source summary trees, one per scanned file that
// held matches.
func PrintTrees(w io.Writer, roots []*extract.SummaryNode) {
	if len(roots) == 0 {
		return
	}
	fmt.Fprintln(w, headerStyle.Render("Per-source summary"))
	for _, root := range roots {
		fmt.Fprintln(w, buildTree(root).String())
	}
	fmt.Fprintln(w)
}

func buildTree(node *extract.SummaryNode) *tree.Tree {
	t := tree.Root(node.Display())
	for _, child := range node.Children {
		if len(child.Children) == 0 {
			t.Child(child.Display())
			continue
		}
		t.Child(buildTree(child))
	}
	return t
}
