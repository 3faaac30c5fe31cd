package dom

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Row is one rendered terminal row and the node it came from.
type Row struct {
	Text string
	Node *Node
}

// placeholder is the single row an image occupies until it loads.
func placeholder(src string) string {
	return "[loading " + src + "]"
}

// layoutRows appends the rows n occupies at width to rows. Text and images
// always occupy at least one row; elements occupy the sum of their children.
func layoutRows(rows []Row, n *Node, width int) []Row {
	switch n.kind {
	case TextNode:
		return appendWrapped(rows, n, n.text, width)
	case ImageNode:
		if !n.complete {
			return append(rows, Row{Text: placeholder(n.text), Node: n})
		}
		if len(n.content) == 0 {
			return append(rows, Row{Node: n})
		}
		for _, line := range n.content {
			rows = appendWrapped(rows, n, line, width)
		}
		return rows
	default:
		for _, c := range n.children {
			rows = layoutRows(rows, c, width)
		}
		return rows
	}
}

func appendWrapped(rows []Row, n *Node, text string, width int) []Row {
	if width > 0 {
		text = ansi.Hardwrap(text, width, true)
	}
	for _, line := range strings.Split(text, "\n") {
		rows = append(rows, Row{Text: line, Node: n})
	}
	return rows
}
