package menu

import "strings"

// Text renders the tree as indented plain text, one node per line. Groups
// are followed by a colon; disabled leaves are wrapped in brackets.
func Text(root *Node) string {
	if root == nil {
		return ""
	}
	var b strings.Builder
	root.Walk(func(n *Node, depth int) bool {
		if n == root {
			return true
		}
		b.WriteString(strings.Repeat("  ", depth-1))
		switch {
		case n.IsGroup():
			b.WriteString(n.Label + ":")
		case !n.Enabled:
			b.WriteString("[" + n.Label + "]")
		default:
			b.WriteString(n.Label)
		}
		b.WriteByte('\n')
		return true
	})
	return b.String()
}
