package cli

import (
	"strings"

	"github.com/indicator-tide/indicator-tide/internal/menu"
)

// renderTree formats a menu tree for the terminal. Without styling it is
// identical to menu.Text.
func renderTree(root *menu.Node, styled bool) string {
	if !styled {
		return menu.Text(root)
	}
	if root == nil {
		return ""
	}

	var b strings.Builder
	root.Walk(func(n *menu.Node, depth int) bool {
		if n == root {
			return true
		}
		b.WriteString(strings.Repeat("  ", depth-1))
		switch {
		case n.IsGroup():
			b.WriteString(styleDay.Render(n.Label))
		case !n.Enabled:
			b.WriteString(styleDisabled.Render(n.Label))
		case strings.HasPrefix(n.Label, "High"):
			b.WriteString(styleHigh.Render("▲ " + n.Label))
		default:
			b.WriteString(styleLow.Render("▼ " + n.Label))
		}
		if n.Actionable() {
			b.WriteString("  " + styleHint.Render(n.URL))
		}
		b.WriteByte('\n')
		return true
	})
	return b.String()
}
