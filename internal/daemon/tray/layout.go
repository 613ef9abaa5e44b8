package tray

import (
	"fmt"

	"github.com/indicator-tide/indicator-tide/internal/menu"
)

// slot is what one pre-allocated menu position should display.
type slot struct {
	Title    string
	URL      string
	Enabled  bool
	Group    bool
	Children []slot
}

// layout maps a menu tree onto at most roots top-level slots, each group
// holding at most children entries. Overflow collapses into a disabled
// "…and N more" entry.
func layout(root *menu.Node, roots, children int) []slot {
	if root == nil {
		return nil
	}
	return fit(root.Children, roots, func(n *menu.Node) slot {
		s := slot{Title: n.Label, URL: n.URL, Enabled: n.Enabled, Group: n.IsGroup()}
		if s.Group {
			s.Children = fit(n.Children, children, func(c *menu.Node) slot {
				return slot{Title: c.Label, URL: c.URL, Enabled: c.Enabled}
			})
		}
		return s
	})
}

func fit(nodes []*menu.Node, limit int, conv func(*menu.Node) slot) []slot {
	n := len(nodes)
	if n > limit {
		n = limit - 1
	}
	out := make([]slot, 0, limit)
	for _, node := range nodes[:n] {
		out = append(out, conv(node))
	}
	if n < len(nodes) {
		out = append(out, slot{Title: fmt.Sprintf("…and %d more", len(nodes)-n)})
	}
	return out
}

func formatTooltip(headline string) string {
	if headline == "" {
		return "Tide"
	}
	return "Tide: " + headline
}
