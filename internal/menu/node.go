// Package menu turns tide readings into the applet's menu tree.
package menu

// Kind distinguishes leaves from groups.
type Kind int

const (
	KindLeaf Kind = iota
	KindGroup
)

func (k Kind) String() string {
	if k == KindGroup {
		return "group"
	}
	return "leaf"
}

// Node is one entry of the menu tree. The root is a group without a label.
type Node struct {
	Kind     Kind
	Label    string
	URL      string
	Enabled  bool
	Children []*Node
}

// NewGroup creates an enabled group node.
func NewGroup(label string) *Node {
	return &Node{Kind: KindGroup, Label: label, Enabled: true}
}

// NewLeaf creates an enabled leaf that opens url when activated.
func NewLeaf(label, url string) *Node {
	return &Node{Kind: KindLeaf, Label: label, URL: url, Enabled: true}
}

// NewDisabledLeaf creates an informational leaf.
func NewDisabledLeaf(label string) *Node {
	return &Node{Kind: KindLeaf, Label: label}
}

// Message returns a root holding a single disabled leaf.
func Message(label string) *Node {
	root := NewGroup("")
	root.Append(NewDisabledLeaf(label))
	return root
}

// IsGroup reports whether n can hold children.
func (n *Node) IsGroup() bool {
	return n.Kind == KindGroup
}

// Actionable reports whether activating n does something.
func (n *Node) Actionable() bool {
	return n.Kind == KindLeaf && n.Enabled && n.URL != ""
}

// Append adds children to a group.
func (n *Node) Append(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// Walk visits n and its descendants depth-first. The root has depth 0.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Leaves returns every leaf below n in display order.
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.Walk(func(node *Node, _ int) bool {
		if node.Kind == KindLeaf {
			out = append(out, node)
		}
		return true
	})
	return out
}

// Groups returns the groups directly below n.
func (n *Node) Groups() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.IsGroup() {
			out = append(out, c)
		}
	}
	return out
}
