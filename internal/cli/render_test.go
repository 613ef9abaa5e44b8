package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/indicator-tide/indicator-tide/internal/menu"
)

func sampleTree() *menu.Node {
	root := menu.NewGroup("")
	day := menu.NewGroup("Monday August 04")
	day.Append(
		menu.NewLeaf("High (04:07 AM): 4.20m", "https://example.com/tides"),
		menu.NewLeaf("Low (10:31 AM): 0.80m", ""),
	)
	root.Append(day, menu.NewDisabledLeaf("Tuesday August 05"))
	return root
}

func TestRenderTree_PlainMatchesText(t *testing.T) {
	root := sampleTree()
	assert.Equal(t, menu.Text(root), renderTree(root, false))
}

func TestRenderTree_Styled(t *testing.T) {
	out := renderTree(sampleTree(), true)
	assert.Contains(t, out, "High (04:07 AM): 4.20m")
	assert.Contains(t, out, "https://example.com/tides")
	assert.Contains(t, out, "Low (10:31 AM): 0.80m")
	assert.Contains(t, out, "Tuesday August 05")
	assert.Empty(t, renderTree(nil, true))
}
