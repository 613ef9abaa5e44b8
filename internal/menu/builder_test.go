package menu

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indicator-tide/indicator-tide/pkg/tidesdk"
)

func portsmouth() []tidesdk.Reading {
	return []tidesdk.Reading{
		{Date: "Mon Aug 04", Time: "High", Location: "Portsmouth", IsHigh: true, Level: "3.2m", URL: "u1"},
		{Date: "Mon Aug 04", Time: "Low", Location: "Portsmouth", IsHigh: false, Level: "0.8m", URL: "u2"},
		{Date: "Tue Aug 05", Time: "High", Location: "Portsmouth", IsHigh: true, Level: "3.4m", URL: "u3"},
	}
}

func TestBuild_Empty(t *testing.T) {
	for name, opts := range map[string]Options{
		"flat":    {},
		"grouped": {ShowAsSubmenus: true, ExceptFirstDay: true, Today: "Mon Aug 04"},
	} {
		t.Run(name, func(t *testing.T) {
			root, status := Build(nil, opts)
			assert.Equal(t, StatusNoData, status)

			want := &Node{Kind: KindGroup, Enabled: true, Children: []*Node{
				{Kind: KindLeaf, Label: "No data"},
			}}
			if diff := cmp.Diff(want, root); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuild_GroupedPortsmouth(t *testing.T) {
	root, status := Build(portsmouth(), Options{ShowAsSubmenus: true})
	assert.Equal(t, StatusOK, status)

	want := &Node{Kind: KindGroup, Enabled: true, Children: []*Node{
		{Kind: KindLeaf, Label: "Portsmouth"},
		{Kind: KindGroup, Label: "Mon Aug 04", Enabled: true, Children: []*Node{
			{Kind: KindLeaf, Label: "High (High): 3.2m", URL: "u1", Enabled: true},
			{Kind: KindLeaf, Label: "Low (Low): 0.8m", URL: "u2", Enabled: true},
		}},
		{Kind: KindGroup, Label: "Tue Aug 05", Enabled: true, Children: []*Node{
			{Kind: KindLeaf, Label: "High (High): 3.4m", URL: "u3", Enabled: true},
		}},
	}}
	if diff := cmp.Diff(want, root); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_FlatPortsmouth(t *testing.T) {
	root, _ := Build(portsmouth(), Options{})

	require.Len(t, root.Children, 4)
	header := root.Children[0]
	assert.Equal(t, "Portsmouth", header.Label)
	assert.False(t, header.Enabled)
	assert.False(t, header.Actionable())

	assert.Equal(t, []string{"High (High): 3.2m", "Low (Low): 0.8m", "High (High): 3.4m"},
		labels(root.Children[1:]))
	assert.Empty(t, root.Groups())
}

func TestBuild_ExceptFirstDay(t *testing.T) {
	root, _ := Build(portsmouth(), Options{ShowAsSubmenus: true, ExceptFirstDay: true, Today: "Mon Aug 04"})

	want := &Node{Kind: KindGroup, Enabled: true, Children: []*Node{
		{Kind: KindLeaf, Label: "Portsmouth"},
		{Kind: KindLeaf, Label: "High (High): 3.2m", URL: "u1", Enabled: true},
		{Kind: KindLeaf, Label: "Low (Low): 0.8m", URL: "u2", Enabled: true},
		{Kind: KindGroup, Label: "Tue Aug 05", Enabled: true, Children: []*Node{
			{Kind: KindLeaf, Label: "High (High): 3.4m", URL: "u3", Enabled: true},
		}},
	}}
	if diff := cmp.Diff(want, root); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_ExceptFirstDayWithoutTodayGroupsEverything(t *testing.T) {
	root, _ := Build(portsmouth(), Options{ShowAsSubmenus: true, ExceptFirstDay: true, Today: "Sun Aug 03"})
	assert.Len(t, root.Groups(), 2)
}

func TestBuild_ExceptFirstDayIgnoredWhenFlat(t *testing.T) {
	root, _ := Build(portsmouth(), Options{ExceptFirstDay: true, Today: "Mon Aug 04"})
	assert.Empty(t, root.Groups())
	assert.Len(t, root.Children, 4)
}

func TestBuild_RepeatedDateAfterGapOpensNewGroup(t *testing.T) {
	readings := []tidesdk.Reading{
		{Date: "A", Time: "1"}, {Date: "B", Time: "2"}, {Date: "A", Time: "3"},
	}
	root, _ := Build(readings, Options{ShowAsSubmenus: true})
	assert.Equal(t, []string{"A", "B", "A"}, labels(root.Groups()))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "High (04:07 AM): 4.2 m", Label(tidesdk.Reading{IsHigh: true, Time: "04:07 AM", Level: "4.2 m"}))
	assert.Equal(t, "Low (10:31 AM): 0.9 m", Label(tidesdk.Reading{Time: "10:31 AM", Level: "0.9 m"}))
}

// randomReadings returns a date-ordered sequence over a handful of days.
func randomReadings(rng *rand.Rand) []tidesdk.Reading {
	var out []tidesdk.Reading
	days := 1 + rng.Intn(6)
	for d := 0; d < days; d++ {
		for e := 0; e < 1+rng.Intn(4); e++ {
			out = append(out, tidesdk.Reading{
				Date:     fmt.Sprintf("Day %02d", d),
				Time:     fmt.Sprintf("%02d:00 AM", e),
				Location: "Anywhere",
				IsHigh:   e%2 == 0,
				Level:    fmt.Sprintf("%d.0 m", rng.Intn(9)),
				URL:      fmt.Sprintf("https://example.test/%d/%d", d, e),
			})
		}
	}
	return out
}

func TestBuild_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		readings := randomReadings(rng)

		flat, _ := Build(readings, Options{})
		flatLeaves := flat.Children[1:]
		require.Len(t, flatLeaves, len(readings))
		for j, r := range readings {
			assert.Equal(t, Label(r), flatLeaves[j].Label)
		}

		grouped, _ := Build(readings, Options{ShowAsSubmenus: true})
		byDate := map[string][]string{}
		var dates []string
		for _, r := range readings {
			if _, ok := byDate[r.Date]; !ok {
				dates = append(dates, r.Date)
			}
			byDate[r.Date] = append(byDate[r.Date], Label(r))
		}
		groups := grouped.Groups()
		require.Len(t, groups, len(dates))
		for j, g := range groups {
			assert.Equal(t, dates[j], g.Label)
			assert.Equal(t, byDate[g.Label], labels(g.Children))
		}

		today := readings[0].Date
		mixed, _ := Build(readings, Options{ShowAsSubmenus: true, ExceptFirstDay: true, Today: today})
		for _, g := range mixed.Groups() {
			assert.NotEqual(t, today, g.Label)
		}
		rootLeaves := mixed.Children[1 : 1+len(byDate[today])]
		assert.Equal(t, byDate[today], labels(rootLeaves))
		assert.Len(t, mixed.Groups(), len(dates)-1)
		assert.Len(t, mixed.Leaves(), len(readings)+1)
	}
}

func TestNode_Walk(t *testing.T) {
	root, _ := Build(portsmouth(), Options{ShowAsSubmenus: true})

	var visited []string
	root.Walk(func(n *Node, depth int) bool {
		visited = append(visited, fmt.Sprintf("%d:%s", depth, n.Label))
		return n.Label != "Mon Aug 04"
	})
	assert.Equal(t, []string{"0:", "1:Portsmouth", "1:Mon Aug 04", "1:Tue Aug 05", "2:High (High): 3.4m"}, visited)
}

func labels(nodes []*Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Label)
	}
	return out
}
