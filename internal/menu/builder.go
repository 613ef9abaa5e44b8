package menu

import (
	"fmt"

	"github.com/indicator-tide/indicator-tide/pkg/tidesdk"
)

// Labels for informational leaves.
const (
	LabelNoData       = "No data"
	LabelScriptNotSet = "User script not set"
	LabelScriptError  = "User script error"
	LabelFetchError   = "Error getting data"
	HeadlineNoData    = "Error"
)

// Status is reported alongside the tree so the host can flag the headline.
type Status int

const (
	StatusOK Status = iota
	StatusNoData
)

func (s Status) String() string {
	if s == StatusNoData {
		return "no-data"
	}
	return "ok"
}

// Options control the tree layout.
type Options struct {
	ShowAsSubmenus bool
	ExceptFirstDay bool
	// Today is compared against Reading.Date when ExceptFirstDay is set.
	Today string
}

// Build lays out readings, which must already be ordered by (date, time).
func Build(readings []tidesdk.Reading, opts Options) (*Node, Status) {
	if len(readings) == 0 {
		return Message(LabelNoData), StatusNoData
	}

	root := NewGroup("")
	root.Append(NewDisabledLeaf(readings[0].Location))

	if !opts.ShowAsSubmenus {
		for _, r := range readings {
			root.Append(leafFor(r))
		}
		return root, StatusOK
	}

	var (
		group   *Node
		openKey string
		hasKey  bool
	)
	for _, r := range readings {
		if !hasKey || r.Date != openKey {
			openKey, hasKey = r.Date, true
			group = nil
			if !(opts.ExceptFirstDay && r.Date == opts.Today) {
				group = NewGroup(r.Date)
				root.Append(group)
			}
		}
		if group == nil {
			root.Append(leafFor(r))
		} else {
			group.Append(leafFor(r))
		}
	}
	return root, StatusOK
}

// Label formats a reading as "High (04:07 AM): 4.2 m".
func Label(r tidesdk.Reading) string {
	kind := "Low"
	if r.IsHigh {
		kind = "High"
	}
	return fmt.Sprintf("%s (%s): %s", kind, r.Time, r.Level)
}

func leafFor(r tidesdk.Reading) *Node {
	return NewLeaf(Label(r), r.URL)
}
