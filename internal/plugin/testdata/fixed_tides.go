package fixedtides

import (
	"errors"

	"github.com/indicator-tide/indicator-tide/pkg/tidesdk"
)

var NotAProvider = 42

func FixedTides(req tidesdk.Request) ([]tidesdk.Reading, error) {
	if req.SeaportID == "" {
		return nil, errors.New("seaport id required")
	}
	return []tidesdk.Reading{
		{Date: "Monday June 01", Time: "04:07 AM", Location: "Test Harbour " + req.SeaportID, IsHigh: true, Level: "4.2 m"},
		{Date: "Monday June 01", Time: "10:31 AM", Location: "Test Harbour " + req.SeaportID, IsHigh: false, Level: "0.9 m"},
	}, nil
}

type StaticGetter struct{}

func (StaticGetter) GetTideData(req tidesdk.Request) ([]tidesdk.Reading, error) {
	return FixedTides(req)
}

func WrongSignature(days int) string {
	return "nope"
}

type PointerGetter struct {
	calls int
}

func (p *PointerGetter) GetTideData(req tidesdk.Request) ([]tidesdk.Reading, error) {
	p.calls++
	return FixedTides(req)
}

var SharedGetter = &PointerGetter{}
