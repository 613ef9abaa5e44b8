package useshelper

import (
	"helpers"

	"github.com/indicator-tide/indicator-tide/pkg/tidesdk"
)

func Tides(req tidesdk.Request) ([]tidesdk.Reading, error) {
	return []tidesdk.Reading{
		{Date: "Monday June 01", Time: "04:07 AM", Location: helpers.PortName(req.SeaportID), IsHigh: true, Level: "4.2 m"},
	}, nil
}
