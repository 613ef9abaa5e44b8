package main

import "github.com/indicator-tide/indicator-tide/pkg/tidesdk"

func Provide(req tidesdk.Request) ([]tidesdk.Reading, error) {
	return []tidesdk.Reading{
		{Date: "Tuesday June 02", Time: "05:00 AM", Location: "Main Port", IsHigh: true, Level: "3.0 m"},
	}, nil
}
