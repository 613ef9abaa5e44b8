// Package tidesdk is the contract between indicator-tide and tide data providers.
//
// A provider is a Go source file interpreted at runtime. It imports this package
// and exposes, under the class name configured in the preferences, either a
// function
//
//	func(tidesdk.Request) ([]tidesdk.Reading, error)
//
// or a value with a GetTideData method of that signature.
//
// Readings must be returned in ascending (date, time) order. The applet groups
// consecutive readings by their Date string and does not re-sort them.
package tidesdk

import "time"

// Layouts used by FormatDate and FormatTime. The applet formats its notion of
// "today" with DateLayout, so providers that use it get the except-first-day
// menu behaviour for free.
const (
	DateLayout = "Monday January 02"
	TimeLayout = "03:04 PM"
)

// Logger is the logging sink handed to providers. A nil Logger is valid and
// providers should check before use.
type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Errorf(template string, args ...interface{})
}

// Request carries the parameters of one GetTideData call.
type Request struct {
	Logger              Logger
	URLTimeoutInSeconds int
	DurationDays        int
	SeaportID           string
}

// Reading is one tidal high or low event.
type Reading struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
	IsHigh   bool   `json:"isHigh"`
	Level    string `json:"level"`
	URL      string `json:"url"`
}

// GetTideDataFunc is the provider entry point.
type GetTideDataFunc func(req Request) ([]Reading, error)

// Getter is implemented by provider values that expose the entry point as a method.
type Getter interface {
	GetTideData(req Request) ([]Reading, error)
}

// FormatDate formats t as a day key.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatTime formats the clock time of t for display.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// Timeout converts the advisory timeout into a duration.
func (r Request) Timeout() time.Duration {
	return time.Duration(r.URLTimeoutInSeconds) * time.Second
}
