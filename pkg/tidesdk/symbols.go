package tidesdk

import "reflect"

// ImportPath is the path providers use to import this package.
const ImportPath = "github.com/indicator-tide/indicator-tide/pkg/tidesdk"

// Symbols exposes this package to the plugin interpreter, in the same shape
// as the tables produced by `yaegi extract`.
var Symbols = map[string]map[string]reflect.Value{
	ImportPath + "/tidesdk": {
		"DateLayout": reflect.ValueOf(DateLayout),
		"TimeLayout": reflect.ValueOf(TimeLayout),
		"FormatDate": reflect.ValueOf(FormatDate),
		"FormatTime": reflect.ValueOf(FormatTime),

		"GetTideDataFunc": reflect.ValueOf((*GetTideDataFunc)(nil)),
		"Getter":          reflect.ValueOf((*Getter)(nil)),
		"Logger":          reflect.ValueOf((*Logger)(nil)),
		"Reading":         reflect.ValueOf((*Reading)(nil)),
		"Request":         reflect.ValueOf((*Request)(nil)),

		"_Getter": reflect.ValueOf((*_tidesdk_Getter)(nil)),
		"_Logger": reflect.ValueOf((*_tidesdk_Logger)(nil)),
	},
}

// _tidesdk_Getter lets interpreted types satisfy Getter.
type _tidesdk_Getter struct {
	IValue       interface{}
	WGetTideData func(req Request) ([]Reading, error)
}

func (W _tidesdk_Getter) GetTideData(req Request) ([]Reading, error) {
	return W.WGetTideData(req)
}

// _tidesdk_Logger lets interpreted types satisfy Logger.
type _tidesdk_Logger struct {
	IValue  interface{}
	WDebugf func(template string, args ...interface{})
	WErrorf func(template string, args ...interface{})
	WInfof  func(template string, args ...interface{})
}

func (W _tidesdk_Logger) Debugf(template string, args ...interface{}) {
	W.WDebugf(template, args...)
}

func (W _tidesdk_Logger) Errorf(template string, args ...interface{}) {
	W.WErrorf(template, args...)
}

func (W _tidesdk_Logger) Infof(template string, args ...interface{}) {
	W.WInfof(template, args...)
}
