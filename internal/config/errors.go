package config

import "fmt"

// LoadErrorKind classifies a ConfigLoadError.
type LoadErrorKind string

const (
	// KindMalformed means the record or one of its values could not be interpreted.
	KindMalformed LoadErrorKind = "malformed"

	// KindUnreadable means the persisted record exists but could not be read.
	KindUnreadable LoadErrorKind = "unreadable"
)

// ConfigLoadError reports a persisted configuration that could not be used.
// Loading recovers by substituting defaults; the error is informational.
type ConfigLoadError struct {
	Kind LoadErrorKind
	Path string // file, when the error came from disk
	Key  string // field, when a single value was bad
	Err  error
}

func (e *ConfigLoadError) Error() string {
	msg := fmt.Sprintf("config %s", e.Kind)
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Key != "" {
		msg += fmt.Sprintf(" (key %q)", e.Key)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigLoadError) Unwrap() error {
	return e.Err
}

func newMalformedKeyError(key string, err error) *ConfigLoadError {
	return &ConfigLoadError{Kind: KindMalformed, Key: key, Err: err}
}
