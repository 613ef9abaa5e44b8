package plugin

import (
	"errors"
	"fmt"
)

// ErrPlugin matches every error returned by Loader.Resolve.
var ErrPlugin = errors.New("provider unavailable")

// PathError means the provider path is empty or does not name a file.
type PathError struct {
	Path   string
	Reason string
	Err    error
}

func (e *PathError) Error() string {
	if e.Path == "" {
		return "provider path: " + e.Reason
	}
	if e.Err != nil {
		return fmt.Sprintf("provider path %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("provider path %s: %s", e.Path, e.Reason)
}

func (e *PathError) Unwrap() error        { return e.Err }
func (e *PathError) Is(target error) bool { return target == ErrPlugin }

// LoadError means the provider source could not be read or interpreted.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading provider %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error        { return e.Err }
func (e *LoadError) Is(target error) bool { return target == ErrPlugin }

// ClassError means the loaded source has no usable symbol under the class name.
type ClassError struct {
	Path      string
	ClassName string
	Reason    string
	Err       error
}

func (e *ClassError) Error() string {
	msg := fmt.Sprintf("provider %s: class %q %s", e.Path, e.ClassName, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ClassError) Unwrap() error        { return e.Err }
func (e *ClassError) Is(target error) bool { return target == ErrPlugin }
