package plugin

import "path/filepath"

// SearchPath is the ordered list of directories consulted when an interpreted
// provider imports a package that is neither stdlib nor the SDK. A directory
// appears at most once, no matter how often a provider in it is loaded.
type SearchPath struct {
	dirs []string
	seen map[string]struct{}
}

// NewSearchPath creates an empty search path.
func NewSearchPath() *SearchPath {
	return &SearchPath{seen: make(map[string]struct{})}
}

// Add appends dir unless it is already present. It reports whether dir was added.
func (p *SearchPath) Add(dir string) bool {
	dir = filepath.Clean(dir)
	if _, ok := p.seen[dir]; ok {
		return false
	}
	p.seen[dir] = struct{}{}
	p.dirs = append(p.dirs, dir)
	return true
}

// Contains reports whether dir is registered.
func (p *SearchPath) Contains(dir string) bool {
	_, ok := p.seen[filepath.Clean(dir)]
	return ok
}

// Dirs returns the registered directories in insertion order.
func (p *SearchPath) Dirs() []string {
	out := make([]string, len(p.dirs))
	copy(out, p.dirs)
	return out
}

// Len returns the number of registered directories.
func (p *SearchPath) Len() int {
	return len(p.dirs)
}
