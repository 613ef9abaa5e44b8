package plugin

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/indicator-tide/indicator-tide/pkg/tidesdk"
)

// BuiltinScheme prefixes provider paths that name a compiled-in provider,
// e.g. "builtin:noaa".
const BuiltinScheme = "builtin:"

// Priority constants for builtin registration. A higher priority replaces a
// provider of the same name registered earlier.
const (
	PriorityDefault  = 0
	PriorityOverride = 100
)

// Factory creates the entry point of a builtin provider.
type Factory func() (tidesdk.GetTideDataFunc, error)

// ProviderInfo describes a builtin provider.
type ProviderInfo struct {
	Name        string
	Description string
	Priority    int
	Factory     Factory
}

// Registry holds compiled-in providers keyed by name.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]ProviderInfo
	order     []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]ProviderInfo)}
}

// Register adds a provider. When the name is taken, the higher priority wins;
// equal priorities let the later registration win.
func (r *Registry) Register(info ProviderInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if info.Name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}
	if info.Factory == nil {
		return fmt.Errorf("provider %s: factory cannot be nil", info.Name)
	}

	existing, exists := r.providers[info.Name]
	if exists && info.Priority < existing.Priority {
		zap.L().Debug("builtin provider registration skipped",
			zap.String("name", info.Name),
			zap.Int("priority", info.Priority),
			zap.Int("existing", existing.Priority))
		return nil
	}

	r.providers[info.Name] = info
	if !exists {
		r.order = append(r.order, info.Name)
	}
	return nil
}

// Get returns the provider registered under name, or nil.
func (r *Registry) Get(name string) *ProviderInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.providers[name]
	if !ok {
		return nil
	}
	return &info
}

// List returns all providers sorted by name.
func (r *Registry) List() []ProviderInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]ProviderInfo, 0, len(r.providers))
	for _, name := range r.order {
		result = append(result, r.providers[name])
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Names returns provider names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Clear removes every provider. Useful for testing.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.providers = make(map[string]ProviderInfo)
	r.order = nil
}

// IsBuiltinPath reports whether path uses the builtin scheme.
func IsBuiltinPath(path string) bool {
	return strings.HasPrefix(path, BuiltinScheme)
}

// BuiltinPath returns the provider path selecting the builtin name.
func BuiltinPath(name string) string {
	return BuiltinScheme + name
}

var globalRegistry = NewRegistry()

// Register adds a provider to the global registry. Typically called from init().
func Register(info ProviderInfo) error {
	return globalRegistry.Register(info)
}

// Builtins returns the global registry.
func Builtins() *Registry {
	return globalRegistry
}
