package plugin

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"unicode"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.uber.org/zap"

	"github.com/indicator-tide/indicator-tide/pkg/tidesdk"
)

// importRoot is the virtual import path under which providers are mounted.
const importRoot = "indicator-tide.providers"

// Handle is a resolved provider entry point.
type Handle struct {
	Path      string
	ClassName string
	Namespace string
	Builtin   bool

	entry tidesdk.GetTideDataFunc
}

// NewHandle wraps an entry point that did not come from Resolve.
func NewHandle(name string, fn tidesdk.GetTideDataFunc) *Handle {
	return &Handle{Path: name, ClassName: name, Namespace: name, entry: fn}
}

// Entry returns the callable, nil when the handle is unusable.
func (h *Handle) Entry() tidesdk.GetTideDataFunc {
	if h == nil {
		return nil
	}
	return h.entry
}

// Loader resolves provider paths into handles.
type Loader struct {
	registry   *Registry
	searchPath *SearchPath
	logger     *zap.Logger
}

// NewLoader creates a loader. A nil registry uses the global builtins.
func NewLoader(registry *Registry, logger *zap.Logger) *Loader {
	if registry == nil {
		registry = globalRegistry
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		registry:   registry,
		searchPath: NewSearchPath(),
		logger:     logger,
	}
}

// SearchPath exposes the directories consulted for provider imports.
func (l *Loader) SearchPath() *SearchPath {
	return l.searchPath
}

// Resolve loads the provider at path and returns the entry point named by
// className. Each call interprets the source afresh, so edits to a provider
// take effect on the next cycle.
func (l *Loader) Resolve(path, className string) (*Handle, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, &PathError{Reason: "not set"}
	}
	if IsBuiltinPath(path) {
		return l.resolveBuiltin(path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &PathError{Path: path, Reason: "invalid", Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &PathError{Path: path, Reason: "not found", Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &PathError{Path: path, Reason: "not a regular file"}
	}
	if strings.TrimSpace(className) == "" {
		return nil, &ClassError{Path: path, ClassName: className, Reason: "not set"}
	}

	if l.searchPath.Add(filepath.Dir(abs)) {
		l.logger.Debug("Provider directory added to search path", zap.String("dir", filepath.Dir(abs)))
	}

	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	pkgName, err := packageName(abs, src)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	ns := Namespace(abs)
	importPath := importRoot + "/" + ns
	i := interp.New(interp.Options{
		GoPath:               gopathRoot,
		SourcecodeFilesystem: sourceFS(importPath, filepath.Base(abs), src, l.searchPath.Dirs()),
	})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if err := i.Use(tidesdk.Symbols); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	// A main package cannot be imported, so it is evaluated in place.
	scope := ns
	if pkgName == "main" {
		scope = "main"
		_, err = safeEval(i, string(src))
	} else {
		_, err = safeEval(i, fmt.Sprintf("import %s %q", ns, importPath))
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	entry, err := lookupEntry(i, scope+"."+className, declaresType(abs, src, className))
	if err != nil {
		return nil, &ClassError{Path: path, ClassName: className, Reason: err.Error()}
	}

	l.logger.Debug("Provider loaded",
		zap.String("path", abs),
		zap.String("class", className),
		zap.String("namespace", ns))

	return &Handle{Path: abs, ClassName: className, Namespace: ns, entry: entry}, nil
}

func (l *Loader) resolveBuiltin(path string) (*Handle, error) {
	name := strings.TrimPrefix(path, BuiltinScheme)
	info := l.registry.Get(name)
	if info == nil {
		return nil, &PathError{Path: path, Reason: "unknown builtin provider"}
	}
	entry, err := info.Factory()
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if entry == nil {
		return nil, &ClassError{Path: path, ClassName: name, Reason: "factory returned no entry point"}
	}
	return &Handle{Path: path, ClassName: name, Namespace: name, Builtin: true, entry: entry}, nil
}

// lookupEntry tries the symbol itself, then its GetTideData method. A type
// is instantiated first: its method expression takes the receiver as an
// extra argument and cannot serve as an entry point.
func lookupEntry(i *interp.Interpreter, symbol string, isType bool) (tidesdk.GetTideDataFunc, error) {
	var firstErr error
	candidates := []string{symbol + "{}.GetTideData", "new(" + symbol + ").GetTideData"}
	if !isType {
		var v reflect.Value
		v, firstErr = safeEval(i, symbol)
		if firstErr == nil {
			if fn, ok := asEntry(v); ok {
				return fn, nil
			}
		}
		candidates = []string{symbol + ".GetTideData"}
	}
	for _, expr := range candidates {
		m, err := safeEval(i, expr)
		if err != nil {
			continue
		}
		if fn, ok := asEntry(m); ok {
			return fn, nil
		}
	}
	if firstErr != nil {
		return nil, fmt.Errorf("not found: %w", firstErr)
	}
	return nil, errors.New("does not expose GetTideData(tidesdk.Request) ([]tidesdk.Reading, error)")
}

// declaresType reports whether the provider source declares name as a type.
// Parse errors are left for the interpreter to report.
func declaresType(path string, src []byte, name string) bool {
	f, _ := parser.ParseFile(token.NewFileSet(), path, src, parser.SkipObjectResolution)
	if f == nil {
		return false
	}
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			if ts, ok := spec.(*ast.TypeSpec); ok && ts.Name.Name == name {
				return true
			}
		}
	}
	return false
}

func asEntry(v reflect.Value) (tidesdk.GetTideDataFunc, bool) {
	if !v.IsValid() || !v.CanInterface() {
		return nil, false
	}
	switch fn := v.Interface().(type) {
	case func(tidesdk.Request) ([]tidesdk.Reading, error):
		return fn, fn != nil
	case tidesdk.GetTideDataFunc:
		return fn, fn != nil
	case tidesdk.Getter:
		return fn.GetTideData, fn != nil
	}
	return nil, false
}

// safeEval converts interpreter panics into errors.
func safeEval(i *interp.Interpreter, src string) (v reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("interpreter panic: %v", r)
		}
	}()
	return i.Eval(src)
}

func packageName(path string, src []byte) (string, error) {
	f, err := parser.ParseFile(token.NewFileSet(), path, src, parser.PackageClauseOnly)
	if err != nil {
		return "", err
	}
	return f.Name.Name, nil
}

// Namespace derives an identifier from a provider file name:
// "tide_info-v3.go" becomes "tide_info_v3".
func Namespace(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var b strings.Builder
	for _, r := range stem {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	ns := b.String()
	if ns == "" || unicode.IsDigit(rune(ns[0])) || token.IsKeyword(ns) {
		ns = "p_" + ns
	}
	return ns
}
