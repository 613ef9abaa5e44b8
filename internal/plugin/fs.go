package plugin

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"strings"
	"testing/fstest"
)

// gopathRoot is the GOPATH the interpreter sees. Everything below it is
// virtual: the provider itself first, then the search-path directories.
const gopathRoot = "_gopath"

var srcRoot = path.Join(gopathRoot, "src")

// overlayFS serves the first layer that has a name.
type overlayFS []fs.FS

func (o overlayFS) Open(name string) (fs.File, error) {
	for _, layer := range o {
		f, err := layer.Open(name)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// prefixFS mounts fsys under prefix.
type prefixFS struct {
	prefix string
	fsys   fs.FS
}

func (p prefixFS) Open(name string) (fs.File, error) {
	switch {
	case name == p.prefix:
		return p.fsys.Open(".")
	case strings.HasPrefix(name, p.prefix+"/"):
		return p.fsys.Open(strings.TrimPrefix(name, p.prefix+"/"))
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// sourceFS builds the interpreter filesystem for one provider: the provider
// file as the only member of package importPath, then each search-path
// directory mounted as a GOPATH src tree.
func sourceFS(importPath, fileName string, src []byte, dirs []string) fs.FS {
	layers := overlayFS{
		fstest.MapFS{
			path.Join(srcRoot, importPath, fileName): &fstest.MapFile{Data: src, Mode: 0644},
		},
	}
	for _, dir := range dirs {
		layers = append(layers, prefixFS{prefix: srcRoot, fsys: os.DirFS(dir)})
	}
	return layers
}
