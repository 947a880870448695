// Package assets reads tile images, marker catalogues and icons from a
// directory tree or a packed sqlite bundle and decodes images off the frame
// loop.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
)

// ErrNotFound is returned (wrapped) by every Source for a missing asset.
var ErrNotFound = errors.New("asset not found")

// Source resolves slash-separated asset paths such as
// "tiles/surface/0/0_0.jpg". Implementations must be safe for concurrent use.
type Source interface {
	ReadAsset(name string) ([]byte, error)
}

// DirSource serves assets from a file system, usually os.DirFS(root).
type DirSource struct {
	fsys fs.FS
}

func NewDirSource(fsys fs.FS) *DirSource {
	return &DirSource{fsys: fsys}
}

func (s *DirSource) ReadAsset(name string) ([]byte, error) {
	name = path.Clean(name)
	data, err := fs.ReadFile(s.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, name, err)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// FS exposes the underlying file system for walkers such as PackDir.
func (s *DirSource) FS() fs.FS {
	return s.fsys
}

// Lister is implemented by sources that can enumerate their contents.
type Lister interface {
	Paths() ([]string, error)
}

// Paths lists every regular file in lexical order.
func (s *DirSource) Paths() ([]string, error) {
	var paths []string
	err := fs.WalkDir(s.fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			paths = append(paths, name)
		}
		return nil
	})
	return paths, err
}
