package engine

import (
	"io"
	"io/fs"
	"path"
	"strings"
)

// NewFSAssets exposes the named files of fsys as an AssetSource. The theme
// layer supplies the name list from its manifest; tests pass an in-memory
// filesystem.
func NewFSAssets(fsys fs.FS, names []string) AssetSource {
	return &fsAssetSource{fsys: fsys, names: append([]string(nil), names...)}
}

type fsAssetSource struct {
	fsys  fs.FS
	names []string
}

func (a *fsAssetSource) List() []string {
	return append([]string(nil), a.names...)
}

func (a *fsAssetSource) Open(name string) (io.ReadCloser, error) {
	cleaned := path.Clean(strings.TrimLeft(strings.TrimSpace(name), "/"))
	return a.fsys.Open(cleaned)
}
