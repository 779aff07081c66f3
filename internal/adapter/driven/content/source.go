// Package content implements the ContentSource port over file systems:
// the fixtures compiled into the binary and directories on disk.
package content

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ericfisherdev/iatsite/internal/domain/port/driven"
)

//go:embed fixtures/*
var fixturesFS embed.FS

// Compile-time interface satisfaction check.
var _ driven.ContentSource = (*FSSource)(nil)

// FSSource reads feeds from the root of an fs.FS.
type FSSource struct {
	fsys fs.FS
	desc string
}

// NewEmbeddedSource returns a source over the fixtures embedded in the binary.
func NewEmbeddedSource() *FSSource {
	sub, err := fs.Sub(fixturesFS, "fixtures")
	if err != nil {
		// fixtures/ is embedded at compile time; Sub only fails on invalid paths.
		panic("content: embedded fixtures missing: " + err.Error())
	}
	return &FSSource{fsys: sub, desc: "embedded"}
}

// NewDirSource returns a source reading feeds from dir. The directory must exist.
func NewDirSource(dir string) (*FSSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("content dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content dir %s: not a directory", dir)
	}
	return &FSSource{fsys: os.DirFS(dir), desc: "dir:" + dir}, nil
}

// NewFSSource wraps an arbitrary fs.FS. Intended for tests.
func NewFSSource(fsys fs.FS, desc string) *FSSource {
	return &FSSource{fsys: fsys, desc: desc}
}

// ReadFeed reads the named feed file.
func (s *FSSource) ReadFeed(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(s.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, driven.ErrFeedNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Describe returns the source origin for logs.
func (s *FSSource) Describe() string { return s.desc }
