package probe

import (
	"context"
	"errors"

	"github.com/tonhe/fireline/internal/diag"
)

// Collector gathers one snapshot set from a controller.
type Collector interface {
	Collect(ctx context.Context) (*diag.SnapshotSet, error)
}

// FileCollector re-reads a snapshot file on every collection, so an
// external agent can keep the file current while the engine watches it.
type FileCollector struct {
	Path string
}

// NewFileCollector returns a Collector for the snapshot file at path.
func NewFileCollector(path string) *FileCollector {
	return &FileCollector{Path: path}
}

func (c *FileCollector) Collect(ctx context.Context) (*diag.SnapshotSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadSnapshot(c.Path)
}

// ErrNoSnapshot is returned by a StaticCollector that holds no set.
var ErrNoSnapshot = errors.New("static collector has no snapshot set")

// StaticCollector always returns the same snapshot set. A copy of the
// top-level struct is returned so callers may restamp it.
type StaticCollector struct {
	Set *diag.SnapshotSet
}

func (c StaticCollector) Collect(ctx context.Context) (*diag.SnapshotSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Set == nil {
		return nil, ErrNoSnapshot
	}
	set := *c.Set
	return &set, nil
}

// CollectorFunc adapts a function to the Collector interface.
type CollectorFunc func(ctx context.Context) (*diag.SnapshotSet, error)

func (f CollectorFunc) Collect(ctx context.Context) (*diag.SnapshotSet, error) {
	return f(ctx)
}
