package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/youruser/mockupapp/internal/errs"
	"github.com/youruser/mockupapp/internal/util"
)

// FileSink writes mockups as mockup_<id>.png files in a directory.
type FileSink struct {
	dir string
}

// NewFileSink creates dir if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := util.EnsureDir(dir); err != nil {
		return nil, errs.Wrap(errs.CodeStoreFailed, err, "create output dir %s", dir)
	}
	return &FileSink{dir: dir}, nil
}

// Store implements Sink.
func (s *FileSink) Store(_ context.Context, id string, data []byte) (string, error) {
	if err := CheckID(id); err != nil {
		return "", err
	}
	p := filepath.Join(s.dir, FileName(id))
	if err := util.WriteFileAtomic(p, data); err != nil {
		return "", errs.Wrap(errs.CodeStoreFailed, err, "write %s", p)
	}
	return p, nil
}

// Load implements Sink.
func (s *FileSink) Load(_ context.Context, id string) ([]byte, error) {
	if err := CheckID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, FileName(id)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("mockup %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, errs.Wrap(errs.CodeStoreFailed, err, "read mockup %s", id)
	}
	return data, nil
}

// PathSink writes every mockup to one fixed file. The CLI uses it for -o.
type PathSink struct {
	Path string
}

// Store implements Sink.
func (s PathSink) Store(_ context.Context, _ string, data []byte) (string, error) {
	if err := util.WriteFileAtomic(s.Path, data); err != nil {
		return "", errs.Wrap(errs.CodeStoreFailed, err, "write %s", s.Path)
	}
	return s.Path, nil
}

// Load implements Sink.
func (s PathSink) Load(_ context.Context, id string) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("mockup %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, errs.Wrap(errs.CodeStoreFailed, err, "read %s", s.Path)
	}
	return data, nil
}
