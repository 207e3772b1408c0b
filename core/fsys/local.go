package fsys

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Local is a FileSystem rooted in a directory.
type Local struct {
	root string
}

// NewLocal creates the root directory if needed and returns a Local file system.
func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create data root %s: %w", root, err)
	}
	return &Local{root: root}, nil
}

// Root returns the directory the file system is rooted in.
func (l *Local) Root() string {
	return l.root
}

func (l *Local) resolve(name string) (string, error) {
	clean := path.Clean("/" + name)
	if clean == "/" || strings.Contains(name, "\\") {
		return "", fmt.Errorf("invalid path %q", name)
	}
	return filepath.Join(l.root, filepath.FromSlash(clean[1:])), nil
}

func (l *Local) OpenRead(_ context.Context, name string) (io.ReadCloser, error) {
	p, err := l.resolve(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}

func (l *Local) OpenWrite(_ context.Context, name string) (Writer, error) {
	p, err := l.resolve(name)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory for %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(p)+".*")
	if err != nil {
		return nil, fmt.Errorf("create temporary file for %s: %w", name, err)
	}
	return &renameOnClose{File: tmp, target: p}, nil
}

func (l *Local) PathExists(_ context.Context, name string) (bool, error) {
	p, err := l.resolve(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", name, err)
}

func (l *Local) ModTime(_ context.Context, name string) (time.Time, error) {
	p, err := l.resolve(name)
	if err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(p)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", name, err)
	}
	return info.ModTime(), nil
}

func (l *Local) Remove(_ context.Context, name string) error {
	p, err := l.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

// renameOnClose publishes a temporary file under its final name on Close.
type renameOnClose struct {
	*os.File
	target string
	closed bool
}

func (w *renameOnClose) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	tmp := w.File.Name()
	if err := w.File.Sync(); err != nil {
		_ = w.File.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("sync %s: %w", w.target, err)
	}
	if err := w.File.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close %s: %w", w.target, err)
	}
	if err := os.Rename(tmp, w.target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", w.target, err)
	}
	return nil
}

func (w *renameOnClose) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true
	_ = w.File.Close()
	if err := os.Remove(w.File.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("discard %s: %w", w.target, err)
	}
	return nil
}
