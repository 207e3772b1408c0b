package fsys

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"area-reconciler/core/storage"
)

// Writer buffers a whole-file write. Close publishes the content; Abort
// discards it and leaves the target untouched.
type Writer interface {
	io.WriteCloser
	Abort() error
}

// FileSystem reads and writes whole files by logical path.
type FileSystem interface {
	// OpenRead opens name for reading.
	OpenRead(ctx context.Context, name string) (io.ReadCloser, error)
	// OpenWrite returns a writer that replaces name when closed.
	OpenWrite(ctx context.Context, name string) (Writer, error)
	// PathExists reports whether name exists.
	PathExists(ctx context.Context, name string) (bool, error)
	// ModTime returns the modification time of name.
	ModTime(ctx context.Context, name string) (time.Time, error)
	// Remove deletes name. Removing a missing path is not an error.
	Remove(ctx context.Context, name string) error
}

// New builds the backend selected by cfg. client is only used by the object backend.
func New(ctx context.Context, cfg Config, client storage.Client, bucket string) (FileSystem, error) {
	switch cfg.Backend {
	case BackendLocal, "":
		return NewLocal(cfg.DataRoot())
	case BackendObject:
		if client == nil {
			return nil, errors.New("object backend requires a storage client")
		}
		return NewObject(ctx, client, bucket, cfg.Root)
	default:
		return nil, fmt.Errorf("unknown file system backend %q", cfg.Backend)
	}
}

// ReadAll reads the whole content of name.
func ReadAll(ctx context.Context, fs FileSystem, name string) ([]byte, error) {
	r, err := fs.OpenRead(ctx, name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// WriteAll replaces name with data.
func WriteAll(ctx context.Context, fs FileSystem, name string, data []byte) error {
	w, err := fs.OpenWrite(ctx, name)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Abort()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return w.Close()
}

// IsNotExist reports whether err means the path does not exist.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
