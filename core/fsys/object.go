package fsys

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"area-reconciler/core/storage"

	"github.com/minio/minio-go/v7"
)

// Object is a FileSystem stored under a key prefix of a bucket.
type Object struct {
	client storage.Client
	bucket string
	prefix string
}

// NewObject makes sure the bucket exists and returns an Object file system.
func NewObject(ctx context.Context, client storage.Client, bucket, prefix string) (*Object, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}
	return &Object{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

func (o *Object) key(name string) string {
	clean := strings.TrimPrefix(path.Clean("/"+name), "/")
	if o.prefix == "" {
		return clean
	}
	return o.prefix + "/" + clean
}

func (o *Object) stat(ctx context.Context, name string) (minio.ObjectInfo, error) {
	info, err := o.client.StatObject(ctx, o.bucket, o.key(name), minio.StatObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return minio.ObjectInfo{}, fmt.Errorf("stat %s: %w", name, fs.ErrNotExist)
		}
		return minio.ObjectInfo{}, fmt.Errorf("stat %s: %w", name, err)
	}
	return info, nil
}

func (o *Object) OpenRead(ctx context.Context, name string) (io.ReadCloser, error) {
	// GetObject is lazy; stat first so a missing key surfaces here.
	if _, err := o.stat(ctx, name); err != nil {
		return nil, err
	}
	obj, err := o.client.GetObject(ctx, o.bucket, o.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", name, err)
	}
	return obj, nil
}

func (o *Object) OpenWrite(ctx context.Context, name string) (Writer, error) {
	return &putOnClose{ctx: ctx, fs: o, name: name}, nil
}

func (o *Object) PathExists(ctx context.Context, name string) (bool, error) {
	_, err := o.stat(ctx, name)
	if err == nil {
		return true, nil
	}
	if IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (o *Object) ModTime(ctx context.Context, name string) (time.Time, error) {
	info, err := o.stat(ctx, name)
	if err != nil {
		return time.Time{}, err
	}
	return info.LastModified, nil
}

func (o *Object) Remove(ctx context.Context, name string) error {
	err := o.client.RemoveObject(ctx, o.bucket, o.key(name), minio.RemoveObjectOptions{})
	if err != nil && !storage.IsNotFound(err) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

// putOnClose buffers writes and uploads them as one object on Close.
type putOnClose struct {
	ctx    context.Context
	fs     *Object
	name   string
	buf    bytes.Buffer
	closed bool
}

func (w *putOnClose) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fs.ErrClosed
	}
	return w.buf.Write(p)
}

func (w *putOnClose) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	_, err := w.fs.client.PutObject(w.ctx, w.fs.bucket, w.fs.key(w.name), bytes.NewReader(w.buf.Bytes()), int64(w.buf.Len()), minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("put %s: %w", w.name, err)
	}
	return nil
}

func (w *putOnClose) Abort() error {
	w.closed = true
	w.buf.Reset()
	return nil
}
