package area

import (
	"context"
	"fmt"
	"path"
	"slices"

	"area-reconciler/core/fsys"
)

// SharedDocument is the name of the document holding every area's shared settings.
const SharedDocument = "relations.yaml"

// Loader reads area documents from a file system directory.
type Loader struct {
	fs  fsys.FileSystem
	dir string
}

// NewLoader creates a Loader reading documents below dir.
func NewLoader(fs fsys.FileSystem, dir string) *Loader {
	return &Loader{fs: fs, dir: dir}
}

// SharedPath returns the path of relations.yaml.
func (l *Loader) SharedPath() string {
	return path.Join(l.dir, SharedDocument)
}

// AreaPath returns the path of the area-specific document.
func (l *Loader) AreaPath(name string) string {
	return path.Join(l.dir, "relation-"+name+".yaml")
}

// Paths returns the documents the configuration of name depends on.
func (l *Loader) Paths(name string) []string {
	return []string{l.SharedPath(), l.AreaPath(name)}
}

func (l *Loader) shared(ctx context.Context) (map[string]Document, error) {
	r, err := l.fs.OpenRead(ctx, l.SharedPath())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", SharedDocument, err)
	}
	defer r.Close()

	docs, err := DecodeShared(r)
	if err != nil {
		if IsConfigError(err) {
			return nil, err
		}
		return nil, &ConfigError{Area: "*", Key: SharedDocument, Err: err}
	}
	return docs, nil
}

// Names returns the sorted names of all areas.
func (l *Loader) Names(ctx context.Context) ([]string, error) {
	docs, err := l.shared(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Load resolves the configuration of one area. A missing area-specific
// document is treated as empty. A name listed in some area's alias resolves
// to that area, so the returned Config may carry a different name.
func (l *Loader) Load(ctx context.Context, name string) (*Config, error) {
	docs, err := l.shared(ctx)
	if err != nil {
		return nil, err
	}
	if shared, ok := docs[name]; ok {
		return l.load(ctx, name, shared)
	}

	names := make([]string, 0, len(docs))
	for n := range docs {
		names = append(names, n)
	}
	slices.Sort(names)
	for _, n := range names {
		c, err := l.load(ctx, n, docs[n])
		if err != nil {
			return nil, err
		}
		if slices.Contains(c.Alias(), name) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownArea, name)
}

func (l *Loader) load(ctx context.Context, name string, shared Document) (*Config, error) {
	own, err := l.own(ctx, name)
	if err != nil {
		return nil, err
	}
	return NewConfig(name, shared, own)
}

func (l *Loader) own(ctx context.Context, name string) (Document, error) {
	p := l.AreaPath(name)
	r, err := l.fs.OpenRead(ctx, p)
	if err != nil {
		if fsys.IsNotExist(err) {
			return Document{}, nil
		}
		return Document{}, fmt.Errorf("read %s: %w", p, err)
	}
	defer r.Close()

	doc, err := DecodeDocument(r)
	if err != nil {
		return Document{}, &ConfigError{Area: name, Key: path.Base(p), Err: err}
	}
	return doc, nil
}
