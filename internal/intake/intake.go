// Package intake stores the files uploaded with pipeline details. Files are
// kept in a blob store under a collision-free name and addressed by the
// relative path "uploads/<name>".
package intake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"pipelinetracker/internal/blob"
	"pipelinetracker/pkg/domain"
)

// PathPrefix is the leading segment of every stored file path and the URL
// prefix files are served under.
const PathPrefix = "uploads"

const fallbackName = "upload"

var (
	// ErrStorage reports that a file could not be written or removed.
	ErrStorage = errors.New("file storage failed")
	// ErrNotFound reports that a stored file does not exist.
	ErrNotFound = errors.New("stored file not found")
)

// Intake writes, serves and removes detail files.
type Intake struct {
	store blob.Store
	newID func() string
}

// Option customises an Intake.
type Option func(*Intake)

// WithIDGenerator overrides the unique prefix of stored names.
func WithIDGenerator(fn func() string) Option {
	return func(i *Intake) {
		if fn != nil {
			i.newID = fn
		}
	}
}

// New returns an Intake writing to store.
func New(store blob.Store, opts ...Option) *Intake {
	in := &Intake{store: store, newID: uuid.NewString}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Driver reports the backend files are kept in.
func (i *Intake) Driver() blob.Driver { return i.store.Driver() }

// StorageName returns the stored name for an upload: id, an underscore and
// the final path element of original. Blank names become "upload".
func StorageName(id, original string) string {
	base := original[strings.LastIndexAny(original, `/\`)+1:]
	base = strings.TrimSpace(base)
	if base == "" || base == "." || base == ".." {
		base = fallbackName
	}
	return id + "_" + base
}

// Save stores body under a fresh name derived from filename and returns its
// relative path. Type, size and content are not inspected.
func (i *Intake) Save(ctx context.Context, filename string, body io.Reader) (string, error) {
	name := StorageName(i.newID(), filename)
	if _, err := i.store.Put(ctx, name, body, blob.PutOptions{
		ContentType: contentType(name),
		Metadata:    map[string]string{"original-filename": sanitizeHeader(filename)},
	}); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrStorage, name, err)
	}
	return path.Join(PathPrefix, name), nil
}

// Remove deletes the file at the relative path returned by Save. Removing a
// file that is already gone is not an error.
func (i *Intake) Remove(ctx context.Context, filePath string) error {
	name, err := nameFromPath(filePath)
	if err != nil {
		return err
	}
	if _, err := i.store.Delete(ctx, name); err != nil {
		return fmt.Errorf("%w: remove %s: %w", ErrStorage, name, err)
	}
	return nil
}

// List returns every stored file by its relative path. Keys that Save could
// not have produced are skipped.
func (i *Intake) List(ctx context.Context) ([]domain.StoredFile, error) {
	infos, err := i.store.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("%w: list: %w", ErrStorage, err)
	}
	files := make([]domain.StoredFile, 0, len(infos))
	for _, info := range infos {
		if checkName(info.Key) != nil {
			continue
		}
		files = append(files, domain.StoredFile{
			Path:    path.Join(PathPrefix, info.Key),
			Size:    info.Size,
			ModTime: info.LastModified,
		})
	}
	return files, nil
}

// Open returns the content of a stored file by its stored name. The caller
// closes the reader.
func (i *Intake) Open(ctx context.Context, name string) (blob.Info, io.ReadCloser, error) {
	if err := checkName(name); err != nil {
		return blob.Info{}, nil, err
	}
	info, rc, err := i.store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return blob.Info{}, nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return blob.Info{}, nil, err
	}
	if info.ContentType == "" {
		info.ContentType = contentType(name)
	}
	return info, rc, nil
}

// SignedURL returns a time-limited direct URL for a stored file when the
// backend supports one, or blob.ErrUnsupported.
func (i *Intake) SignedURL(ctx context.Context, name string, expiry time.Duration) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	if _, err := i.store.Head(ctx, name); err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", err
	}
	return i.store.PresignURL(ctx, name, blob.SignedURLOptions{Expiry: expiry})
}

// URL joins base and a stored file path into the public URL of the file.
func URL(base, filePath string) string {
	segments := strings.Split(filePath, "/")
	for n, seg := range segments {
		segments[n] = url.PathEscape(seg)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segments, "/")
}

func nameFromPath(filePath string) (string, error) {
	name, ok := strings.CutPrefix(filePath, PathPrefix+"/")
	if !ok {
		return "", fmt.Errorf("%w: %q is not a stored file path", ErrStorage, filePath)
	}
	return name, checkName(name)
}

func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

func contentType(name string) string {
	if ext := path.Ext(name); ext != "" {
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
	}
	return "application/octet-stream"
}

// sanitizeHeader keeps metadata values representable as HTTP header values.
func sanitizeHeader(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return '_'
		}
		return r
	}, s)
}
