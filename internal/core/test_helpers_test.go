package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"pipelinetracker/internal/infra/persistence/sqlite"
)

func strPtr(s string) *string { return &s }

type stubClock struct{ t time.Time }

func (s stubClock) Now() time.Time { return s.t }

type captureLogger struct {
	mu    sync.Mutex
	calls []string
}

func (c *captureLogger) record(level, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, level+":"+msg)
}

func (c *captureLogger) Debug(msg string, _ ...any) { c.record("d", msg) }
func (c *captureLogger) Info(msg string, _ ...any)  { c.record("i", msg) }
func (c *captureLogger) Warn(msg string, _ ...any)  { c.record("w", msg) }
func (c *captureLogger) Error(msg string, _ ...any) { c.record("e", msg) }

func (c *captureLogger) has(entry string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, call := range c.calls {
		if call == entry {
			return true
		}
	}
	return false
}

// memoryFiles is a FileStore keeping saved files in a map.
type memoryFiles struct {
	mu         sync.Mutex
	files      map[string][]byte
	savedAt    map[string]time.Time
	seq        int
	failSave   error
	failRemove error
	failList   error
	removed    []string
}

func newMemoryFiles() *memoryFiles {
	return &memoryFiles{files: make(map[string][]byte), savedAt: make(map[string]time.Time)}
}

func (m *memoryFiles) Save(_ context.Context, filename string, body io.Reader) (string, error) {
	if m.failSave != nil {
		return "", m.failSave
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	path := fmt.Sprintf("uploads/%d_%s", m.seq, filename)
	m.files[path] = data
	m.savedAt[path] = time.Now().UTC()
	return path, nil
}

func (m *memoryFiles) List(context.Context) ([]StoredFile, error) {
	if m.failList != nil {
		return nil, m.failList
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]StoredFile, 0, len(m.files))
	for path, data := range m.files {
		out = append(out, StoredFile{Path: path, Size: int64(len(data)), ModTime: m.savedAt[path]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// put places a file directly, as if stored at savedAt by an earlier run.
func (m *memoryFiles) put(path string, savedAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = []byte(path)
	m.savedAt[path] = savedAt
}

func (m *memoryFiles) Remove(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, path)
	if m.failRemove != nil {
		return m.failRemove
	}
	if _, ok := m.files[path]; !ok {
		return errors.New("missing file " + path)
	}
	delete(m.files, path)
	delete(m.savedAt, path)
	return nil
}

func (m *memoryFiles) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

func newTestStore(t *testing.T) PersistentStore {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "tracker.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestService(t *testing.T, opts ...Option) (*Service, *memoryFiles) {
	t.Helper()
	files := newMemoryFiles()
	return NewService(newTestStore(t), files, opts...), files
}

func upload(name, content string) *Upload {
	return &Upload{Filename: name, Body: bytes.NewBufferString(content)}
}

func mustStage(t *testing.T, svc *Service, name string) Stage {
	t.Helper()
	stage, err := svc.CreateStage(context.Background(), Stage{Name: name})
	if err != nil {
		t.Fatalf("create stage %s: %v", name, err)
	}
	return stage
}

func mustActor(t *testing.T, svc *Service, actor Actor) Actor {
	t.Helper()
	created, err := svc.CreateActor(context.Background(), actor)
	if err != nil {
		t.Fatalf("create actor %s: %v", actor.Name, err)
	}
	return created
}

func mustMethod(t *testing.T, svc *Service, in MethodInput) Method {
	t.Helper()
	method, err := svc.CreateMethod(context.Background(), in)
	if err != nil {
		t.Fatalf("create method %s: %v", in.Name, err)
	}
	return method
}
