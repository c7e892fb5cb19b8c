package filestore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/zeebo/xxh3"
)

// MemoryStore keeps files in a map. Hashes are xxh3-128 of the content, so
// rewriting identical content leaves the hash unchanged.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string]memFile
}

type memFile struct {
	content string
	hash    string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string]memFile)}
}

func contentHash(content string) string {
	h := xxh3.Hash128([]byte(content)).Bytes()
	return fmt.Sprintf("%x", h[:])
}

func (m *MemoryStore) Read(ctx context.Context, path string) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path = cleanPrefix(path)

	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[path]
	if !ok {
		return nil, notFound("read", path)
	}
	return &File{Path: path, Content: f.content, Hash: f.hash}, nil
}

func (m *MemoryStore) Write(ctx context.Context, path, content, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path = cleanPrefix(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[path] = memFile{content: content, hash: contentHash(content)}
	return nil
}

func (m *MemoryStore) WriteIfMatch(ctx context.Context, path, content, message, hash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path = cleanPrefix(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.files[path]
	switch {
	case hash == "" && exists:
		return conflict("write", path)
	case hash != "" && (!exists || current.hash != hash):
		return conflict("write", path)
	}

	m.files[path] = memFile{content: content, hash: contentHash(content)}
	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, path, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path = cleanPrefix(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[path]; !ok {
		return notFound("remove", path)
	}
	delete(m.files, path)
	return nil
}

func (m *MemoryStore) List(ctx context.Context, prefix string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix = cleanPrefix(prefix)
	lead := ""
	if prefix != "" {
		lead = prefix + "/"
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]EntryKind)
	for p := range m.files {
		rest, ok := strings.CutPrefix(p, lead)
		if !ok || rest == "" {
			continue
		}
		if name, _, nested := strings.Cut(rest, "/"); nested {
			seen[name] = KindDir
		} else {
			seen[name] = KindFile
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, Entry{Name: name, Path: childPath(prefix, name), Kind: seen[name]})
	}
	return entries, nil
}
