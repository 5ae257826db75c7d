package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// --- Mocks ---

type memRepo struct {
	mu      sync.Mutex
	nextID  int64
	comics  map[int64]*Comic
	panels  []*Panel
	listErr error
	lists   int

	createPanelsErr error

	migrateErr error
	missing    []string
}

func newMemRepo() *memRepo {
	return &memRepo{comics: map[int64]*Comic{}}
}

func (m *memRepo) CreateComic(_ context.Context, c *Comic) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c.ID = m.nextID
	m.comics[c.ID] = c
	return nil
}

func (m *memRepo) CreatePanels(_ context.Context, panels []*Panel) error {
	if m.createPanelsErr != nil {
		return m.createPanelsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panels = append(m.panels, panels...)
	return nil
}

func (m *memRepo) ListComics(_ context.Context, limit int) ([]*Comic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*Comic
	for _, c := range m.comics {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) GetComic(_ context.Context, id int64) (*Comic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comics[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (m *memRepo) Migrate(context.Context) error { return m.migrateErr }

func (m *memRepo) MissingTables(context.Context) ([]string, error) { return m.missing, nil }

type memObjects struct {
	mu      sync.Mutex
	bucket  string
	exists  bool
	objects map[string][]byte
	types   map[string]string
	// failPanel makes uploads whose key names that panel fail.
	failPanel map[int]bool
}

func newMemObjects() *memObjects {
	return &memObjects{
		bucket:    DefaultBucket,
		exists:    true,
		objects:   map[string][]byte{},
		types:     map[string]string{},
		failPanel: map[int]bool{},
	}
}

func (m *memObjects) Bucket() string { return m.bucket }

func (m *memObjects) BucketExists(context.Context) (bool, error) { return m.exists, nil }

func (m *memObjects) Upload(_ context.Context, key string, data []byte, contentType string) (string, error) {
	for n := range m.failPanel {
		if strings.Contains(key, fmt.Sprintf("-panel-%d-", n)) {
			return "", errors.New("storage unavailable")
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.types[key] = contentType
	return "https://proj.supabase.co/storage/v1/object/public/" + m.bucket + "/" + key, nil
}
