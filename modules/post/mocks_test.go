package post_test

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrymomot/inkwell/modules/post"
)

// memStorage is an in-memory post.Storage for tests. Listing supports the
// filters the service relies on; sorting is newest-first like the default.
type memStorage struct {
	mu    sync.Mutex
	posts map[string]*post.Post
}

func newMemStorage() *memStorage {
	return &memStorage{posts: make(map[string]*post.Post)}
}

func (m *memStorage) CreatePost(ctx context.Context, p *post.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.posts {
		if existing.Title == p.Title || existing.Slug == p.Slug {
			return post.ErrDuplicateTitle
		}
	}

	cp := *p
	m.posts[p.ID] = &cp
	return nil
}

func (m *memStorage) GetPost(ctx context.Context, id string) (*post.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStorage) GetPostBySlug(ctx context.Context, slug string) (*post.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.posts {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, post.ErrPostNotFound
}

func (m *memStorage) ListPosts(ctx context.Context, q post.ListQuery) ([]*post.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*post.Post
	for _, p := range m.posts {
		if q.AuthorID != "" && p.AuthorID != q.AuthorID {
			continue
		}
		if q.Status != nil && p.Status != *q.Status {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *memStorage) UpdatePost(ctx context.Context, p *post.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[p.ID]; !ok {
		return post.ErrPostNotFound
	}
	for _, existing := range m.posts {
		if existing.ID != p.ID && (existing.Title == p.Title || existing.Slug == p.Slug) {
			return post.ErrDuplicateTitle
		}
	}

	cp := *p
	m.posts[p.ID] = &cp
	return nil
}

func (m *memStorage) DeletePost(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[id]; !ok {
		return post.ErrPostNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *memStorage) SetStatus(ctx context.Context, id string, status post.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return post.ErrPostNotFound
	}
	p.Status = status
	return nil
}

func (m *memStorage) SetCoverImage(ctx context.Context, id string, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return post.ErrPostNotFound
	}
	p.CoverImage = url
	return nil
}
