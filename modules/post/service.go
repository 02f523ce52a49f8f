package post

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/inkwell/pkg/logger"
)

// Service implements post authoring, public reads, and moderation.
type Service struct {
	storage Storage
	log     *slog.Logger
}

// Option configures the post service.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// NewService creates the post service.
func NewService(storage Storage, opts ...Option) *Service {
	s := &Service{
		storage: storage,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create adds a new post for the author. New posts always start pending
// moderation; the slug is derived from the title here, at write time.
func (s *Service) Create(ctx context.Context, authorID string, params PostParams) (*Post, error) {
	params.sanitize()
	if err := params.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Post{
		ID:          uuid.NewString(),
		AuthorID:    authorID,
		Title:       params.Title,
		Slug:        params.slugify(),
		Description: params.Description,
		Content:     params.Content,
		Tags:        params.Tags,
		Category:    params.Category,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.CreatePost(ctx, p); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "post created",
		logger.PostID(p.ID),
		logger.UserID(authorID),
		logger.Component("post"),
	)

	return p, nil
}

// ListPublic returns approved posts only, whatever the query says about
// status.
func (s *Service) ListPublic(ctx context.Context, q ListQuery) ([]*Post, error) {
	approved := StatusApproved
	q.Status = &approved
	q.AuthorID = ""
	return s.storage.ListPosts(ctx, q)
}

// GetPublic returns an approved post by slug. Pending and rejected posts are
// indistinguishable from missing ones.
func (s *Service) GetPublic(ctx context.Context, slug string) (*Post, error) {
	p, err := s.storage.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusApproved {
		return nil, ErrPostNotFound
	}
	return p, nil
}

// ListMine returns the author's own posts in any status.
func (s *Service) ListMine(ctx context.Context, authorID string, q ListQuery) ([]*Post, error) {
	q.AuthorID = authorID
	return s.storage.ListPosts(ctx, q)
}

// GetMine returns one of the author's own posts.
func (s *Service) GetMine(ctx context.Context, authorID, id string) (*Post, error) {
	return s.getOwned(ctx, authorID, id)
}

// UpdateMine replaces the content of the author's own post. The slug follows
// the new title.
func (s *Service) UpdateMine(ctx context.Context, authorID, id string, params PostParams) (*Post, error) {
	params.sanitize()
	if err := params.validate(); err != nil {
		return nil, err
	}

	p, err := s.getOwned(ctx, authorID, id)
	if err != nil {
		return nil, err
	}

	p.Title = params.Title
	p.Slug = params.slugify()
	p.Description = params.Description
	p.Content = params.Content
	p.Tags = params.Tags
	p.Category = params.Category
	p.UpdatedAt = time.Now()

	if err := s.storage.UpdatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteMine removes the author's own post.
func (s *Service) DeleteMine(ctx context.Context, authorID, id string) error {
	if _, err := s.getOwned(ctx, authorID, id); err != nil {
		return err
	}
	return s.storage.DeletePost(ctx, id)
}

// List returns posts for moderation, unrestricted by author or status.
func (s *Service) List(ctx context.Context, q ListQuery) ([]*Post, error) {
	return s.storage.ListPosts(ctx, q)
}

// Get returns any post by id, for moderation.
func (s *Service) Get(ctx context.Context, id string) (*Post, error) {
	return s.storage.GetPost(ctx, id)
}

// Approve marks a post publicly visible.
func (s *Service) Approve(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, StatusApproved)
}

// Reject hides a post from the public listing.
func (s *Service) Reject(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, StatusRejected)
}

func (s *Service) setStatus(ctx context.Context, id string, status Status) error {
	if err := s.storage.SetStatus(ctx, id, status); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "post status changed",
		logger.PostID(id),
		slog.Int("status", int(status)),
		logger.Component("post"),
	)
	return nil
}

func (s *Service) getOwned(ctx context.Context, authorID, id string) (*Post, error) {
	p, err := s.storage.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != authorID {
		return nil, ErrNotPostOwner
	}
	return p, nil
}
