package post

import "context"

// ListQuery carries list filtering, sorting, projection, and pagination.
// Zero values mean "not set".
type ListQuery struct {
	AuthorID string
	Status   *Status
	Category string

	// Sort is a comma-separated field list; a leading '-' means descending,
	// e.g. "-createdAt,title". Defaults to "-createdAt".
	Sort string

	// Fields is a comma-separated projection list, e.g. "title,slug".
	Fields string

	Page  int
	Limit int
}

// Storage defines post persistence. A Mongo implementation lives in
// mongo_store.go; tests use an in-memory double.
type Storage interface {
	// CreatePost inserts a post. Returns ErrDuplicateTitle when the title or
	// slug is taken.
	CreatePost(ctx context.Context, post *Post) error

	// GetPost returns the post or ErrPostNotFound.
	GetPost(ctx context.Context, id string) (*Post, error)

	// GetPostBySlug returns the post or ErrPostNotFound.
	GetPostBySlug(ctx context.Context, slug string) (*Post, error)

	// ListPosts returns posts matching the query.
	ListPosts(ctx context.Context, q ListQuery) ([]*Post, error)

	// UpdatePost replaces the mutable fields of a post. Returns
	// ErrDuplicateTitle on title/slug collisions, ErrPostNotFound otherwise
	// when the post is gone.
	UpdatePost(ctx context.Context, post *Post) error

	// DeletePost removes the post or returns ErrPostNotFound.
	DeletePost(ctx context.Context, id string) error

	// SetStatus updates the moderation status.
	SetStatus(ctx context.Context, id string, status Status) error

	// SetCoverImage stores the cover image URL.
	SetCoverImage(ctx context.Context, id string, url string) error
}
