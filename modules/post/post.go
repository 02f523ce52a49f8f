package post

import (
	"time"

	"github.com/dmitrymomot/inkwell/pkg/sanitizer"
	"github.com/dmitrymomot/inkwell/pkg/slug"
	"github.com/dmitrymomot/inkwell/pkg/validator"
)

// Status is the moderation state of a post. Only approved posts are publicly
// visible.
type Status int

const (
	StatusPending  Status = 100
	StatusApproved Status = 101
	StatusRejected Status = 102
)

// Valid reports whether the status is one of the known states.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Categories a post can belong to.
var Categories = []string{"technology", "health", "trending", "politics"}

const (
	titleMaxLen       = 70
	descriptionMaxLen = 150
	tagsMaxLen        = 100
)

// Post is a blog article.
type Post struct {
	ID          string    `bson:"_id" json:"id"`
	AuthorID    string    `bson:"author_id" json:"authorId"`
	Title       string    `bson:"title" json:"title"`
	Slug        string    `bson:"slug" json:"slug"`
	Description string    `bson:"description" json:"description"`
	Content     string    `bson:"content" json:"content"`
	Tags        string    `bson:"tags,omitempty" json:"tags,omitempty"`
	Category    string    `bson:"category" json:"category"`
	CoverImage  string    `bson:"cover_image,omitempty" json:"coverImage,omitempty"`
	Status      Status    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

// PostParams carries create/update input for a post.
type PostParams struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Tags        string `json:"tags,omitempty"`
	Category    string `json:"category"`
}

func (p *PostParams) sanitize() {
	p.Title = sanitizer.CollapseWhitespace(sanitizer.Trim(p.Title))
	p.Description = sanitizer.Trim(p.Description)
	p.Content = sanitizer.Trim(p.Content)
	p.Tags = sanitizer.Trim(p.Tags)
	p.Category = sanitizer.Trim(p.Category)
}

func (p PostParams) validate() error {
	return validator.Apply(
		validator.RequiredString("title", p.Title),
		validator.MaxLenString("title", p.Title, titleMaxLen),
		validator.RequiredString("description", p.Description),
		validator.MaxLenString("description", p.Description, descriptionMaxLen),
		validator.RequiredString("content", p.Content),
		validator.MaxLenString("tags", p.Tags, tagsMaxLen),
		validator.InListString("category", p.Category, Categories),
	)
}

// slugify derives the URL slug from the title. Derivation is explicit at
// write time, never a persistence hook.
func (p PostParams) slugify() string {
	return slug.Make(p.Title)
}
