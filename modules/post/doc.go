// Package post implements blog posts: author-scoped CRUD, the public feed of
// approved posts, admin moderation, and cover image uploads.
package post
