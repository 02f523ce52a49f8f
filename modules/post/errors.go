package post

import "errors"

var (
	ErrPostNotFound   = errors.New("post: not found")
	ErrDuplicateTitle = errors.New("post: title already taken")
	ErrNotPostOwner   = errors.New("post: not the owner")
	ErrNotAnImage     = errors.New("post: uploaded file is not an image")
)
