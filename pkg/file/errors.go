package file

import "errors"

var (
	ErrInvalidConfig           = errors.New("file: invalid storage config")
	ErrInvalidPath             = errors.New("file: invalid path")
	ErrFileNotFound            = errors.New("file: not found")
	ErrFailedToCreateDirectory = errors.New("file: failed to create directory")
	ErrFailedToSaveFile        = errors.New("file: failed to save")
	ErrFailedToDeleteFile      = errors.New("file: failed to delete")
)
