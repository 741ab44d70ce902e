package media

import "errors"

var (
	ErrAssetNotFound   = errors.New("media not found")
	ErrNotOwner        = errors.New("you do not own this media")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("only images and videos are allowed")
	ErrInvalidFolder   = errors.New("unknown media folder")
	ErrEmptyFile       = errors.New("file is empty")
)
