package favorite

import "errors"

var (
	ErrAlreadySaved   = errors.New("artist already in favorites")
	ErrNotSaved       = errors.New("favorite not found")
	ErrArtistNotFound = errors.New("artist not found")
	ErrCannotSaveSelf = errors.New("cannot save yourself")
)
