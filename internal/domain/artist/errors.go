package artist

import (
	"errors"
	"strings"
)

var (
	ErrArtistProfileNotFound  = errors.New("artist profile not found")
	ErrProfileExists          = errors.New("artist profile already exists")
	ErrPrimaryStyleRequired   = errors.New("exactly one style must be marked primary")
	ErrDuplicateID            = errors.New("duplicate id in selection")
	ErrUnknownCatalogID       = errors.New("unknown style, service or body part")
	ErrInvalidWorkArrangement = errors.New("invalid work arrangement")
	ErrInvalidRates           = errors.New("rates must not be negative")
	ErrProjectNotFound        = errors.New("project not found")
	ErrProfileIncomplete      = errors.New("artist profile is incomplete")
)

// Requirement codes reported by IncompleteError.
const (
	MissingStyles       = "styles_min_2"
	MissingPrimaryStyle = "primary_style"
	MissingServices     = "services_min_1"
	MissingBodyParts    = "body_parts_min_1"
)

// IncompleteError lists what still blocks a profile from counting as complete.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return ErrProfileIncomplete.Error() + ": " + strings.Join(e.Missing, ", ")
}

func (e *IncompleteError) Unwrap() error { return ErrProfileIncomplete }
