package api

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

// Error is a backend rejection. Message is human readable and is what the
// screen shows in a toast.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Message
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// IsNotFound reports a 404; screens navigate away on it.
func IsNotFound(err error) bool {
	e, ok := asError(err)
	return ok && e.Status == http.StatusNotFound
}

func IsConflict(err error) bool {
	e, ok := asError(err)
	return ok && e.Status == http.StatusConflict
}

// IsRefused reports an answer about the resource itself (403, 404, 409 or
// 410): repeating the request unchanged will not help. A 401 or 429 is about
// the caller or the moment, and does not count.
func IsRefused(err error) bool {
	e, ok := asError(err)
	if !ok {
		return false
	}
	switch e.Status {
	case http.StatusForbidden, http.StatusNotFound, http.StatusConflict, http.StatusGone:
		return true
	}
	return false
}

// HasCode matches the backend error code, e.g. "INVITATION_ALREADY_ACCEPTED".
func HasCode(err error, code string) bool {
	e, ok := asError(err)
	return ok && e.Code == code
}

// FieldErrors is a failed payload check, field name -> failed rule.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "invalid payload: " + strings.Join(parts, ", ")
}
