package api

import (
	"errors"
	"fmt"
	"net/http"

	repository "github.com/okian/arthouse/internal/adapters/repository"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	ErrInternal   = errors.New("internal error")
)

// Error tags an error with the operation that produced it and a kind.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Kind != nil && !errors.Is(e.Err, e.Kind):
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewKind returns an error of kind for op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// Wrap tags err with op. The kind is derived from the cause.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	kind := ErrInternal
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrDirectorNotFound) {
		kind = ErrNotFound
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// WrapKind tags err with op and an explicit kind.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// statusOf maps an error to its response status. Only missing films and
// directors are distinguished; every other failure, malformed filters included, is a 500.
func statusOf(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, repository.ErrDirectorNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// message is the client-facing text of err without the operation tag.
func message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Err != nil {
			return e.Err.Error()
		}
		return e.Kind.Error()
	}
	return err.Error()
}
