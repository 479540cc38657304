package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for HTTP mapping and message selection.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindUnsupportedMedia
	KindConflict
	KindProcessing
)

// GenericMessage is the stable response for failures the caller cannot correct.
const GenericMessage = "Your request could not be processed. Please try again."

// Error carries a kind plus the message shown to the caller for
// user-correctable kinds. Processing errors keep their cause for logs only.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

func Wrap(kind Kind, msg string, err error) *Error { return &Error{Kind: kind, Msg: msg, Err: err} }

// KindOf returns the kind carried by err. Unclassified errors count as
// processing failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindProcessing
}

// UserMessage returns the message safe to put in a response body.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		switch e.Kind {
		case KindValidation, KindNotFound, KindUnsupportedMedia, KindConflict:
			return e.Msg
		}
	}
	return GenericMessage
}

// HTTPStatus maps err to the status the route handlers use. Processing
// failures return 400 with the generic message, matching the storefront's
// catch-all behavior; the image pipeline maps its own failures to 500.
func HTTPStatus(err error) int {
	if KindOf(err) == KindNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
