package page

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ddmoney420/moji/share"
	"github.com/ddmoney420/moji/system"
)

func setCommonResponseHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Server", "mojiweb")
	h.Set("Content-Type", "text/html; charset=utf-8")
}

type ErrorWrapper func(Context, http.ResponseWriter) error

func (fn ErrorWrapper) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCommonResponseHeaders(w)

	if err := clarifyStoreError(handleRequest(w, r, fn)); err != nil {
		var pg Page
		if errors.As(err, &pg) {
			if err = ExecutePage(w, pg); err != nil {
				system.Logger.Error("failed to emit error page", "err", err)
			}
			return
		}
		internalError(w, err)
	}
}

func clarifyStoreError(err error) error {
	if errors.Is(err, share.ErrNotFound) {
		return NewNotFoundError(err)
	}
	return err
}

func internalError(w http.ResponseWriter, err error) {
	system.Logger.Error("internal error", "err", err)
	w.WriteHeader(http.StatusInternalServerError)
	ExecutePage(w, &Error{
		Title:       `500 - Internal Server Error`,
		ContentHtml: `500 - Internal Server Error / Server Too Busy.`,
	})
}

func handleRequest(w http.ResponseWriter, r *http.Request, f func(Context, http.ResponseWriter) error) error {
	ctx, err := newContext(r)
	if err != nil {
		return err
	}
	return f(ctx, w)
}

type NotFoundError struct {
	NotFound
	UnderlyingErr error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found error page: %v", e.UnderlyingErr)
}

func (e *NotFoundError) Unwrap() error {
	return e.UnderlyingErr
}

func NewNotFoundError(err error) *NotFoundError {
	return &NotFoundError{
		UnderlyingErr: err,
	}
}
