package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ddmoney420/moji/gate"
	"github.com/ddmoney420/moji/page"
	"github.com/ddmoney420/moji/raster"
)

// Error pages below render with the generic error template.

type InputTooLargeError struct {
	Title       string
	ContentHtml string
	Limit       int64
}

func (InputTooLargeError) TemplateName() string { return page.TnameError }

func (e *InputTooLargeError) Error() string {
	return fmt.Sprintf("request body exceeds %v bytes", e.Limit)
}

func (e *InputTooLargeError) WriteHeaders(w http.ResponseWriter) error {
	w.WriteHeader(http.StatusRequestEntityTooLarge)
	return nil
}

func NewInputTooLargeError(limit int64) *InputTooLargeError {
	return &InputTooLargeError{
		Title:       `413 - Request Entity Too Large`,
		ContentHtml: fmt.Sprintf(`The submitted art is larger than %v bytes.`, limit),
		Limit:       limit,
	}
}

type ImageTooLargeError struct {
	Title         string
	ContentHtml   string
	UnderlyingErr error
}

func (ImageTooLargeError) TemplateName() string { return page.TnameError }

func (e *ImageTooLargeError) Error() string {
	return e.UnderlyingErr.Error()
}

func (e *ImageTooLargeError) Unwrap() error {
	return e.UnderlyingErr
}

func (e *ImageTooLargeError) WriteHeaders(w http.ResponseWriter) error {
	w.WriteHeader(http.StatusRequestEntityTooLarge)
	return nil
}

type ServerBusyError struct {
	Title         string
	ContentHtml   string
	UnderlyingErr error
}

func (ServerBusyError) TemplateName() string { return page.TnameError }

func (e *ServerBusyError) Error() string {
	return fmt.Sprintf("server busy: %v", e.UnderlyingErr)
}

func (e *ServerBusyError) Unwrap() error {
	return e.UnderlyingErr
}

func (e *ServerBusyError) WriteHeaders(w http.ResponseWriter) error {
	w.Header().Set("Retry-After", "5")
	w.WriteHeader(http.StatusServiceUnavailable)
	return nil
}

func clarifyRenderError(err error) error {
	if errors.Is(err, raster.ErrTooLarge) {
		return &ImageTooLargeError{
			Title:         `413 - Request Entity Too Large`,
			ContentHtml:   `This art is too large to draw as an image. The text version is still available.`,
			UnderlyingErr: err,
		}
	}
	if errors.Is(err, gate.ErrTooBusy) {
		return &ServerBusyError{
			Title:         `503 - Service Unavailable`,
			ContentHtml:   `503 - Server Too Busy. Please try again later.`,
			UnderlyingErr: err,
		}
	}
	return err
}
