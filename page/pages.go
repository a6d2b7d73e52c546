package page

import (
	"html/template"
	"net/http"
	"time"
)

type Page interface {
	TemplateName() string
}

type NoContent struct{}

func (NoContent) TemplateName() string { return "" }

type Redirect struct {
	NoContent
	To string
}

func (p *Redirect) WriteHeaders(w http.ResponseWriter) error {
	w.Header().Set("Location", p.To)
	w.WriteHeader(http.StatusSeeOther)
	return nil
}

func NewRedirect(to string) *Redirect {
	return &Redirect{
		To: to,
	}
}

type NotFound struct{}

func (NotFound) TemplateName() string { return TnameNotFound }

func (p *NotFound) WriteHeaders(w http.ResponseWriter) error {
	w.WriteHeader(http.StatusNotFound)
	return nil
}

type Error struct {
	Title       string
	ContentHtml string
}

func (Error) TemplateName() string { return TnameError }

type Playground struct {
	Input       string
	ContentHtml template.HTML
	Truncated   bool
	Anomalies   int
}

func (Playground) TemplateName() string { return TnamePlayground }

type Share struct {
	ID          string
	Title       string
	Created     time.Time
	ContentHtml template.HTML
	Truncated   bool
}

func (Share) TemplateName() string { return TnameShare }

// Document is a self-contained HTML export of one piece of art.
type Document struct {
	Title       string
	ContentHtml template.HTML
}

func (Document) TemplateName() string { return TnameDocument }
