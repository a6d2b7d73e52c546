package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gorilla/mux"

	"github.com/ddmoney420/moji/cache"
	"github.com/ddmoney420/moji/feed"
	"github.com/ddmoney420/moji/gate"
	"github.com/ddmoney420/moji/page"
	"github.com/ddmoney420/moji/raster"
	"github.com/ddmoney420/moji/render"
	"github.com/ddmoney420/moji/share"
)

const (
	FormInput = "input"
	FormTitle = "title"

	MaxTitleLength = 120
)

var (
	ErrEmptyInput = errors.New("empty input")
)

type server struct {
	config     *MojiwebConfig
	router     *mux.Router
	store      share.Store
	renderGate *gate.Gate
	shareCache *cache.TypedManager[*ShareRequest, *ShareHTML]
	feedConv   *feed.Converter
	now        func() time.Time
}

func newServer(config *MojiwebConfig, c cache.Cache, store share.Store) (*server, error) {
	s := &server{
		config:     config,
		store:      store,
		renderGate: gate.New(config.Render.MaxConcurrent, config.Render.MaxWaiting),
		now:        time.Now,
	}
	s.shareCache = makeTypedCache[*ShareRequest, ShareHTML](c, s.generateShareHTML)
	s.router = s.createRouter()

	feedURL, err := s.absURL("atom_recent")
	if err != nil {
		return nil, err
	}
	s.feedConv = &feed.Converter{
		Title:     config.FeedTitle,
		LinkFeed:  feedURL,
		LinkShare: s.shareURL,
	}

	if err := page.LoadTemplates(config.TemplateDirectory, templateFuncMap(s.router)); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *server) createRouter() *mux.Router {
	router := mux.NewRouter()
	router.Handle(`/`, page.ErrorWrapper(s.handlePlayground)).Methods(http.MethodGet, http.MethodPost).Name("playground")
	router.Handle(`/share`, page.ErrorWrapper(s.handleShareForm)).Methods(http.MethodPost).Name("share_form")
	router.Handle(`/s/{id:[0-9a-f]+}`, page.ErrorWrapper(s.handleShare)).Methods(http.MethodGet).Name("share")
	router.Handle(`/s/{id:[0-9a-f]+}.png`, page.ErrorWrapper(s.handleSharePNG)).Methods(http.MethodGet).Name("share_png")
	router.Handle(`/s/{id:[0-9a-f]+}.txt`, page.ErrorWrapper(s.handleShareText)).Methods(http.MethodGet).Name("share_txt")
	router.Handle(`/atom/recent.xml`, page.ErrorWrapper(s.handleRecentFeed)).Methods(http.MethodGet).Name("atom_recent")
	router.Handle(`/api/convert`, page.ErrorWrapper(s.handleAPIConvert)).Methods(http.MethodPost).Name("api_convert")
	router.Handle(`/api/share`, page.ErrorWrapper(s.handleAPIShare)).Methods(http.MethodPost).Name("api_share")
	router.Handle(`/api/schema.json`, page.ErrorWrapper(s.handleSchema)).Methods(http.MethodGet).Name("api_schema")
	router.NotFoundHandler = page.ErrorWrapper(func(c page.Context, w http.ResponseWriter) error {
		return page.NewNotFoundError(errors.New(c.Request().URL.Path))
	})
	return router
}

func (s *server) absURL(name string, pairs ...string) (string, error) {
	u, err := s.router.Get(name).URLPath(pairs...)
	if err != nil {
		return "", err
	}
	return s.config.SitePrefix + u.String(), nil
}

func (s *server) shareURL(id string) (string, error) {
	return s.absURL("share", "id", id)
}

// render runs input through the interpreter, waiting for a free render slot.
func (s *server) render(ctx context.Context, input string) (*Rendering, error) {
	var rd *Rendering
	err := s.renderGate.Do(ctx, func() error {
		rd = renderInput(input, s.config.Render.MaxInputBytes)
		return nil
	})
	return rd, err
}

func (s *server) limitBody(c page.Context, w http.ResponseWriter) {
	r := c.Request()
	r.Body = http.MaxBytesReader(w, r.Body, s.config.Render.MaxRequestBytes)
}

func (s *server) parseForm(c page.Context, w http.ResponseWriter) error {
	s.limitBody(c, w)
	if err := c.Request().ParseForm(); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return NewInputTooLargeError(maxBytes.Limit)
		}
		return err
	}
	return nil
}

func (s *server) handlePlayground(c page.Context, w http.ResponseWriter) error {
	r := c.Request()
	p := &page.Playground{}
	if r.Method != http.MethodPost {
		return page.ExecutePage(w, p)
	}

	if err := s.parseForm(c, w); err != nil {
		return err
	}
	rd, err := s.render(r.Context(), r.PostFormValue(FormInput))
	if err != nil {
		return clarifyRenderError(err)
	}
	p.Input = rd.Input
	p.ContentHtml = template.HTML(rd.Html)
	p.Truncated = rd.Truncated
	p.Anomalies = rd.Anomalies
	return page.ExecutePage(w, p)
}

func (s *server) handleShareForm(c page.Context, w http.ResponseWriter) error {
	r := c.Request()
	if err := s.parseForm(c, w); err != nil {
		return err
	}
	e, _, err := s.putShare(r.PostFormValue(FormInput), r.PostFormValue(FormTitle))
	if errors.Is(err, ErrEmptyInput) {
		u, err := s.router.Get("playground").URLPath()
		if err != nil {
			return err
		}
		return page.ExecutePage(w, page.NewRedirect(u.String()))
	} else if err != nil {
		return err
	}
	u, err := s.router.Get("share").URLPath("id", e.ID)
	if err != nil {
		return err
	}
	return page.ExecutePage(w, page.NewRedirect(u.String()))
}

func (s *server) putShare(input, title string) (*share.Entry, bool, error) {
	if input == "" {
		return nil, false, ErrEmptyInput
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		title = string([]rune(title)[:MaxTitleLength])
	}
	e := s.newShareEntry(input, title)
	created, err := s.store.Put(e)
	return e, created, err
}

func (s *server) handleShare(c page.Context, w http.ResponseWriter) error {
	sh, err := s.shareCache.Get(c.Request().Context(), &ShareRequest{ID: c.Vars()["id"]})
	if err != nil {
		return err
	}
	return page.ExecutePage(w, &page.Share{
		ID:          sh.ID,
		Title:       sh.Title,
		Created:     sh.Created,
		ContentHtml: template.HTML(sh.ContentHtml),
		Truncated:   sh.Truncated,
	})
}

func (s *server) handleSharePNG(c page.Context, w http.ResponseWriter) error {
	r := c.Request()
	e, err := s.store.Get(c.Vars()["id"])
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	err = s.renderGate.Do(r.Context(), func() error {
		rd := renderInput(e.Input, s.config.Render.MaxInputBytes)
		return raster.EncodePNG(&buf, rd.Runs, s.config.PNGOptions())
	})
	if err != nil {
		return clarifyRenderError(err)
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, err = buf.WriteTo(w)
	return err
}

func (s *server) handleShareText(c page.Context, w http.ResponseWriter) error {
	e, err := s.store.Get(c.Vars()["id"])
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, err = io.WriteString(w, e.Input)
	return err
}

func (s *server) handleRecentFeed(c page.Context, w http.ResponseWriter) error {
	entries, err := s.store.Recent(s.config.Share.FeedSize)
	if err != nil {
		return err
	}
	f, err := s.feedConv.Convert(entries)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
	return f.WriteAtom(w)
}

type ConvertReq struct {
	Input string `json:"input"`
	Title string `json:"title,omitempty"`
}

func (s *server) decodeConvertReq(c page.Context, w http.ResponseWriter) (*ConvertReq, error) {
	s.limitBody(c, w)
	var req ConvertReq
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *server) handleAPIConvert(c page.Context, w http.ResponseWriter) error {
	req, err := s.decodeConvertReq(c, w)
	if err != nil {
		return writeAPIError(w, err)
	}
	rd, err := s.render(c.Request().Context(), req.Input)
	if err != nil {
		return writeAPIError(w, err)
	}
	return page.WriteAjaxResp(w, &page.ConvertResp{
		Html:      rd.Html,
		Runs:      rd.Runs,
		Text:      render.PlainText(rd.Runs),
		Truncated: rd.Truncated,
	})
}

func (s *server) handleAPIShare(c page.Context, w http.ResponseWriter) error {
	req, err := s.decodeConvertReq(c, w)
	if err != nil {
		return writeAPIError(w, err)
	}
	e, created, err := s.putShare(req.Input, req.Title)
	if err != nil {
		return writeAPIError(w, err)
	}
	u, err := s.shareURL(e.ID)
	if err != nil {
		return err
	}
	return page.WriteAjaxResp(w, &page.ShareResp{
		ID:      e.ID,
		URL:     u,
		Created: created,
	})
}

func (s *server) handleSchema(c page.Context, w http.ResponseWriter) error {
	return page.WriteAjaxResp(w, runSchema())
}

// writeAPIError answers JSON endpoints. Only unexpected errors are passed on
// to the error page.
func writeAPIError(w http.ResponseWriter, err error) error {
	var maxBytes *http.MaxBytesError
	var syntax *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &maxBytes):
		return page.WriteAjaxError(w, http.StatusRequestEntityTooLarge, "request too large")
	case errors.As(err, &syntax), errors.As(err, &typeErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return page.WriteAjaxError(w, http.StatusBadRequest, "malformed request")
	case errors.Is(err, ErrEmptyInput):
		return page.WriteAjaxError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, gate.ErrTooBusy):
		return page.WriteAjaxError(w, http.StatusServiceUnavailable, "server too busy")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return page.WriteAjaxError(w, http.StatusServiceUnavailable, "request canceled")
	}
	return err
}
