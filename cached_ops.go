package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ddmoney420/moji/ansi"
	"github.com/ddmoney420/moji/render"
	"github.com/ddmoney420/moji/share"
	"github.com/ddmoney420/moji/system"
)

const (
	TruncateMaxScan = 1024
)

// Rendering is every projection the server needs from one input.
type Rendering struct {
	Input     string
	Html      string
	Runs      []render.Run
	Anomalies int
	Truncated bool
}

func renderInput(input string, maxBytes int) *Rendering {
	rd := new(Rendering)
	if len(input) > maxBytes {
		system.Logger.Info("large input truncated", "size", len(input), "limit", maxBytes)
		input = truncateLargeContent(input, maxBytes, TruncateMaxScan)
		rd.Truncated = true
	}
	rd.Input = input

	var buf bytes.Buffer
	runs := render.NewRunCollector()
	in := render.NewInterpreter(render.Multi(render.NewHTMLWriter(&buf), runs))
	in.Anomaly = func(a ansi.Anomaly, fragment string) {
		rd.Anomalies++
		system.Logger.Debug("ansi anomaly", "kind", a, "fragment", fmt.Sprintf("%q", fragment))
	}
	in.Interpret(input)

	rd.Html = buf.String()
	rd.Runs = runs.Runs()
	return rd
}

type ShareRequest struct {
	ID string
}

func (r *ShareRequest) String() string {
	return fmt.Sprintf("moji:share/%v", r.ID)
}

func (s *server) generateShareHTML(r *ShareRequest) (*ShareHTML, time.Duration, error) {
	e, err := s.store.Get(r.ID)
	if err != nil {
		return nil, 0, err
	}

	rd := renderInput(e.Input, s.config.Render.MaxInputBytes)
	return &ShareHTML{
		ID:          e.ID,
		Title:       e.Title,
		Created:     e.Created,
		ContentHtml: rd.Html,
		Truncated:   rd.Truncated,
	}, s.config.RenderCacheTimeout(), nil
}

// truncateLargeContent cuts content to at most size bytes, preferring to end
// on a line boundary found within maxScan bytes of the cut.
func truncateLargeContent(content string, size, maxScan int) string {
	if len(content) <= size {
		return content
	}
	for i := size - 1; i >= size-maxScan && i >= 0; i-- {
		if content[i] == '\n' {
			return content[:i+1]
		}
	}
	return content[:size]
}

// newShareEntry truncates input the same way rendering does, so the stored
// entry is what gets shown.
func (s *server) newShareEntry(input, title string) *share.Entry {
	input = truncateLargeContent(input, s.config.Render.MaxInputBytes, TruncateMaxScan)
	return share.NewEntry(input, title, s.now())
}
