package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/ddmoney420/moji/render"
	"github.com/ddmoney420/moji/share"
	"github.com/gorilla/feeds"
)

const DefaultSnippetLines = 24

type Converter struct {
	Title        string
	LinkFeed     string
	LinkShare    func(id string) (string, error)
	SnippetLines int
}

// Convert builds a feed from entries, newest first. Entries whose link cannot
// be built are skipped.
func (c *Converter) Convert(entries []*share.Entry) (*feeds.Feed, error) {
	var items []*feeds.Item
	for _, e := range entries {
		item, err := c.convertEntry(e)
		if err != nil {
			// Ignore errors.
			continue
		}
		items = append(items, item)
	}

	return &feeds.Feed{
		Title:   c.Title,
		Id:      c.LinkFeed,
		Link:    &feeds.Link{Rel: "self", Href: c.LinkFeed},
		Updated: firstEntryTimeOrNow(entries),
		Items:   items,
	}, nil
}

func (c *Converter) convertEntry(e *share.Entry) (*feeds.Item, error) {
	shareURL, err := c.LinkShare(e.ID)
	if err != nil {
		return nil, err
	}
	title := e.Title
	if title == "" {
		title = e.ID
	}
	return &feeds.Item{
		Title:   title,
		Id:      shareURL,
		Link:    &feeds.Link{Rel: "alternate", Type: "text/html", Href: shareURL},
		Created: e.Created,
		Updated: e.Created,
		Content: fmt.Sprintf("<pre>%v</pre>", render.HTML(c.snippet(e.Input))),
	}, nil
}

func (c *Converter) snippet(input string) string {
	n := c.SnippetLines
	if n <= 0 {
		n = DefaultSnippetLines
	}
	lines := strings.SplitN(input, "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

func firstEntryTimeOrNow(entries []*share.Entry) time.Time {
	for _, e := range entries {
		if !e.Created.IsZero() {
			return e.Created
		}
	}
	return time.Now()
}
