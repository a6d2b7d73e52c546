package page

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"os"
)

const (
	TnameLayout     = "layout.html"
	TnameCommon     = "common.html"
	TnameError      = "error.html"
	TnameNotFound   = "notfound.html"
	TnamePlayground = "playground.html"
	TnameShare      = "share.html"
	TnameDocument   = "document.html"
)

type TemplateMap map[string]*template.Template

//go:embed templates/*.html
var embeddedTemplates embed.FS

var (
	templateFiles = [][]string{
		{TnameError, TnameLayout, TnameCommon},
		{TnameNotFound, TnameLayout, TnameCommon},
		{TnamePlayground, TnameLayout, TnameCommon},
		{TnameShare, TnameLayout, TnameCommon},
		{TnameDocument, TnameCommon},
	}

	tmpl TemplateMap
)

func loadTemplates(fsys fs.FS, filenames [][]string, funcMap template.FuncMap) (TemplateMap, error) {
	new_tmpl := make(TemplateMap)

	for _, fns := range filenames {
		t := template.New("")
		t.Funcs(funcMap)

		if _, err := t.ParseFS(fsys, fns...); err != nil {
			return nil, err
		}

		name := fns[0]
		root := t.Lookup("ROOT")
		if root == nil {
			return nil, errors.New("No ROOT template defined")
		}
		new_tmpl[name] = root
	}

	return new_tmpl, nil
}

// LoadTemplates parses the page templates. An empty dir uses the templates
// built into the binary.
func LoadTemplates(dir string, funcMap template.FuncMap) error {
	var fsys fs.FS
	if dir == "" {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return err
		}
		fsys = sub
	} else {
		fsys = os.DirFS(dir)
	}

	new_tmpl, err := loadTemplates(fsys, templateFiles, funcMap)
	if err != nil {
		return err
	}
	tmpl = new_tmpl
	return nil
}

type NeedToWriteHeaders interface {
	WriteHeaders(w http.ResponseWriter) error
}

func ExecuteTemplate(w http.ResponseWriter, name string, arg interface{}) error {
	if p, ok := arg.(NeedToWriteHeaders); ok {
		if err := p.WriteHeaders(w); err != nil {
			return err
		}
	}
	if name == "" {
		return nil
	}
	return Render(w, name, arg)
}

// Render executes the named template without touching response headers.
func Render(w io.Writer, name string, arg interface{}) error {
	t, ok := tmpl[name]
	if !ok {
		return fmt.Errorf("template not loaded: %v", name)
	}
	return t.Execute(w, arg)
}

func ExecutePage(w http.ResponseWriter, p Page) error {
	return ExecuteTemplate(w, p.TemplateName(), p)
}
