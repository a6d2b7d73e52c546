package main

import (
	"html/template"
	"net/url"

	"github.com/gorilla/mux"
)

func templateFuncMap(router *mux.Router) template.FuncMap {
	return template.FuncMap{
		"route": func(where string, attrs ...string) (*url.URL, error) {
			return router.Get(where).URLPath(attrs...)
		},
	}
}
