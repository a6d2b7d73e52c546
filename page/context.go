package page

import (
	"net/http"

	"github.com/gorilla/mux"
)

type Context interface {
	Request() *http.Request
	// Vars returns the route variables of the request.
	Vars() map[string]string
}

type context struct {
	req  *http.Request
	vars map[string]string
}

func newContext(req *http.Request) (*context, error) {
	return &context{
		req:  req,
		vars: mux.Vars(req),
	}, nil
}

func (c *context) Request() *http.Request {
	return c.req
}

func (c *context) Vars() map[string]string {
	if c.vars == nil {
		return map[string]string{}
	}
	return c.vars
}
