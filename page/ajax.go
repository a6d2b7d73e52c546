package page

import (
	"encoding/json"
	"net/http"

	"github.com/ddmoney420/moji/render"
)

type ConvertResp struct {
	Html      string       `json:"html"`
	Runs      []render.Run `json:"runs"`
	Text      string       `json:"text"`
	Truncated bool         `json:"truncated,omitempty"`
}

type ShareResp struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Created bool   `json:"created"`
}

type ErrorResp struct {
	Error string `json:"error"`
}

func WriteAjaxResp(w http.ResponseWriter, obj interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(obj)
}

func WriteAjaxError(w http.ResponseWriter, status int, msg string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(&ErrorResp{Error: msg})
}
