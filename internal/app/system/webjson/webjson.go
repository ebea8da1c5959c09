// internal/app/system/webjson/webjson.go

// Package webjson holds the JSON helpers shared by every API handler: the
// response writer and the {msg, err?} error envelope the frontend surfaces
// directly.
package webjson

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrorBody is the wire shape of every API error. Msg is user-facing; Err
// carries the underlying diagnostic when one exists.
type ErrorBody struct {
	Msg string `json:"msg"`
	Err string `json:"err,omitempty"`
}

// Write encodes v as JSON with the given status. A nil v writes only the
// status and headers.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error writes the {msg, err?} envelope with the given status. err may be
// nil for domain faults that carry no diagnostic.
func Error(w http.ResponseWriter, status int, msg string, err error) {
	body := ErrorBody{Msg: msg}
	if err != nil {
		body.Err = err.Error()
	}
	Write(w, status, body)
}

// Decode parses the request body into v, rejecting unknown fields so a
// mistyped payload fails loudly instead of half-applying.
func Decode(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
