package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/siteshim/internal/logfields"
)

// writeJSON encodes v fully before touching w, so an encode failure can still
// be reported as an error response. ?pretty=1 indents the output.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) error {
	var (
		b   []byte
		err error
	)
	if p := r.URL.Query().Get("pretty"); p == "1" || p == "true" {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return nil
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		slog.Error("Failed writing JSON response body", logfields.Error(err))
	}
	return nil
}
