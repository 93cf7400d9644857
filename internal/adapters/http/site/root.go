// Package site serves the embedded landing page.
package site

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Register serves the embedded site for every path no other route matched.
func Register(r chi.Router) {
	if r == nil {
		panic("router is nil")
	}
	r.Handle("/*", http.FileServer(FS()))
}
