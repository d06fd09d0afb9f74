// Package httpapi wires the item service into an HTTP surface: a chi
// router, bearer-token middleware and JSON handlers.
package httpapi

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/q42jaap/opvault/internal/items"
	"github.com/q42jaap/opvault/internal/logging"
)

// RouterOptions carries everything the HTTP surface needs.
type RouterOptions struct {
	Items             *items.Service
	Logger            logging.Logger
	SecretKey         []byte
	AccountID         string
	AccountSecretHash string
	TokenValidity     time.Duration
}

// NewRouter builds the API router. The session endpoint is open; every
// item route requires a bearer token.
func NewRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Use(WithLogging(opts.Logger))

	session := NewSessionHandler(opts.AccountID, opts.AccountSecretHash, opts.SecretKey, opts.TokenValidity, opts.Logger)
	r.Post("/api/v1/session", session.Create)

	itemHandler := NewItemHandler(opts.Items, opts.Logger)
	r.Group(func(r chi.Router) {
		r.Use(WithAuth(opts.SecretKey))

		r.Post("/api/v1/items", itemHandler.Create)
		r.Get("/api/v1/items/{id}", itemHandler.Get)
		r.Put("/api/v1/items/{id}", itemHandler.Edit)
		r.Delete("/api/v1/items/{id}", itemHandler.Delete)
		r.Post("/api/v1/items/{id}/files", itemHandler.AttachFile)
		r.Get("/api/v1/items/{id}/files/{fileID}/url", itemHandler.FileURL)
	})

	return r
}
