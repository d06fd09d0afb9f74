package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/q42jaap/opvault/internal/item"
	"github.com/q42jaap/opvault/internal/items"
	"github.com/q42jaap/opvault/internal/logging"
)

// ItemHandler exposes the item operations over HTTP.
type ItemHandler struct {
	items *items.Service
	log   logging.Logger
}

func NewItemHandler(svc *items.Service, log logging.Logger) *ItemHandler {
	return &ItemHandler{items: svc, log: log}
}

type fieldSpecDTO struct {
	Path  string `json:"path"`
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

func toFieldSpecs(dtos []fieldSpecDTO) []item.FieldSpec {
	specs := make([]item.FieldSpec, 0, len(dtos))
	for _, d := range dtos {
		specs = append(specs, item.FieldSpec{Path: d.Path, Type: d.Type, Value: d.Value})
	}
	return specs
}

type createItemRequest struct {
	Vault                 string         `json:"vault"`
	Category              string         `json:"category"`
	Title                 string         `json:"title"`
	URL                   string         `json:"url,omitempty"`
	Tags                  []string       `json:"tags,omitempty"`
	AdditionalInformation string         `json:"additional_information,omitempty"`
	GeneratePassword      bool           `json:"generate_password,omitempty"`
	Fields                []fieldSpecDTO `json:"fields,omitempty"`
}

// Create assembles and stores a new item.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	created, err := h.items.Create(r.Context(), toFieldSpecs(req.Fields), items.Attributes{
		Vault:                 req.Vault,
		Category:              item.Category(req.Category),
		Title:                 req.Title,
		URL:                   req.URL,
		Tags:                  req.Tags,
		AdditionalInformation: req.AdditionalInformation,
		GeneratePassword:      req.GeneratePassword,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

type editItemRequest struct {
	Title                 *string        `json:"title,omitempty"`
	URL                   *string        `json:"url,omitempty"`
	Tags                  []string       `json:"tags,omitempty"`
	AdditionalInformation *string        `json:"additional_information,omitempty"`
	Fields                []fieldSpecDTO `json:"fields,omitempty"`
}

// Edit merges field specifications into the stored item.
func (h *ItemHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req editItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	edited, err := h.items.Edit(r.Context(), chi.URLParam(r, "id"), toFieldSpecs(req.Fields), items.EditAttributes{
		Title:                 req.Title,
		URL:                   req.URL,
		Tags:                  req.Tags,
		AdditionalInformation: req.AdditionalInformation,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, edited)
}

// Get returns the item, or a field projection when label or type query
// parameters are present. A lone label match is returned as a single
// object; everything else is an array.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter *items.Filter
	if labels, types := q["label"], q["type"]; len(labels) > 0 || len(types) > 0 {
		filter = &items.Filter{Labels: labels, Types: types}
	}

	res, err := h.items.Get(r.Context(), chi.URLParam(r, "id"), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res.Value())
}

// Delete removes the item.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.items.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type attachFileRequest struct {
	Name        string `json:"name"`
	Content     []byte `json:"content"`
	SectionPath string `json:"section_path,omitempty"`
}

// AttachFile uploads the content to blob storage and records it on the
// item.
func (h *ItemHandler) AttachFile(w http.ResponseWriter, r *http.Request) {
	var req attachFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "file name required", http.StatusBadRequest)
		return
	}

	updated, err := h.items.AttachFile(r.Context(), chi.URLParam(r, "id"), req.Name, req.Content, req.SectionPath)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

type fileURLResponse struct {
	URL string `json:"url"`
}

// FileURL returns a presigned download URL for an attachment.
func (h *ItemHandler) FileURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.items.FileURL(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "fileID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fileURLResponse{URL: url})
}

func (h *ItemHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		h.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	http.Error(w, err.Error(), status)
}
