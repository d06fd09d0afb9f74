// Package items implements the item-management use cases: assembling items
// from field specifications, merging edits into existing snapshots, and the
// read-side projections.
package items

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/q42jaap/opvault/internal/blobs"
	"github.com/q42jaap/opvault/internal/common"
	"github.com/q42jaap/opvault/internal/fieldpath"
	"github.com/q42jaap/opvault/internal/item"
	"github.com/q42jaap/opvault/internal/logging"
	"github.com/q42jaap/opvault/internal/netx"
	"github.com/q42jaap/opvault/internal/randx"
	"github.com/q42jaap/opvault/internal/vault"
)

// timeNow is a seam for tests that assert timestamp behavior.
var timeNow = time.Now

// Attributes are the create-time item attributes. Vault, Category and
// Title are required; the rest are optional conveniences.
type Attributes struct {
	Vault                 string
	Category              item.Category
	Title                 string
	URL                   string
	Tags                  []string
	AdditionalInformation string
	GeneratePassword      bool
}

// EditAttributes are optional attribute overrides for edit mode. Nil
// pointers leave the corresponding attribute untouched.
type EditAttributes struct {
	Title                 *string
	URL                   *string
	Tags                  []string
	AdditionalInformation *string
}

// Service is the item-mutation engine and accessor, operating against an
// external vault store. It holds no state between calls; every operation
// works on freshly fetched or freshly assembled snapshots.
type Service struct {
	store   vault.Store
	secrets item.SecretSource
	blobs   blobs.Store
	log     logging.Logger
	editor  string
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithBlobStore enables file attachments through the given blob store.
func WithBlobStore(b blobs.Store) Option {
	return func(s *Service) { s.blobs = b }
}

// WithEditor stamps last_edited_by on edits.
func WithEditor(editor string) Option {
	return func(s *Service) { s.editor = editor }
}

func NewService(store vault.Store, secrets item.SecretSource, log logging.Logger, opts ...Option) *Service {
	s := &Service{store: store, secrets: secrets, log: log}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create assembles a fresh item from the field specifications and persists
// it. Validation failures surface before the store is called.
func (s *Service) Create(ctx context.Context, specs []item.FieldSpec, attrs Attributes) (*item.Item, error) {
	if err := validateAttributes(attrs); err != nil {
		return nil, err
	}
	if err := validateSpecs(specs); err != nil {
		return nil, err
	}

	now := timeNow().UTC()
	it := &item.Item{
		ID:                    uuid.NewString(),
		Title:                 attrs.Title,
		Version:               1,
		Vault:                 item.VaultRef{ID: attrs.Vault},
		Category:              attrs.Category,
		CreatedAt:             now,
		UpdatedAt:             now,
		Tags:                  attrs.Tags,
		AdditionalInformation: attrs.AdditionalInformation,
	}

	a := item.NewAssembler(it, item.AssembleOptions{
		GeneratePassword: attrs.GeneratePassword,
		Secrets:          s.secrets,
	})
	for _, spec := range specs {
		if err := a.Apply(ctx, spec); err != nil {
			return nil, err
		}
	}
	if attrs.GeneratePassword {
		if err := a.EnsurePassword(ctx); err != nil {
			return nil, err
		}
	}

	if attrs.URL != "" {
		it.SetPrimaryURL(attrs.URL)
	}
	it.RefreshReferences()

	committed, err := s.store.PersistItem(ctx, it)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "item created", "id", committed.ID, "fields", len(committed.Fields))
	return committed, nil
}

// Edit merges the field specifications into the current snapshot of the
// item: mentioned fields are updated in place, new paths append, and
// everything else is preserved. Version and updated_at advance on success.
func (s *Service) Edit(ctx context.Context, id string, specs []item.FieldSpec, attrs EditAttributes) (*item.Item, error) {
	if err := validateSpecs(specs); err != nil {
		return nil, err
	}

	it, err := s.store.FetchItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if attrs.Title != nil {
		it.Title = *attrs.Title
	}
	if attrs.URL != nil {
		it.SetPrimaryURL(*attrs.URL)
	}
	if attrs.Tags != nil {
		it.Tags = attrs.Tags
	}
	if attrs.AdditionalInformation != nil {
		it.AdditionalInformation = *attrs.AdditionalInformation
	}

	a := item.NewAssembler(it, item.AssembleOptions{Secrets: s.secrets})
	for _, spec := range specs {
		if err := a.Apply(ctx, spec); err != nil {
			return nil, err
		}
	}

	s.advance(it)
	it.RefreshReferences()

	committed, err := s.store.PersistItem(ctx, it)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "item edited", "id", committed.ID, "version", committed.Version)
	return committed, nil
}

// advance bumps the version counter and moves updated_at strictly forward,
// stamping the editor when known.
func (s *Service) advance(it *item.Item) {
	it.Version++
	now := timeNow().UTC()
	if !now.After(it.UpdatedAt) {
		now = it.UpdatedAt.Add(time.Nanosecond)
	}
	it.UpdatedAt = now
	if s.editor != "" {
		it.LastEditedBy = s.editor
	}
}

// Get fetches an item and applies the optional field filter. The return
// shape is cardinality-sensitive: see Result.
func (s *Service) Get(ctx context.Context, id string, filter *Filter) (Result, error) {
	it, err := s.store.FetchItem(ctx, id)
	if err != nil {
		return Result{}, err
	}

	if filter == nil || (len(filter.Labels) == 0 && len(filter.Types) == 0) {
		return Result{Kind: KindItem, Item: it}, nil
	}

	if len(filter.Labels) > 0 {
		matches := it.FieldsByLabel(filter.Labels)
		if len(matches) == 1 {
			return Result{Kind: KindField, Field: &matches[0]}, nil
		}
		if matches == nil {
			matches = []item.Field{}
		}
		return Result{Kind: KindFields, Fields: matches}, nil
	}

	matches := it.FieldsByType(filter.Types)
	if matches == nil {
		matches = []item.Field{}
	}
	return Result{Kind: KindFields, Fields: matches}, nil
}

// Delete removes the item from the store. Deleting an absent item fails
// with common.ErrNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "item deleted", "id", id)
	return nil
}

// AttachFile uploads content to the blob store via a presigned PUT,
// appends a file entry to the item and persists the new snapshot. The
// optional sectionPath places the file inside a section, resolved with the
// same identity rules as field paths.
func (s *Service) AttachFile(ctx context.Context, id string, name string, content []byte, sectionPath string) (*item.Item, error) {
	if s.blobs == nil {
		return nil, fmt.Errorf("file storage not configured")
	}

	var sectionKey string
	if sectionPath != "" {
		// Reuse the field-path grammar; the whole path names the section.
		p, err := fieldpath.Parse(sectionPath + ".x")
		if err != nil {
			return nil, err
		}
		sectionKey = p.SectionKey()
	}

	it, err := s.store.FetchItem(ctx, id)
	if err != nil {
		return nil, err
	}

	key, url, err := s.blobs.PresignPut(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStore, err)
	}
	if err := netx.UploadToPresignedURL(url, content); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStore, err)
	}

	fileID, err := randx.MakeRandHexString(13)
	if err != nil {
		return nil, err
	}
	file := item.File{
		ID:          fileID,
		Name:        name,
		Size:        int64(len(content)),
		ContentPath: key,
	}
	if sectionKey != "" {
		a := item.NewAssembler(it, item.AssembleOptions{})
		sectionID, err := a.ResolveSectionKey(sectionKey)
		if err != nil {
			return nil, err
		}
		file.Section = &item.SectionRef{ID: sectionID}
	}
	it.Files = append(it.Files, file)

	s.advance(it)

	committed, err := s.store.PersistItem(ctx, it)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "file attached", "id", id, "file", fileID, "size", file.Size)
	return committed, nil
}

// FileURL returns a presigned download URL for a stored attachment.
func (s *Service) FileURL(ctx context.Context, id string, fileID string) (string, error) {
	if s.blobs == nil {
		return "", fmt.Errorf("file storage not configured")
	}

	it, err := s.store.FetchItem(ctx, id)
	if err != nil {
		return "", err
	}

	for _, f := range it.Files {
		if f.ID == fileID {
			url, err := s.blobs.PresignGet(ctx, f.ContentPath)
			if err != nil {
				return "", fmt.Errorf("%w: %w", common.ErrStore, err)
			}
			return url, nil
		}
	}
	return "", fmt.Errorf("%w: file %s", common.ErrNotFound, fileID)
}

// validateAttributes enforces the required create attributes.
func validateAttributes(attrs Attributes) error {
	if attrs.Vault == "" {
		return fmt.Errorf("%w: vault", common.ErrMissingAttribute)
	}
	if attrs.Category == "" {
		return fmt.Errorf("%w: category", common.ErrMissingAttribute)
	}
	if attrs.Title == "" {
		return fmt.Errorf("%w: title", common.ErrMissingAttribute)
	}
	return nil
}

// validateSpecs checks every path and type token before any store call, so
// malformed batches fail fast with no partial mutation.
func validateSpecs(specs []item.FieldSpec) error {
	for _, spec := range specs {
		if _, err := fieldpath.Parse(spec.Path); err != nil {
			return err
		}
		if !item.KnownTypeToken(spec.Type) {
			return fmt.Errorf("%w: %q", common.ErrUnsupportedFieldType, spec.Type)
		}
	}
	return nil
}
