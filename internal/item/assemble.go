package item

import (
	"context"
	"fmt"
	"strings"

	"github.com/q42jaap/opvault/internal/common"
	"github.com/q42jaap/opvault/internal/fieldpath"
	"github.com/q42jaap/opvault/internal/randx"
	"github.com/q42jaap/opvault/internal/secret"
)

// FieldSpec is the caller-facing (path, type, value) triple used to create
// or update one field. Path uses '.' as the section separator and '\.' for
// a literal dot inside a segment.
type FieldSpec struct {
	Path  string
	Type  string
	Value string
}

// SecretSource supplies generated secrets for password fields. Implemented
// by secret.Generator and by remote vault stores.
type SecretSource interface {
	GenerateSecret(ctx context.Context, policy secret.Policy) (string, error)
}

// typeForToken maps declared type tokens from field specifications onto
// field types. The "password" token additionally implies purpose PASSWORD.
var typeForToken = map[string]FieldType{
	"text":      FieldTypeString,
	"password":  FieldTypeConcealed,
	"url":       FieldTypeURL,
	"email":     FieldTypeEmail,
	"phone":     FieldTypePhone,
	"date":      FieldTypeDate,
	"monthYear": FieldTypeMonthYear,
	"address":   FieldTypeAddress,
	"reference": FieldTypeReference,
}

func normalizeTypeName(s string) string {
	return strings.ToUpper(s)
}

// KnownTypeToken reports whether the declared type token maps onto a field
// type.
func KnownTypeToken(token string) bool {
	_, ok := typeForToken[token]
	return ok
}

type fieldKey struct {
	sectionKey string
	label      string
}

// Assembler applies field specifications to a single item, minting section
// and field identities and preserving them across edits.
//
// Identity rules: equal resolved section paths map to one section; a field
// matching an existing (section path, label) pair is updated in place, any
// other spec appends a new field. The lookup index is rebuilt from the item
// snapshot per operation rather than kept as a pointer graph.
type Assembler struct {
	item     *Item
	sections map[string]string // section key -> section id
	byID     map[string]string // section id -> section key
	fields   map[fieldKey]int  // (section key, label) -> index into item.Fields

	secrets          SecretSource
	generatePassword bool
}

// AssembleOptions configures one assembly pass.
type AssembleOptions struct {
	// GeneratePassword requests a generated value for password-purpose
	// fields that carry no explicit value. Create-time only.
	GeneratePassword bool

	// Secrets supplies generated password values. Required only when
	// GeneratePassword is set.
	Secrets SecretSource
}

// NewAssembler indexes the item's current sections and fields and returns
// an assembler ready to apply specs. The same constructor serves create
// mode (fresh item) and edit mode (existing snapshot).
func NewAssembler(it *Item, opts AssembleOptions) *Assembler {
	a := &Assembler{
		item:             it,
		sections:         make(map[string]string, len(it.Sections)),
		byID:             make(map[string]string, len(it.Sections)),
		fields:           make(map[fieldKey]int, len(it.Fields)),
		secrets:          opts.Secrets,
		generatePassword: opts.GeneratePassword,
	}
	for _, s := range it.Sections {
		a.sections[s.Label] = s.ID
		a.byID[s.ID] = s.Label
	}
	for i, f := range it.Fields {
		a.fields[a.keyOf(f)] = i
	}
	return a
}

func (a *Assembler) keyOf(f Field) fieldKey {
	k := fieldKey{label: f.Label}
	if f.Section != nil {
		k.sectionKey = a.byID[f.Section.ID]
	}
	return k
}

// Apply resolves one field specification into the item: parses the path,
// resolves the owning section, then updates a matching field in place or
// appends a new one. Parsing and type validation fail before the item is
// touched.
func (a *Assembler) Apply(ctx context.Context, spec FieldSpec) error {
	p, err := fieldpath.Parse(spec.Path)
	if err != nil {
		return err
	}

	ft, ok := typeForToken[spec.Type]
	if !ok {
		return fmt.Errorf("%w: %q", common.ErrUnsupportedFieldType, spec.Type)
	}

	sectionID, err := a.resolveSection(p)
	if err != nil {
		return err
	}

	purpose := derivePurpose(spec.Type, p)

	value := spec.Value
	generated := false
	if purpose == PurposePassword && value == "" && a.generatePassword {
		if a.secrets == nil {
			return fmt.Errorf("password generation requested but no secret source configured")
		}
		value, err = a.secrets.GenerateSecret(ctx, secret.DefaultPolicy())
		if err != nil {
			return fmt.Errorf("generate secret: %w", err)
		}
		generated = true
	}

	key := fieldKey{sectionKey: p.SectionKey(), label: p.Label}
	if idx, ok := a.fields[key]; ok {
		f := &a.item.Fields[idx]
		f.Type = ft
		f.Purpose = purpose
		f.Value = value
		decorate(f, generated)
		return nil
	}

	id, err := randx.MakeRandHexString(13)
	if err != nil {
		return err
	}
	f := Field{
		ID:      id,
		Type:    ft,
		Purpose: purpose,
		Label:   p.Label,
		Value:   value,
	}
	if sectionID != "" {
		f.Section = &SectionRef{ID: sectionID}
	}
	decorate(&f, generated)

	a.item.Fields = append(a.item.Fields, f)
	a.fields[key] = len(a.item.Fields) - 1
	return nil
}

// EnsurePassword guarantees the item carries a password-purpose field,
// appending a generated unsectioned "password" field when none exists.
// Used by create mode when password generation is requested without an
// explicit password spec.
func (a *Assembler) EnsurePassword(ctx context.Context) error {
	for _, f := range a.item.Fields {
		if f.Purpose == PurposePassword {
			return nil
		}
	}
	return a.Apply(ctx, FieldSpec{Path: "password", Type: "password"})
}

// resolveSection maps the parsed section path onto a section id, creating
// the section on first reference. Resolving the same path twice within one
// item returns the same id; no section is created for unsectioned fields.
func (a *Assembler) resolveSection(p fieldpath.Path) (string, error) {
	if !p.Sectioned() {
		return "", nil
	}
	return a.ResolveSectionKey(p.SectionKey())
}

// ResolveSectionKey resolves an escaped section key (as produced by
// fieldpath.JoinSections) to a section id, creating the section on first
// reference. The empty key means unsectioned and resolves to no section.
func (a *Assembler) ResolveSectionKey(key string) (string, error) {
	if key == "" {
		return "", nil
	}
	if id, ok := a.sections[key]; ok {
		return id, nil
	}

	id, err := randx.MakeRandHexString(13)
	if err != nil {
		return "", err
	}
	a.item.Sections = append(a.item.Sections, Section{ID: id, Label: key})
	a.sections[key] = id
	a.byID[id] = key
	return id, nil
}

// derivePurpose assigns the semantic role of a field. The "password" token
// always means purpose PASSWORD; the well-known unsectioned labels
// "username" and "notes" map onto their built-in purposes.
func derivePurpose(typeToken string, p fieldpath.Path) Purpose {
	if typeToken == "password" {
		return PurposePassword
	}
	if p.Sectioned() {
		return ""
	}
	switch p.Label {
	case "username":
		return PurposeUsername
	case "notes":
		return PurposeNotes
	}
	return ""
}

// decorate fills computed metadata. Password-purpose fields always carry
// password_details.strength; entropy and generated are refinements.
func decorate(f *Field, generated bool) {
	if f.Purpose != PurposePassword {
		f.Entropy = 0
		f.PasswordDetails = nil
		return
	}
	entropy := secret.Entropy(f.Value)
	f.Entropy = entropy
	f.PasswordDetails = &PasswordDetails{
		Entropy:   entropy,
		Generated: generated,
		Strength:  secret.Classify(entropy),
	}
}
