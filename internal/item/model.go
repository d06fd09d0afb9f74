// Package item defines the vault item model and the assembly engine that
// turns flat field specifications into a structured field/section graph.
package item

import (
	"time"

	"github.com/q42jaap/opvault/internal/secret"
)

// Category classifies an item.
type Category string

const (
	CategoryLogin         Category = "Login"
	CategorySecureNote    Category = "Secure Note"
	CategoryPassword      Category = "Password"
	CategoryCreditCard    Category = "Credit Card"
	CategoryIdentity      Category = "Identity"
	CategoryDocument      Category = "Document"
	CategoryAPICredential Category = "API Credential"
	CategoryServer        Category = "Server"
	CategoryDatabase      Category = "Database"
)

// FieldType is the wire-level data type of a field.
type FieldType string

const (
	FieldTypeString    FieldType = "STRING"
	FieldTypeConcealed FieldType = "CONCEALED"
	FieldTypeURL       FieldType = "URL"
	FieldTypeAddress   FieldType = "ADDRESS"
	FieldTypeDate      FieldType = "DATE"
	FieldTypeMonthYear FieldType = "MONTH_YEAR"
	FieldTypeEmail     FieldType = "EMAIL"
	FieldTypePhone     FieldType = "PHONE"
	FieldTypeReference FieldType = "REFERENCE"
)

// Purpose is the semantic role of a field, distinct from its data type.
type Purpose string

const (
	PurposeUsername Purpose = "USERNAME"
	PurposePassword Purpose = "PASSWORD"
	PurposeNotes    Purpose = "NOTES"
)

// VaultRef points at the vault owning an item.
type VaultRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// SectionRef is a weak back-reference from a field or file to its section.
type SectionRef struct {
	ID string `json:"id"`
}

// Section is a named grouping of fields within an item. Label holds the
// escaped path-prefix text of the section chain, which is unique per
// resolved path and lets the assembler recover section identity from a
// persisted snapshot.
type Section struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// PasswordDetails carries computed password metadata. Strength is always
// present for password-purpose fields; Entropy and Generated are optional
// refinements.
type PasswordDetails struct {
	Entropy   float64         `json:"entropy,omitempty"`
	Generated bool            `json:"generated,omitempty"`
	Strength  secret.Strength `json:"strength"`
}

// Field is one typed piece of data on an item.
type Field struct {
	ID              string           `json:"id"`
	Type            FieldType        `json:"type"`
	Purpose         Purpose          `json:"purpose,omitempty"`
	Label           string           `json:"label"`
	Value           string           `json:"value,omitempty"`
	Reference       string           `json:"reference,omitempty"`
	Section         *SectionRef      `json:"section,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
	Entropy         float64          `json:"entropy,omitempty"`
	PasswordDetails *PasswordDetails `json:"password_details,omitempty"`
}

// File is an attachment stored outside the item; ContentPath is the object
// storage key of its content.
type File struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Size        int64       `json:"size"`
	ContentPath string      `json:"content_path"`
	Section     *SectionRef `json:"section,omitempty"`
}

// URL is a website entry on an item. At most one URL per item is primary.
type URL struct {
	Label   string `json:"label,omitempty"`
	Primary bool   `json:"primary"`
	Href    string `json:"href"`
}

// Item is a single vault entry composed of fields, sections, files and URLs.
//
// ID is immutable once assigned. UpdatedAt strictly advances on every
// mutation and Version increases monotonically on every successful edit.
type Item struct {
	ID                    string    `json:"id"`
	Title                 string    `json:"title"`
	Version               int64     `json:"version,omitempty"`
	Vault                 VaultRef  `json:"vault"`
	Category              Category  `json:"category"`
	LastEditedBy          string    `json:"last_edited_by,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
	AdditionalInformation string    `json:"additional_information,omitempty"`
	Sections              []Section `json:"sections,omitempty"`
	Tags                  []string  `json:"tags,omitempty"`
	Fields                []Field   `json:"fields,omitempty"`
	Files                 []File    `json:"files,omitempty"`
	URLs                  []URL     `json:"urls,omitempty"`
}

// SectionByID returns the section with the given id, or nil.
func (it *Item) SectionByID(id string) *Section {
	for i := range it.Sections {
		if it.Sections[i].ID == id {
			return &it.Sections[i]
		}
	}
	return nil
}

// FieldsByLabel returns, in item order, all fields whose label equals any of
// the given labels (case-sensitive).
func (it *Item) FieldsByLabel(labels []string) []Field {
	want := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		want[l] = struct{}{}
	}
	var out []Field
	for _, f := range it.Fields {
		if _, ok := want[f.Label]; ok {
			out = append(out, f)
		}
	}
	return out
}

// FieldsByType returns, in item order, all fields whose type matches any of
// the given type names. Matching is case-insensitive so callers can pass
// lowercase tokens like "string".
func (it *Item) FieldsByType(types []string) []Field {
	want := make(map[FieldType]struct{}, len(types))
	for _, tn := range types {
		want[FieldType(normalizeTypeName(tn))] = struct{}{}
	}
	var out []Field
	for _, f := range it.Fields {
		if _, ok := want[f.Type]; ok {
			out = append(out, f)
		}
	}
	return out
}

// SetPrimaryURL makes href the single primary URL of the item, replacing an
// existing primary entry or appending a new one.
func (it *Item) SetPrimaryURL(href string) {
	for i := range it.URLs {
		if it.URLs[i].Primary {
			it.URLs[i].Href = href
			return
		}
	}
	it.URLs = append(it.URLs, URL{Primary: true, Href: href})
}

// RefreshReferences recomputes the op:// reference of every field from the
// current vault, title and section labels. Called after assembly so
// references stay consistent when the title changes on edit.
func (it *Item) RefreshReferences() {
	vault := it.Vault.Name
	if vault == "" {
		vault = it.Vault.ID
	}
	for i := range it.Fields {
		f := &it.Fields[i]
		ref := "op://" + vault + "/" + it.Title + "/"
		if f.Section != nil {
			if s := it.SectionByID(f.Section.ID); s != nil {
				ref += s.Label + "/"
			}
		}
		it.Fields[i].Reference = ref + f.Label
	}
}
