package items

import "github.com/q42jaap/opvault/internal/item"

// Filter narrows a Get to a subset of the item's fields. Labels and Types
// carry different cardinality contracts (see Result); when both are set,
// Labels takes precedence.
type Filter struct {
	Labels []string
	Types  []string
}

// ResultKind tags which variant of a Result is populated.
type ResultKind int

const (
	// KindItem: the whole item (no filter).
	KindItem ResultKind = iota
	// KindField: exactly one field matched a label filter.
	KindField
	// KindFields: a sequence of fields. Label filters collapse to
	// KindField only on exactly one match; type filters always produce
	// KindFields, even for a single match.
	KindFields
)

// Result is the tagged return shape of Get. The populated variant is
// decided purely by filter kind and match count; callers must not unify
// the single-field and sequence shapes.
type Result struct {
	Kind   ResultKind
	Item   *item.Item
	Field  *item.Field
	Fields []item.Field
}

// Value returns the active variant for serialization.
func (r Result) Value() any {
	switch r.Kind {
	case KindField:
		return r.Field
	case KindFields:
		return r.Fields
	default:
		return r.Item
	}
}
