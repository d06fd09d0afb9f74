// Package fieldpath parses dotted field-specification paths into ordered
// section segments plus a terminal field label.
//
// A path is a sequence of segments separated by unescaped '.' characters.
// A backslash escapes the following character: "my\.section.username"
// addresses the field "username" inside the single section "my.section".
// All segments but the last name nested sections; the last segment is the
// field label.
package fieldpath

import (
	"fmt"
	"strings"

	"github.com/q42jaap/opvault/internal/common"
)

// Path is the resolved form of a field-specification path. Sections is nil
// for an unsectioned field.
type Path struct {
	Sections []string
	Label    string
}

// Sectioned reports whether the field lives inside at least one section.
func (p Path) Sectioned() bool {
	return len(p.Sections) > 0
}

// SectionKey returns the escaped path-prefix text identifying the field's
// section chain. Two paths address the same section exactly when their
// SectionKeys are equal. The empty string means unsectioned.
func (p Path) SectionKey() string {
	return JoinSections(p.Sections)
}

// Parse resolves a raw path in a single left-to-right scan, maintaining an
// escape flag so markers adjacent to separators are handled correctly.
//
// A dangling backslash at the end of the path is kept as a literal
// backslash in the label. Parse fails with common.ErrInvalidPath when the
// path is empty, when a trailing unescaped separator leaves an empty field
// label, or when any section segment is empty.
func Parse(path string) (Path, error) {
	if path == "" {
		return Path{}, fmt.Errorf("%w: empty path", common.ErrInvalidPath)
	}

	var segments []string
	var cur strings.Builder
	escaped := false

	for _, r := range path {
		if escaped {
			cur.WriteRune(r)
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '.':
			segments = append(segments, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		cur.WriteByte('\\')
	}
	segments = append(segments, cur.String())

	label := segments[len(segments)-1]
	sections := segments[:len(segments)-1]

	if label == "" {
		return Path{}, fmt.Errorf("%w: %q: empty field label", common.ErrInvalidPath, path)
	}
	for _, seg := range sections {
		if seg == "" {
			return Path{}, fmt.Errorf("%w: %q: empty section segment", common.ErrInvalidPath, path)
		}
	}
	if len(sections) == 0 {
		sections = nil
	}

	return Path{Sections: sections, Label: label}, nil
}

// Escape returns the segment text with '\' and '.' escaped, so that Parse
// inverts it.
func Escape(segment string) string {
	var b strings.Builder
	for _, r := range segment {
		if r == '\\' || r == '.' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// JoinSections renders section segments back into their escaped path-prefix
// form. The result is unique per segment sequence, which makes it usable as
// both a section display label and its identity key.
func JoinSections(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = Escape(s)
	}
	return strings.Join(parts, ".")
}
