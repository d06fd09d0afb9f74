package cli

import (
	"fmt"
	"strings"

	"github.com/q42jaap/opvault/internal/client/api"
)

// Assignment is one parsed field assignment ready to send to the server.
type Assignment = api.FieldSpec

// ParseAssignment parses a field assignment of the form
//
//	path[type]=value
//
// The [type] part is optional and defaults to "text". The path may use
// dots for sections and backslash escapes for literal dots; it is passed
// through verbatim for the server to interpret. The value is everything
// after the first '=', unmodified.
func ParseAssignment(s string) (Assignment, error) {
	left, value, found := strings.Cut(s, "=")
	if !found {
		return Assignment{}, fmt.Errorf("missing '=' in assignment %q", s)
	}

	path := left
	fieldType := "text"
	if strings.HasSuffix(left, "]") {
		open := strings.LastIndex(left, "[")
		if open < 0 {
			return Assignment{}, fmt.Errorf("unmatched ']' in assignment %q", s)
		}
		path = left[:open]
		fieldType = left[open+1 : len(left)-1]
		if fieldType == "" {
			return Assignment{}, fmt.Errorf("empty type in assignment %q", s)
		}
	}
	if path == "" {
		return Assignment{}, fmt.Errorf("empty path in assignment %q", s)
	}

	return Assignment{Path: path, Type: fieldType, Value: value}, nil
}
