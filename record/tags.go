package record

import (
	"fmt"
	"strings"
)

// FieldTag contains the structured representation of a parsed `record` struct tag.
type FieldTag struct {
	// Name is the dict/column name for the field.
	Name string
	// Key specifies if the field is a primary key.
	Key bool
	// Frozen marks the record type as frozen (immutable) by default.
	Frozen bool
	// Default is the raw literal for the field's default value, if any.
	Default string
	// HasDefault reports whether a default= option was present. An empty
	// literal (default=) is a valid default for string fields.
	HasDefault bool
	// Metadata holds free-form annotation strings from meta: options.
	Metadata []string
	// Skip indicates the field should be ignored.
	Skip bool
}

// ParseTag parses the content of a `record` struct tag into a FieldTag.
// It supports a leading name, the flags key and frozen, default=<literal>,
// and repeatable meta:<text> annotations.
func ParseTag(tag string) (FieldTag, error) {
	if tag == "" || tag == "-" {
		return FieldTag{Skip: tag == "-"}, nil
	}

	parts := strings.Split(tag, ",")
	ft := FieldTag{}

	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if i == 0 && !strings.Contains(part, "=") && !strings.Contains(part, ":") &&
			part != "key" && part != "frozen" && part != "-" {
			ft.Name = part
			continue
		}

		switch {
		case part == "key":
			ft.Key = true
		case part == "frozen":
			ft.Frozen = true
		case part == "-":
			ft.Skip = true
		case strings.HasPrefix(part, "default="):
			ft.Default = strings.TrimPrefix(part, "default=")
			ft.HasDefault = true
		case strings.HasPrefix(part, "meta:"):
			ft.Metadata = append(ft.Metadata, strings.TrimPrefix(part, "meta:"))
		default:
			if i == 0 {
				ft.Name = part
			} else {
				return FieldTag{}, fmt.Errorf("unknown tag option: %q", part)
			}
		}
	}

	return ft, nil
}
