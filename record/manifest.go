package record

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Manifest is a serializable description of a set of record schemas.
type Manifest struct {
	Types []TypeManifest `yaml:"types"`
}

// TypeManifest describes one record type.
type TypeManifest struct {
	Name   string          `yaml:"name"`
	Frozen bool            `yaml:"frozen,omitempty"`
	Fields []FieldManifest `yaml:"fields"`
}

// FieldManifest describes one declared field.
type FieldManifest struct {
	Name     string   `yaml:"name"`
	Kind     string   `yaml:"kind"`
	Optional bool     `yaml:"optional,omitempty"`
	Repeated bool     `yaml:"repeated,omitempty"`
	Mapping  bool     `yaml:"mapping,omitempty"`
	Key      bool     `yaml:"key,omitempty"`
	Check    string   `yaml:"check,omitempty"`
	Default  string   `yaml:"default,omitempty"`
	Metadata []string `yaml:"metadata,omitempty"`
}

// ManifestFor builds the TypeManifest for a single registered type.
func ManifestFor(info *RecordInfo) TypeManifest {
	tm := TypeManifest{
		Name:   info.TypeName,
		Frozen: info.FrozenByDefault,
	}
	for _, fi := range info.Fields {
		fm := FieldManifest{
			Name:     fi.Name(),
			Kind:     fi.ValueKind,
			Optional: fi.IsPointer,
			Repeated: fi.IsSlice,
			Mapping:  fi.IsMap,
			Key:      fi.Tag.Key,
			Metadata: fi.Tag.Metadata,
		}
		if fi.Rule != nil {
			fm.Check = fi.Rule.String()
		}
		if fi.Tag.HasDefault {
			fm.Default = fi.Tag.Default
		}
		tm.Fields = append(tm.Fields, fm)
	}
	return tm
}

// CurrentManifest builds a Manifest covering every registered type, sorted
// by type name.
func CurrentManifest() *Manifest {
	types := RegisteredTypes()
	sort.Slice(types, func(i, j int) bool {
		return types[i].TypeName < types[j].TypeName
	})

	m := &Manifest{}
	for _, info := range types {
		m.Types = append(m.Types, ManifestFor(info))
	}
	return m
}

// ExportManifest serializes the manifest of all registered types as YAML.
func ExportManifest() ([]byte, error) {
	data, err := yaml.Marshal(CurrentManifest())
	if err != nil {
		return nil, fmt.Errorf("export manifest: %w", err)
	}
	return data, nil
}

// ParseManifest deserializes a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// ChangeKind classifies a difference between two manifests.
type ChangeKind string

// Manifest change kinds.
const (
	TypeAdded    ChangeKind = "type_added"
	TypeRemoved  ChangeKind = "type_removed"
	FieldAdded   ChangeKind = "field_added"
	FieldRemoved ChangeKind = "field_removed"
	FieldChanged ChangeKind = "field_changed"
)

// ManifestChange describes one difference found by DiffManifest.
type ManifestChange struct {
	Kind     ChangeKind
	TypeName string
	Field    string
	Detail   string
}

// String renders the change for logs and error messages.
func (c ManifestChange) String() string {
	if c.Field == "" {
		return fmt.Sprintf("%s: %s", c.Kind, c.TypeName)
	}
	if c.Detail == "" {
		return fmt.Sprintf("%s: %s.%s", c.Kind, c.TypeName, c.Field)
	}
	return fmt.Sprintf("%s: %s.%s (%s)", c.Kind, c.TypeName, c.Field, c.Detail)
}

// DiffManifest compares two manifests and reports the changes that turn old
// into updated: added/removed types, added/removed fields, and field definition
// changes.
func DiffManifest(old, updated *Manifest) []ManifestChange {
	var changes []ManifestChange

	oldTypes := indexTypes(old)
	newTypes := indexTypes(updated)

	for _, tm := range old.Types {
		if _, ok := newTypes[tm.Name]; !ok {
			changes = append(changes, ManifestChange{Kind: TypeRemoved, TypeName: tm.Name})
		}
	}

	for _, tm := range updated.Types {
		oldTm, ok := oldTypes[tm.Name]
		if !ok {
			changes = append(changes, ManifestChange{Kind: TypeAdded, TypeName: tm.Name})
			continue
		}
		changes = append(changes, diffType(oldTm, tm)...)
	}

	return changes
}

func indexTypes(m *Manifest) map[string]TypeManifest {
	out := make(map[string]TypeManifest, len(m.Types))
	for _, tm := range m.Types {
		out[tm.Name] = tm
	}
	return out
}

func diffType(old, updated TypeManifest) []ManifestChange {
	var changes []ManifestChange

	oldFields := make(map[string]FieldManifest, len(old.Fields))
	for _, fm := range old.Fields {
		oldFields[fm.Name] = fm
	}
	newFields := make(map[string]FieldManifest, len(updated.Fields))
	for _, fm := range updated.Fields {
		newFields[fm.Name] = fm
	}

	for _, fm := range old.Fields {
		if _, ok := newFields[fm.Name]; !ok {
			changes = append(changes, ManifestChange{Kind: FieldRemoved, TypeName: old.Name, Field: fm.Name})
		}
	}

	for _, fm := range updated.Fields {
		oldFm, ok := oldFields[fm.Name]
		if !ok {
			changes = append(changes, ManifestChange{Kind: FieldAdded, TypeName: updated.Name, Field: fm.Name})
			continue
		}
		if detail := fieldChangeDetail(oldFm, fm); detail != "" {
			changes = append(changes, ManifestChange{
				Kind:     FieldChanged,
				TypeName: updated.Name,
				Field:    fm.Name,
				Detail:   detail,
			})
		}
	}

	return changes
}

func fieldChangeDetail(old, updated FieldManifest) string {
	switch {
	case old.Kind != updated.Kind:
		return fmt.Sprintf("kind %s -> %s", old.Kind, updated.Kind)
	case old.Optional != updated.Optional:
		return fmt.Sprintf("optional %t -> %t", old.Optional, updated.Optional)
	case old.Repeated != updated.Repeated:
		return fmt.Sprintf("repeated %t -> %t", old.Repeated, updated.Repeated)
	case old.Mapping != updated.Mapping:
		return fmt.Sprintf("mapping %t -> %t", old.Mapping, updated.Mapping)
	case old.Key != updated.Key:
		return fmt.Sprintf("key %t -> %t", old.Key, updated.Key)
	case old.Check != updated.Check:
		return fmt.Sprintf("check %q -> %q", old.Check, updated.Check)
	case old.Default != updated.Default:
		return fmt.Sprintf("default %q -> %q", old.Default, updated.Default)
	}
	return ""
}
