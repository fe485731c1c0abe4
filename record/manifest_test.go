package record

import (
	"strings"
	"testing"
)

type sensorFixture struct {
	Base
	Serial  string  `record:"serial,key" check:"nonempty"`
	Unit    string  `record:"unit,default=celsius,meta:display=Unit"`
	Reading float64 `record:"reading" check:"min(-273.15)"`
	Note    *string `record:"note"`
}

func TestManifestFor(t *testing.T) {
	MustRegister[sensorFixture]()
	info, _ := Lookup("sensor_fixture")

	tm := ManifestFor(info)
	if tm.Name != "sensor_fixture" {
		t.Errorf("Name: got %q", tm.Name)
	}
	if len(tm.Fields) != 4 {
		t.Fatalf("Fields: got %d, want 4", len(tm.Fields))
	}

	serial := tm.Fields[0]
	if !serial.Key || serial.Check != "nonempty" {
		t.Errorf("serial: got %+v", serial)
	}
	unit := tm.Fields[1]
	if unit.Default != "celsius" || len(unit.Metadata) != 1 {
		t.Errorf("unit: got %+v", unit)
	}
	reading := tm.Fields[2]
	if reading.Kind != KindFloat || reading.Check == "" {
		t.Errorf("reading: got %+v", reading)
	}
	note := tm.Fields[3]
	if !note.Optional {
		t.Errorf("note: got %+v", note)
	}
}

func TestExportParseManifest(t *testing.T) {
	MustRegister[sensorFixture]()

	data, err := ExportManifest()
	if err != nil {
		t.Fatalf("ExportManifest: %v", err)
	}
	if !strings.Contains(string(data), "sensor_fixture") {
		t.Errorf("exported manifest missing type: %s", data)
	}

	m, err := ParseManifest(data)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}

	var found *TypeManifest
	for i := range m.Types {
		if m.Types[i].Name == "sensor_fixture" {
			found = &m.Types[i]
			break
		}
	}
	if found == nil {
		t.Fatal("sensor_fixture missing from parsed manifest")
	}
	if len(found.Fields) != 4 {
		t.Errorf("Fields: got %d, want 4", len(found.Fields))
	}
	if found.Fields[0].Name != "serial" || !found.Fields[0].Key {
		t.Errorf("serial: got %+v", found.Fields[0])
	}
}

func TestParseManifest_Invalid(t *testing.T) {
	if _, err := ParseManifest([]byte("types: [not a mapping")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestDiffManifest(t *testing.T) {
	old := &Manifest{Types: []TypeManifest{
		{Name: "kept", Fields: []FieldManifest{
			{Name: "id", Kind: KindInt, Key: true},
			{Name: "label", Kind: KindString},
			{Name: "legacy", Kind: KindString},
		}},
		{Name: "dropped", Fields: []FieldManifest{{Name: "x", Kind: KindInt}}},
	}}
	updated := &Manifest{Types: []TypeManifest{
		{Name: "kept", Fields: []FieldManifest{
			{Name: "id", Kind: KindInt, Key: true},
			{Name: "label", Kind: KindString, Check: "nonempty"},
			{Name: "added", Kind: KindBool},
		}},
		{Name: "brand_new", Fields: []FieldManifest{{Name: "y", Kind: KindFloat}}},
	}}

	changes := DiffManifest(old, updated)

	byKind := make(map[ChangeKind][]ManifestChange)
	for _, c := range changes {
		byKind[c.Kind] = append(byKind[c.Kind], c)
	}

	if got := byKind[TypeRemoved]; len(got) != 1 || got[0].TypeName != "dropped" {
		t.Errorf("TypeRemoved: got %v", got)
	}
	if got := byKind[TypeAdded]; len(got) != 1 || got[0].TypeName != "brand_new" {
		t.Errorf("TypeAdded: got %v", got)
	}
	if got := byKind[FieldRemoved]; len(got) != 1 || got[0].Field != "legacy" {
		t.Errorf("FieldRemoved: got %v", got)
	}
	if got := byKind[FieldAdded]; len(got) != 1 || got[0].Field != "added" {
		t.Errorf("FieldAdded: got %v", got)
	}
	if got := byKind[FieldChanged]; len(got) != 1 || got[0].Field != "label" {
		t.Errorf("FieldChanged: got %v", got)
	} else if !strings.Contains(got[0].Detail, "check") {
		t.Errorf("FieldChanged detail: got %q", got[0].Detail)
	}
}

func TestDiffManifest_NoChanges(t *testing.T) {
	m := &Manifest{Types: []TypeManifest{
		{Name: "steady", Fields: []FieldManifest{{Name: "id", Kind: KindInt}}},
	}}
	if changes := DiffManifest(m, m); len(changes) != 0 {
		t.Errorf("expected no changes, got %v", changes)
	}
}
