package record

import (
	"errors"
	"reflect"
	"testing"
)

type addressFixture struct {
	Base
	Street string `record:"street" check:"nonempty"`
	City   string `record:"city" check:"nonempty"`
	Zip    string `record:"zip" check:"match(\"^[0-9]{5}$\")"`
}

type customerFixture struct {
	Base
	ID       int64                     `record:"id,key"`
	Name     string                    `record:"name" check:"nonempty"`
	Home     addressFixture            `record:"home"`
	Work     *addressFixture           `record:"work"`
	Previous []addressFixture          `record:"previous"`
	Branches map[string]addressFixture `record:"branches"`
}

func registerCustomerFixtures(t *testing.T) {
	t.Helper()
	MustRegister[addressFixture]()
	MustRegister[customerFixture]()
}

func newAddress(t *testing.T, street, city, zip string) *addressFixture {
	t.Helper()
	a, err := New[addressFixture](map[string]any{"street": street, "city": city, "zip": zip})
	if err != nil {
		t.Fatalf("newAddress: %v", err)
	}
	return a
}

func newCustomer(t *testing.T) *customerFixture {
	t.Helper()
	home := newAddress(t, "1 Main St", "Springfield", "12345")
	prev := newAddress(t, "9 Old Rd", "Shelbyville", "54321")
	branch := newAddress(t, "2 Dock Ave", "Ogdenville", "11111")

	c, err := New[customerFixture](map[string]any{
		"id":       int64(7),
		"name":     "acme",
		"home":     *home,
		"work":     nil,
		"previous": []addressFixture{*prev},
		"branches": map[string]addressFixture{"north": *branch},
	})
	if err != nil {
		t.Fatalf("newCustomer: %v", err)
	}
	return c
}

func TestToDict_Recursive(t *testing.T) {
	registerCustomerFixtures(t)
	c := newCustomer(t)

	dict, err := ToDict(c)
	if err != nil {
		t.Fatalf("ToDict: %v", err)
	}

	if dict["id"] != int64(7) || dict["name"] != "acme" {
		t.Errorf("scalar fields: got %v, %v", dict["id"], dict["name"])
	}
	if dict["work"] != nil {
		t.Errorf("work: got %v, want nil", dict["work"])
	}

	home, ok := dict["home"].(map[string]any)
	if !ok {
		t.Fatalf("home: got %T, want map", dict["home"])
	}
	if home["street"] != "1 Main St" || home["zip"] != "12345" {
		t.Errorf("home: got %v", home)
	}

	previous, ok := dict["previous"].([]any)
	if !ok {
		t.Fatalf("previous: got %T, want []any", dict["previous"])
	}
	if len(previous) != 1 {
		t.Fatalf("previous: got %d entries", len(previous))
	}
	if prev := previous[0].(map[string]any); prev["city"] != "Shelbyville" {
		t.Errorf("previous[0]: got %v", prev)
	}

	branches, ok := dict["branches"].(map[string]any)
	if !ok {
		t.Fatalf("branches: got %T, want map", dict["branches"])
	}
	if north := branches["north"].(map[string]any); north["zip"] != "11111" {
		t.Errorf("branches[north]: got %v", north)
	}
}

func TestToDictShallow(t *testing.T) {
	registerCustomerFixtures(t)
	c := newCustomer(t)

	dict, err := ToDictShallow(c)
	if err != nil {
		t.Fatalf("ToDictShallow: %v", err)
	}
	if _, ok := dict["home"].(addressFixture); !ok {
		t.Errorf("home: got %T, want addressFixture struct", dict["home"])
	}
}

func TestFromDict_RoundTrip(t *testing.T) {
	registerCustomerFixtures(t)
	c := newCustomer(t)

	dict, err := ToDict(c)
	if err != nil {
		t.Fatalf("ToDict: %v", err)
	}
	back, err := FromDict[customerFixture](dict)
	if err != nil {
		t.Fatalf("FromDict: %v", err)
	}

	if !Equal(c, back) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, c)
	}
}

func TestFromDict_NestedPointer(t *testing.T) {
	registerCustomerFixtures(t)

	back, err := FromDict[customerFixture](map[string]any{
		"id":   int64(1),
		"name": "acme",
		"home": map[string]any{"street": "1 Main St", "city": "Springfield", "zip": "12345"},
		"work": map[string]any{"street": "5 Office Pk", "city": "Springfield", "zip": "12346"},
		"previous": []any{
			map[string]any{"street": "9 Old Rd", "city": "Shelbyville", "zip": "54321"},
		},
		"branches": map[string]any{
			"north": map[string]any{"street": "2 Dock Ave", "city": "Ogdenville", "zip": "11111"},
		},
	})
	if err != nil {
		t.Fatalf("FromDict: %v", err)
	}
	if back.Work == nil || back.Work.Street != "5 Office Pk" {
		t.Errorf("Work: got %+v", back.Work)
	}
	if len(back.Previous) != 1 || back.Previous[0].City != "Shelbyville" {
		t.Errorf("Previous: got %+v", back.Previous)
	}
	if back.Branches["north"].Zip != "11111" {
		t.Errorf("Branches: got %+v", back.Branches)
	}
}

func TestFromDict_Revalidates(t *testing.T) {
	registerCustomerFixtures(t)

	_, err := FromDict[customerFixture](map[string]any{
		"id":       int64(1),
		"name":     "acme",
		"home":     map[string]any{"street": "1 Main St", "city": "Springfield", "zip": "not-a-zip"},
		"work":     nil,
		"previous": []any{},
		"branches": map[string]any{},
	})
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestFromDict_UnknownKey(t *testing.T) {
	registerCustomerFixtures(t)

	_, err := FromDict[addressFixture](map[string]any{
		"street": "1 Main St", "city": "Springfield", "zip": "12345", "country": "US",
	})
	var unknown *UnknownFieldError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected *UnknownFieldError, got %v", err)
	}
	if unknown.Field != "country" {
		t.Errorf("Field: got %q", unknown.Field)
	}
}

func TestIntrospection(t *testing.T) {
	registerCustomerFixtures(t)

	names, err := FieldNames[addressFixture]()
	if err != nil {
		t.Fatalf("FieldNames: %v", err)
	}
	want := []string{"street", "city", "zip"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("FieldNames: got %v, want %v", names, want)
	}

	a := newAddress(t, "1 Main St", "Springfield", "12345")
	values, err := FieldValues(a)
	if err != nil {
		t.Fatalf("FieldValues: %v", err)
	}
	if !reflect.DeepEqual(values, []any{"1 Main St", "Springfield", "12345"}) {
		t.Errorf("FieldValues: got %v", values)
	}

	items, err := FieldItems(a)
	if err != nil {
		t.Fatalf("FieldItems: %v", err)
	}
	if len(items) != 3 || items[0] != (FieldItem{Name: "street", Value: "1 Main St"}) {
		t.Errorf("FieldItems: got %v", items)
	}
}

func TestFieldMetadata(t *testing.T) {
	type documentedFixture struct {
		Base
		Height float64 `record:"height,meta:unit=meters,meta:precision=2"`
		Plain  string  `record:"plain"`
	}
	MustRegister[documentedFixture]()

	meta, err := FieldMetadata[documentedFixture]("height")
	if err != nil {
		t.Fatalf("FieldMetadata: %v", err)
	}
	want := []string{"unit=meters", "precision=2"}
	if !reflect.DeepEqual(meta, want) {
		t.Errorf("metadata: got %v, want %v", meta, want)
	}

	all, err := AllFieldMetadata[documentedFixture]()
	if err != nil {
		t.Fatalf("AllFieldMetadata: %v", err)
	}
	if len(all) != 1 || !reflect.DeepEqual(all["height"], want) {
		t.Errorf("AllFieldMetadata: got %v", all)
	}

	if _, err := FieldMetadata[documentedFixture]("nope"); err == nil {
		t.Error("expected error for unknown field")
	}
}
