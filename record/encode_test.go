package record

import (
	"errors"
	"testing"
	"time"
)

type eventFixture struct {
	Base
	ID      int64          `record:"id,key"`
	Kind    string         `record:"kind" check:"nonempty"`
	At      time.Time      `record:"at"`
	Payload []byte         `record:"payload"`
	Labels  map[string]int `record:"labels"`
	Source  *string        `record:"source"`
}

func newEvent(t *testing.T) *eventFixture {
	t.Helper()
	MustRegister[eventFixture]()
	ev, err := New[eventFixture](map[string]any{
		"id":      int64(42),
		"kind":    "deploy",
		"at":      time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
		"payload": []byte{0x01, 0x02},
		"labels":  map[string]int{"retries": 3},
		"source":  "ci",
	})
	if err != nil {
		t.Fatalf("newEvent: %v", err)
	}
	return ev
}

func TestMarshalUnmarshal_RoundTrip(t *testing.T) {
	ev := newEvent(t)

	data, err := Marshal(ev)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Unmarshal[eventFixture](data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if !Equal(ev, back) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, ev)
	}
	if !back.At.Equal(ev.At) {
		t.Errorf("At: got %v, want %v", back.At, ev.At)
	}
}

func TestUnmarshal_Revalidates(t *testing.T) {
	MustRegister[eventFixture]()

	bad, err := New[eventFixture](map[string]any{
		"id":      int64(1),
		"kind":    "x",
		"at":      time.Now().UTC(),
		"payload": []byte{},
		"labels":  map[string]int{},
		"source":  nil,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// Corrupt the instance behind the library's back, then round-trip.
	bad.Kind = ""

	data, err := Marshal(bad)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	_, err = Unmarshal[eventFixture](data)
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestUnmarshal_Garbage(t *testing.T) {
	MustRegister[eventFixture]()
	if _, err := Unmarshal[eventFixture]([]byte{0xc1}); err == nil {
		t.Error("expected error for invalid msgpack")
	}
}

func TestClone(t *testing.T) {
	ev := newEvent(t)

	dup, err := Clone(ev, map[string]any{"kind": "rollback"})
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if dup.Kind != "rollback" {
		t.Errorf("Kind: got %q", dup.Kind)
	}
	if dup.ID != ev.ID || !dup.At.Equal(ev.At) {
		t.Errorf("unchanged fields should carry over: %+v", dup)
	}
	if ev.Kind != "deploy" {
		t.Errorf("original mutated: %+v", ev)
	}

	if _, err := Clone(ev, map[string]any{"kind": ""}); err == nil {
		t.Error("expected validation failure for empty kind")
	}
}

func TestDeepClone(t *testing.T) {
	ev := newEvent(t)
	ev.Freeze()

	dup, err := DeepClone(ev)
	if err != nil {
		t.Fatalf("DeepClone: %v", err)
	}
	if !Equal(ev, dup) {
		t.Errorf("copy differs:\n got %+v\nwant %+v", dup, ev)
	}
	if !dup.IsFrozen() {
		t.Error("frozen state should be preserved")
	}

	// Collections must be independent of the original.
	dup2, err := DeepClone(ev)
	if err != nil {
		t.Fatalf("DeepClone: %v", err)
	}
	dup2.Labels["retries"] = 99
	if ev.Labels["retries"] != 3 {
		t.Errorf("original map mutated through copy: %v", ev.Labels)
	}
}
