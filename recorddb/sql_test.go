package recorddb

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/recordlite/recordlite/record"
)

type trackFixture struct {
	record.Base
	ID       int64     `record:"id,key"`
	Title    string    `record:"title" check:"nonempty"`
	Seconds  int       `record:"seconds" check:"positive"`
	Rating   *float64  `record:"rating"`
	Explicit bool      `record:"explicit,default=false"`
	AddedAt  time.Time `record:"added_at"`
}

var trackAddedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func newTrack(t *testing.T, id int64, title string, seconds int, rating any) *trackFixture {
	t.Helper()
	record.MustRegister[trackFixture]()
	rec, err := record.New[trackFixture](map[string]any{
		"id":       id,
		"title":    title,
		"seconds":  seconds,
		"rating":   rating,
		"explicit": true,
		"added_at": trackAddedAt,
	})
	if err != nil {
		t.Fatalf("newTrack: %v", err)
	}
	return rec
}

func TestInsertSQL(t *testing.T) {
	rec := newTrack(t, 1, "intro", 93, 4.5)

	sql, values, err := InsertSQL(rec, "tracks")
	if err != nil {
		t.Fatalf("InsertSQL: %v", err)
	}

	wantSQL := "INSERT INTO tracks (id, title, seconds, rating, explicit, added_at) VALUES (?, ?, ?, ?, ?, ?)"
	if sql != wantSQL {
		t.Errorf("sql:\n got %q\nwant %q", sql, wantSQL)
	}

	rating := 4.5
	want := []any{int64(1), "intro", 93, rating, int64(1), trackAddedAt.Format(time.RFC3339Nano)}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("values:\n got %v\nwant %v", values, want)
	}
}

func TestInsertSQL_NilPointerAndExclude(t *testing.T) {
	rec := newTrack(t, 2, "outro", 60, nil)

	sql, values, err := InsertSQL(rec, "tracks", "added_at")
	if err != nil {
		t.Fatalf("InsertSQL: %v", err)
	}

	wantSQL := "INSERT INTO tracks (id, title, seconds, rating, explicit) VALUES (?, ?, ?, ?, ?)"
	if sql != wantSQL {
		t.Errorf("sql: got %q", sql)
	}
	if values[3] != nil {
		t.Errorf("rating bind: got %v, want nil", values[3])
	}
}

func TestUpdateSQL(t *testing.T) {
	rec := newTrack(t, 3, "bridge", 120, nil)

	sql, values, err := UpdateSQL(rec, "tracks", "id")
	if err != nil {
		t.Fatalf("UpdateSQL: %v", err)
	}

	wantSQL := "UPDATE tracks SET title = ?, seconds = ?, rating = ?, explicit = ?, added_at = ? WHERE id = ?"
	if sql != wantSQL {
		t.Errorf("sql:\n got %q\nwant %q", sql, wantSQL)
	}
	if len(values) != 6 {
		t.Fatalf("values: got %d binds", len(values))
	}
	if values[len(values)-1] != int64(3) {
		t.Errorf("where bind: got %v, want 3", values[len(values)-1])
	}

	if _, _, err := UpdateSQL(rec, "tracks", "bogus"); err == nil {
		t.Error("expected error for unknown where field")
	}
}

func TestDeleteSQL(t *testing.T) {
	rec := newTrack(t, 4, "coda", 30, nil)

	sql, values, err := DeleteSQL(rec, "tracks", "id")
	if err != nil {
		t.Fatalf("DeleteSQL: %v", err)
	}
	if sql != "DELETE FROM tracks WHERE id = ?" {
		t.Errorf("sql: got %q", sql)
	}
	if !reflect.DeepEqual(values, []any{int64(4)}) {
		t.Errorf("values: got %v", values)
	}
}

func TestCreateTableSQL(t *testing.T) {
	record.MustRegister[trackFixture]()

	sql, err := CreateTableSQL[trackFixture]("tracks")
	if err != nil {
		t.Fatalf("CreateTableSQL: %v", err)
	}

	want := "CREATE TABLE IF NOT EXISTS tracks (" +
		"id INTEGER NOT NULL, " +
		"title TEXT NOT NULL, " +
		"seconds INTEGER NOT NULL, " +
		"rating REAL, " +
		"explicit INTEGER NOT NULL, " +
		"added_at TEXT NOT NULL, " +
		"PRIMARY KEY (id))"
	if sql != want {
		t.Errorf("sql:\n got %q\nwant %q", sql, want)
	}
}

func TestSQL_UnsupportedField(t *testing.T) {
	type playlistFixture struct {
		record.Base
		ID     int64    `record:"id,key"`
		Tracks []string `record:"tracks"`
	}
	record.MustRegister[playlistFixture]()

	_, err := CreateTableSQL[playlistFixture]("playlists")
	var unsupported *UnsupportedFieldError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected *UnsupportedFieldError, got %v", err)
	}
	if unsupported.Field != "tracks" {
		t.Errorf("Field: got %q", unsupported.Field)
	}
}

func TestSQL_NotRegistered(t *testing.T) {
	type strayFixture struct {
		record.Base
		X int `record:"x"`
	}
	var notReg *record.NotRegisteredError
	if _, err := CreateTableSQL[strayFixture]("strays"); !errors.As(err, &notReg) {
		t.Fatalf("expected *NotRegisteredError, got %v", err)
	}
}
