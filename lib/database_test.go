package lib

import (
	"testing"
	"time"
)

type gadget struct {
	ID      string
	Name    string
	Count   int64
	Created time.Time
}

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db := NewDatabase(":memory:")
	t.Cleanup(db.Close)
	db.Execute(`CREATE TABLE gadgets (id text NOT NULL PRIMARY KEY, name text NOT NULL, count integer NOT NULL, created datetime NOT NULL)`)
	return db
}

func TestDatabasePut(t *testing.T) {
	db := newTestDatabase(t)

	g := &gadget{ID: NewID(), Name: "first", Count: 1, Created: time.Now().UTC()}
	db.Put(g)

	found := &gadget{}
	db.FirstWhere(found, "id = ?", g.ID)
	if found.Name != "first" || found.Count != 1 {
		t.Fatalf("expected inserted row back, got %+v", found)
	}

	g.Name = "renamed"
	g.Count = 2
	db.Put(g)

	all := []*gadget{}
	db.AllWhere(&all, "id = ?", g.ID)
	if len(all) != 1 {
		t.Fatalf("expected upsert to keep one row, got %d", len(all))
	}
	if all[0].Name != "renamed" || all[0].Count != 2 {
		t.Fatalf("expected updated row, got %+v", all[0])
	}
}

func TestDatabaseNotFound(t *testing.T) {
	db := newTestDatabase(t)

	found := &gadget{}
	if err := db.MustFirstWhereErr(found, "id = ?", "missing"); err != ErrDatabaseNotFound {
		t.Fatalf("expected ErrDatabaseNotFound, got %v", err)
	}

	// FirstWhere swallows not found and leaves the zero value
	if err := db.FirstWhereErr(found, "id = ?", "missing"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if found.ID != "" {
		t.Fatalf("expected zero value, got %+v", found)
	}
}

func TestDatabaseDelete(t *testing.T) {
	db := newTestDatabase(t)

	g := &gadget{ID: NewID(), Name: "doomed", Count: 0, Created: time.Now().UTC()}
	db.Put(g)
	db.Delete(g)

	all := []*gadget{}
	db.AllWhere(&all, "id = ?", g.ID)
	if len(all) != 0 {
		t.Fatalf("expected row gone, got %d", len(all))
	}
}

func TestTableNameFor(t *testing.T) {
	if got := tableNameFor(&gadget{}); got != "gadgets" {
		t.Fatalf("gadget: got %q", got)
	}
	type pingSample struct{ ID string }
	if got := tableNameFor(&pingSample{}); got != "pings_samples" {
		t.Fatalf("pingSample: got %q", got)
	}
	type category struct{ ID string }
	if got := tableNameFor(&category{}); got != "categories" {
		t.Fatalf("category: got %q", got)
	}
}
