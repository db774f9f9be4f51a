package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// testArchive runs the behavior every backend shares.
func testArchive(t *testing.T, a Archive) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, g6 := range []string{"A_", "Bw", "Dhc"} {
		rec := NewRecord(g6, "svg")
		rec.Vertices = i + 2
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := a.Save(ctx, rec); err != nil {
			t.Fatalf("Save(%s) error: %v", g6, err)
		}
	}

	recs, err := a.List(ctx, 2)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(recs) != 2 || recs[0].Graph6 != "Dhc" || recs[1].Graph6 != "Bw" {
		t.Fatalf("List(2) = %+v, want Dhc then Bw", recs)
	}
	if !recs[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("CreatedAt = %v", recs[0].CreatedAt)
	}

	got, err := a.Get(ctx, recs[1].ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Graph6 != "Bw" || got.Vertices != 3 || got.Format != "svg" {
		t.Errorf("Get = %+v", got)
	}

	if _, err := a.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) err = %v, want ErrNotFound", err)
	}

	all, err := a.List(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Errorf("List(0) = %d records, %v", len(all), err)
	}
}

func TestMemory(t *testing.T) {
	testArchive(t, NewMemory())
}

func TestSQLite(t *testing.T) {
	a, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("OpenSQLite error: %v", err)
	}
	defer a.Close()
	testArchive(t, a)
}

func TestSQLiteReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	a, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	rec := &Record{Graph6: "Bw", Vertices: 3, Edges: 3, Highlight: "0-1", Format: "png"}
	if err := a.Save(context.Background(), rec); err != nil {
		t.Fatal(err)
	}
	if rec.ID == "" || rec.CreatedAt.IsZero() {
		t.Error("Save should fill ID and CreatedAt")
	}
	a.Close()

	b, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	got, err := b.Get(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got.Highlight != "0-1" || got.Edges != 3 {
		t.Errorf("Get = %+v", got)
	}
}

func TestMemoryCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewMemory().Save(ctx, NewRecord("@", "svg")); !errors.Is(err, context.Canceled) {
		t.Errorf("Save err = %v, want context.Canceled", err)
	}
}

// Set G6VIZ_TEST_MONGO_URI (e.g. mongodb://localhost:27017) to run against
// a real server. The test uses a throwaway database.
func TestMongo(t *testing.T) {
	uri := os.Getenv("G6VIZ_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("G6VIZ_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	db := "g6viz_test_" + NewRecord("", "").ID[:8]
	a, err := OpenMongo(ctx, uri, db)
	if err != nil {
		t.Fatalf("OpenMongo error: %v", err)
	}
	defer a.Close()
	defer a.client.Database(db).Drop(ctx)
	testArchive(t, a)
}
