package sessions

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()

	c, err := OpenCatalog(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}

	t.Cleanup(func() { c.Close() })

	return c
}

func TestCatalogAddAndList(t *testing.T) {
	c := openTestCatalog(t)

	started := time.Now().Add(-time.Minute)
	ended := started.Add(30 * time.Second)

	id, err := c.Add(Record{
		Device:      "Test Pad",
		StartedAt:   started,
		EndedAt:     &ended,
		ButtonPath:  "/data/pad_buttons.csv",
		StickPath:   "/data/pad_sticks.csv",
		ButtonCount: 4,
		StickCount:  128,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if id == 0 {
		t.Error("id = 0, want a generated id")
	}

	records, err := c.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	r := records[0]

	if r.ID != id {
		t.Errorf("id = %d, want %d", r.ID, id)
	}
	if r.Device != "Test Pad" {
		t.Errorf("device = %q", r.Device)
	}
	if r.ButtonCount != 4 || r.StickCount != 128 {
		t.Errorf("counts = %d/%d, want 4/128", r.ButtonCount, r.StickCount)
	}
	if got := r.StartedAt.Sub(started).Abs(); got > time.Millisecond {
		t.Errorf("started at off by %v", got)
	}
	if r.EndedAt == nil {
		t.Fatal("ended at missing")
	}
	if got := r.EndedAt.Sub(ended).Abs(); got > time.Millisecond {
		t.Errorf("ended at off by %v", got)
	}
}

func TestCatalogListsNewestFirst(t *testing.T) {
	c := openTestCatalog(t)

	base := time.Now()

	for i, device := range []string{"old", "new", "mid"} {
		offset := []time.Duration{-2 * time.Hour, 0, -time.Hour}[i]

		_, err := c.Add(Record{
			Device:     device,
			StartedAt:  base.Add(offset),
			ButtonPath: "b.csv",
			StickPath:  "s.csv",
		})
		if err != nil {
			t.Fatalf("add %q: %v", device, err)
		}
	}

	records, err := c.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	var got []string
	for _, r := range records {
		got = append(got, r.Device)

		if r.EndedAt != nil {
			t.Errorf("session %q has an end time, want none", r.Device)
		}
	}

	want := []string{"new", "mid", "old"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestCatalogReopensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	c, err := OpenCatalog(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	_, err = c.Add(Record{Device: "pad", StartedAt: time.Now(), ButtonPath: "b.csv", StickPath: "s.csv"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	c, err = OpenCatalog(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c.Close()

	records, err := c.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records after reopen, want 1", len(records))
	}
}
