package worldbox

import (
	"errors"
	"math"
	"os"
	"testing"
)

func TestExportImportRoundTrip(t *testing.T) {
	// P6: import(export()) reproduces ids, keys, transforms, and flags.
	reg, _, _, _ := newTestRegistry(t, "tree", "rock")

	id1, _ := reg.Place("tree", 10, 20, nil)
	id2, _ := reg.Place("rock", 30, 40, &PlaceOptions{Rotation: math.Pi / 3, ScaleX: 2, ScaleY: 0.5})
	id3, _ := reg.Place("tree", 50, 60, &PlaceOptions{DisableCollision: true})
	reg.Move(id1, 11, 21)
	reg.Select(id2)

	saved := reg.ExportState()
	if len(saved) != 3 {
		t.Fatalf("exported %d entries, want 3", len(saved))
	}

	if err := reg.ImportState(saved); err != nil {
		t.Fatalf("ImportState: %v", err)
	}
	if reg.Len() != 3 {
		t.Fatalf("registry len = %d after import, want 3", reg.Len())
	}

	e1, ok := reg.Get(id1)
	if !ok {
		t.Fatal("id1 missing after import")
	}
	if e1.X != 11 || e1.Y != 21 || e1.Key != "tree" {
		t.Errorf("e1 = %+v, want moved transform preserved", e1)
	}

	e2, _ := reg.Get(id2)
	if !approxEqual(e2.Rotation, math.Pi/3, epsilon) || e2.ScaleX != 2 || e2.ScaleY != 0.5 {
		t.Errorf("e2 transform = %+v", e2)
	}

	e3, _ := reg.Get(id3)
	if e3.Collision {
		t.Error("e3 collision flag should survive the round trip as disabled")
	}

	// Selection may reset on import.
	if _, ok := reg.Selected(); ok {
		t.Error("selection should not survive import")
	}
}

func TestImportClearsFirst(t *testing.T) {
	reg, pool, _, _ := newTestRegistry(t, "tree")

	reg.Place("tree", 1, 1, nil)
	saved := reg.ExportState()
	reg.Place("tree", 2, 2, nil)

	reg.ImportState(saved)
	if reg.Len() != 1 {
		t.Errorf("registry len = %d after import, want 1", reg.Len())
	}
	if pool.Stats().Active != 1 {
		t.Errorf("active = %d after import, want 1", pool.Stats().Active)
	}
}

func TestImportReseedsIDCounter(t *testing.T) {
	reg, _, _, _ := newTestRegistry(t, "tree")

	saved := []SavedEntry{
		{ID: 100, Key: "tree", X: 1, Y: 1, ScaleX: 1, ScaleY: 1, Collision: true},
	}
	reg.ImportState(saved)

	id, _ := reg.Place("tree", 0, 0, nil)
	if id <= 100 {
		t.Errorf("post-import id = %d, want > 100", id)
	}
}

func TestImportSkipsUnresolvableKeys(t *testing.T) {
	reg, _, _, diag := newTestRegistry(t, "tree")

	saved := []SavedEntry{
		{ID: 1, Key: "tree", ScaleX: 1, ScaleY: 1, Collision: true},
		{ID: 2, Key: "ghost", ScaleX: 1, ScaleY: 1, Collision: true},
	}
	if err := reg.ImportState(saved); err != nil {
		t.Fatalf("ImportState: %v", err)
	}
	if reg.Len() != 1 {
		t.Errorf("registry len = %d, want 1 (ghost skipped)", reg.Len())
	}
	if len(diag.warns) == 0 {
		t.Error("skipping an unresolvable entry should warn")
	}
}

func TestImportDuplicateIDIsViolation(t *testing.T) {
	reg, _, _, diag := newTestRegistry(t, "tree")

	saved := []SavedEntry{
		{ID: 1, Key: "tree", X: 1, ScaleX: 1, ScaleY: 1, Collision: true},
		{ID: 1, Key: "tree", X: 2, ScaleX: 1, ScaleY: 1, Collision: true},
	}
	reg.ImportState(saved)
	if reg.Len() != 1 {
		t.Errorf("registry len = %d, want 1", reg.Len())
	}
	if len(diag.errors) != 1 {
		t.Errorf("errors = %v, want one invariant violation", diag.errors)
	}
	e, _ := reg.Get(1)
	if e.X != 1 {
		t.Error("first occurrence should win")
	}
}

func TestImportZeroScaleDefaultsToOne(t *testing.T) {
	// Saves from older builds omit scale; treat zero as identity.
	reg, _, _, _ := newTestRegistry(t, "tree")

	reg.ImportState([]SavedEntry{{ID: 1, Key: "tree", Collision: true}})
	e, _ := reg.Get(1)
	if e.ScaleX != 1 || e.ScaleY != 1 {
		t.Errorf("scale = (%f,%f), want (1,1)", e.ScaleX, e.ScaleY)
	}
}

func TestEncodeDecodeWorld(t *testing.T) {
	entries := []SavedEntry{
		{ID: 1, Key: "tree", X: 1.5, Y: -2.5, Rotation: 0.7, ScaleX: 1, ScaleY: 1, Collision: true, Z: 3},
	}
	data, err := EncodeWorld(entries)
	if err != nil {
		t.Fatalf("EncodeWorld: %v", err)
	}
	decoded, err := DecodeWorld(data)
	if err != nil {
		t.Fatalf("DecodeWorld: %v", err)
	}
	if len(decoded) != 1 || decoded[0] != entries[0] {
		t.Errorf("decoded = %+v, want %+v", decoded, entries)
	}
}

func TestDecodeWorldRejectsUnknownVersion(t *testing.T) {
	if _, err := DecodeWorld([]byte(`{"version":99,"entries":[]}`)); err == nil {
		t.Error("unknown save version should be rejected")
	}
}

func TestDecodeWorldRejectsGarbage(t *testing.T) {
	if _, err := DecodeWorld([]byte(`not json`)); err == nil {
		t.Error("garbage payload should be rejected")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir())

	if err := store.Save("slot1", []byte(`{"hello":true}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := store.Load("slot1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != `{"hello":true}` {
		t.Errorf("loaded %q", data)
	}

	if err := store.Delete("slot1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load("slot1"); err == nil {
		t.Error("loading a deleted key should fail")
	}
	// Deleting again is not an error.
	if err := store.Delete("slot1"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFileStoreLoadMissing(t *testing.T) {
	store := NewFileStore(t.TempDir())
	_, err := store.Load("nothing")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestSaveLoadWorld(t *testing.T) {
	reg, _, _, _ := newTestRegistry(t, "tree")
	store := NewFileStore(t.TempDir())

	id, _ := reg.Place("tree", 5, 6, nil)
	reg.Rotate(id, 0.5)

	if err := SaveWorld(store, "world", reg); err != nil {
		t.Fatalf("SaveWorld: %v", err)
	}
	reg.Clear()
	if err := LoadWorld(store, "world", reg); err != nil {
		t.Fatalf("LoadWorld: %v", err)
	}
	e, ok := reg.Get(id)
	if !ok {
		t.Fatal("entry missing after LoadWorld")
	}
	if e.X != 5 || e.Y != 6 || !approxEqual(e.Rotation, 0.5, epsilon) {
		t.Errorf("restored entry = %+v", e)
	}
}
