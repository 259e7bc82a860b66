package worldbox

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SavedEntry is the persisted form of a placement: resource key plus
// transform and flags. Pool and renderable handles are never persisted.
type SavedEntry struct {
	ID        uint64  `json:"id"`
	Key       string  `json:"key"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Rotation  float64 `json:"rotation"`
	ScaleX    float64 `json:"scaleX"`
	ScaleY    float64 `json:"scaleY"`
	Collision bool    `json:"collision"`
	Z         int     `json:"z"`
}

// ExportState serializes the registry to an ordered list of entry tuples,
// in placement order. Selection is not exported.
func (r *Registry) ExportState() []SavedEntry {
	out := make([]SavedEntry, 0, len(r.order))
	for _, id := range r.order {
		e := r.entries[id]
		out = append(out, SavedEntry{
			ID:        uint64(e.ID),
			Key:       string(e.Key),
			X:         e.X,
			Y:         e.Y,
			Rotation:  e.Rotation,
			ScaleX:    e.ScaleX,
			ScaleY:    e.ScaleY,
			Collision: e.Collision,
			Z:         e.Z,
		})
	}
	return out
}

// ImportState clears the registry and replays the saved entries in order,
// reproducing ids, keys, transforms, collision flags, and z-order. The id
// counter is reseeded past the highest imported id so later placements stay
// unique.
//
// Entries whose resource key can no longer be resolved are skipped with a
// warning, matching the soft-failure policy for unresolved resources.
func (r *Registry) ImportState(saved []SavedEntry) error {
	r.Clear()

	for _, s := range saved {
		id := EntryID(s.ID)
		if id == 0 {
			r.diag.Warnf("import: entry with zero id skipped")
			continue
		}
		if _, exists := r.entries[id]; exists {
			r.diag.Errorf("invariant violation: duplicate id %d in import, skipped", id)
			continue
		}

		renderable, err := r.pool.Acquire(ResourceKey(s.Key), s.X, s.Y)
		if err != nil {
			r.diag.Warnf("import: entry %d (%q) skipped: %v", s.ID, s.Key, err)
			continue
		}

		e := &Entry{
			ID:        id,
			Key:       ResourceKey(s.Key),
			X:         s.X,
			Y:         s.Y,
			Rotation:  s.Rotation,
			ScaleX:    s.ScaleX,
			ScaleY:    s.ScaleY,
			Collision: s.Collision,
			Z:         s.Z,
			Visible:   true,

			renderable: renderable,
		}
		if e.ScaleX == 0 {
			e.ScaleX = 1
		}
		if e.ScaleY == 0 {
			e.ScaleY = 1
		}

		r.applyTransform(e)
		if !e.Collision {
			renderable.SetPhysicsEnabled(false)
		}

		r.entries[id] = e
		r.order = append(r.order, id)
		if id > r.nextID {
			r.nextID = id
		}
		if e.Z >= r.nextZ {
			r.nextZ = e.Z + 1
		}
		r.emit(EventPlaced, e)
	}
	return nil
}

// --- Save format ---

// saveVersion is the current WorldSave schema version.
const saveVersion = 1

// WorldSave is the versioned envelope written to a Store.
type WorldSave struct {
	Version int          `json:"version"`
	Entries []SavedEntry `json:"entries"`
}

// EncodeWorld marshals entries into a versioned JSON payload.
func EncodeWorld(entries []SavedEntry) ([]byte, error) {
	data, err := json.Marshal(WorldSave{Version: saveVersion, Entries: entries})
	if err != nil {
		return nil, fmt.Errorf("worldbox: encode world: %w", err)
	}
	return data, nil
}

// DecodeWorld unmarshals a versioned JSON payload produced by EncodeWorld.
func DecodeWorld(data []byte) ([]SavedEntry, error) {
	var save WorldSave
	if err := json.Unmarshal(data, &save); err != nil {
		return nil, fmt.Errorf("worldbox: decode world: %w", err)
	}
	if save.Version != saveVersion {
		return nil, fmt.Errorf("worldbox: unsupported save version %d", save.Version)
	}
	return save.Entries, nil
}

// --- Store ---

// Store is the external key-value blob store worlds are saved to.
// Implementations must treat values as opaque.
type Store interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
	Delete(key string) error
}

// FileStore persists blobs as JSON files in a directory, one file per key.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir. The directory is created
// on first Save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load reads the blob stored under key.
func (s *FileStore) Load(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, fmt.Errorf("worldbox: load %q: %w", key, err)
	}
	return data, nil
}

// Save writes the blob under key, replacing any previous value.
func (s *FileStore) Save(key string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("worldbox: save %q: %w", key, err)
	}
	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		return fmt.Errorf("worldbox: save %q: %w", key, err)
	}
	return nil
}

// Delete removes the blob under key. Deleting a missing key is not an error.
func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("worldbox: delete %q: %w", key, err)
	}
	return nil
}

// SaveWorld exports the registry and writes it to store under key.
func SaveWorld(store Store, key string, r *Registry) error {
	data, err := EncodeWorld(r.ExportState())
	if err != nil {
		return err
	}
	return store.Save(key, data)
}

// LoadWorld reads the world under key from store and imports it into the
// registry, clearing it first.
func LoadWorld(store Store, key string, r *Registry) error {
	data, err := store.Load(key)
	if err != nil {
		return err
	}
	entries, err := DecodeWorld(data)
	if err != nil {
		return err
	}
	return r.ImportState(entries)
}
