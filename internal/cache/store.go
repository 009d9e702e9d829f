package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrSchemaMismatch is returned for entries written by another version
// of the entry format.
var ErrSchemaMismatch = errors.New("cache entry schema mismatch")

// Store is an on-disk cache of lint results. A nil *Store is a valid,
// always-missing cache. Safe for concurrent use.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// Open creates dir if needed and returns a store rooted there.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open cache %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	if s == nil {
		return ""
	}
	return s.dir
}

// pathFor shards entries by the first key byte.
func (s *Store) pathFor(key Digest) string {
	hexKey := key.String()
	return filepath.Join(s.dir, "results", hexKey[:2], hexKey+".mp")
}

// Put writes entry atomically through a temp file and rename.
func (s *Store) Put(key Digest, entry *Entry) (err error) {
	if s == nil || entry == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	entry.Schema = schemaVersion
	if err = msgpack.NewEncoder(f).Encode(entry); err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get loads the entry for key. A missing entry is not an error; an entry
// of another schema is reported as ErrSchemaMismatch.
func (s *Store) Get(key Digest) (*Entry, bool, error) {
	if s == nil {
		return nil, false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var entry Entry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return nil, false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if entry.Schema != schemaVersion {
		return nil, false, fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, entry.Schema, schemaVersion)
	}
	return &entry, true, nil
}

// Clean removes every entry. The directory itself is kept.
func (s *Store) Clean() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.RemoveAll(filepath.Join(s.dir, "results"))
}

// Remove deletes a whole cache directory without opening it.
func Remove(dir string) error {
	if dir == "" || dir == "/" {
		return fmt.Errorf("refusing to remove cache directory %q", dir)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove cache %s: %w", dir, err)
	}
	return nil
}
