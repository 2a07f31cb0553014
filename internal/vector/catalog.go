package vector

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Entry maps an index ordinal to its external entity identifier plus a small
// denormalized attribute bag (display only, never used for scoring). Exactly
// one entry exists per ordinal, written in the same logical transaction as
// the vector.
type Entry struct {
	Ordinal    int                    `json:"ordinal"`
	ExternalID string                 `json:"external_id"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// Catalog is the durable ordinal -> metadata mapping for one collection.
// Entries are appended as JSON lines and fsynced per append; the full mapping
// is reloaded on open. The catalog append is the commit point of an insert:
// a vector record without a catalog entry is discarded on reload.
type Catalog struct {
	path string

	mu      sync.RWMutex
	file    *os.File
	entries []Entry
	byID    map[string]int
}

// OpenCatalog opens or creates a catalog at path.
func OpenCatalog(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create catalog dir: %v", ErrStorageIO, err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open catalog file: %v", ErrStorageIO, err)
	}
	c := &Catalog{path: path, file: f, byID: make(map[string]int)}
	if err := c.load(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return c, nil
}

// load reads all complete JSON lines. A trailing line without a newline is a
// torn write and is truncated away together with anything after it. The
// newline is part of the commit: a line that parses but lacks its terminator
// is still torn.
func (c *Catalog) load() error {
	if _, err := c.file.Seek(0, 0); err != nil {
		return fmt.Errorf("%w: seek catalog: %v", ErrStorageIO, err)
	}
	var committed int64
	reader := bufio.NewReader(c.file)
	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: read catalog: %v", ErrStorageIO, err)
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			break
		}
		if e.Ordinal != len(c.entries) {
			return fmt.Errorf("%w: catalog ordinal %d out of sequence (expected %d)", ErrStorageIO, e.Ordinal, len(c.entries))
		}
		c.entries = append(c.entries, e)
		c.byID[e.ExternalID] = e.Ordinal
		committed += int64(len(line))
	}
	info, err := c.file.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat catalog: %v", ErrStorageIO, err)
	}
	if info.Size() > committed {
		if err := c.file.Truncate(committed); err != nil {
			return fmt.Errorf("%w: truncate torn catalog line: %v", ErrStorageIO, err)
		}
	}
	return nil
}

// Count returns the number of committed entries.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Has reports whether externalID is already present in the collection.
func (c *Catalog) Has(externalID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.byID[externalID]
	return ok
}

// ByOrdinal returns the entry for ordinal.
func (c *Catalog) ByOrdinal(ordinal int) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if ordinal < 0 || ordinal >= len(c.entries) {
		return Entry{}, false
	}
	return c.entries[ordinal], true
}

// OrdinalOf returns the ordinal for externalID.
func (c *Catalog) OrdinalOf(externalID string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ord, ok := c.byID[externalID]
	return ord, ok
}

// Append commits an entry for the next ordinal. The line is written and
// fsynced before return; on failure the file is restored and nothing is
// committed. Ordinal must equal Count() (entries co-evolve with the vector
// index in lockstep).
func (c *Catalog) Append(e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e.Ordinal != len(c.entries) {
		return fmt.Errorf("%w: append ordinal %d, expected %d", ErrInvalidArgument, e.Ordinal, len(c.entries))
	}
	if _, ok := c.byID[e.ExternalID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateExternalID, e.ExternalID)
	}
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal catalog entry: %w", err)
	}
	line = append(line, '\n')

	info, err := c.file.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat catalog: %v", ErrStorageIO, err)
	}
	if _, err := c.file.WriteAt(line, info.Size()); err != nil {
		_ = c.file.Truncate(info.Size())
		return fmt.Errorf("%w: append catalog entry: %v", ErrStorageIO, err)
	}
	if err := c.file.Sync(); err != nil {
		_ = c.file.Truncate(info.Size())
		return fmt.Errorf("%w: sync catalog entry: %v", ErrStorageIO, err)
	}
	c.entries = append(c.entries, e)
	c.byID[e.ExternalID] = e.Ordinal
	return nil
}

// Close closes the backing file.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.file.Close()
}
