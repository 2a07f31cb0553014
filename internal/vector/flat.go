// Package vector provides the append-only flat vector index and its metadata
// catalog, one pair per collection (postings, profiles).
package vector

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// flatMagic identifies a flat index file; followed by a uint32 dimension.
var flatMagic = [4]byte{'S', 'N', 'K', 'V'}

const flatHeaderSize = 8

// Neighbor is a single nearest-neighbor hit. Distance is squared Euclidean.
type Neighbor struct {
	Ordinal  int
	Distance float64
}

// FlatIndex is an append-only brute-force vector index with dense ordinals
// assigned in insertion order and never reused. Records are fixed-size and
// appended incrementally (one durable write per insert, no full-file rewrite);
// the full set is reloaded into memory on open.
type FlatIndex struct {
	path string
	dim  int

	mu      sync.RWMutex
	file    *os.File
	vectors [][]float32
}

// OpenFlatIndex opens or creates a flat index at path with the given dimension.
// The dimension is constant for the collection's lifetime; opening an existing
// file with a different dimension is an error.
func OpenFlatIndex(path string, dim int) (*FlatIndex, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive", ErrInvalidArgument)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create index dir: %v", ErrStorageIO, err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open index file: %v", ErrStorageIO, err)
	}
	idx := &FlatIndex{path: path, dim: dim, file: f}
	if err := idx.load(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return idx, nil
}

// load reads the header and all complete records. A trailing partial record
// (torn write from a crash) is truncated away.
func (idx *FlatIndex) load() error {
	info, err := idx.file.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat index file: %v", ErrStorageIO, err)
	}
	if info.Size() == 0 {
		var header [flatHeaderSize]byte
		copy(header[:4], flatMagic[:])
		binary.LittleEndian.PutUint32(header[4:], uint32(idx.dim))
		if _, err := idx.file.WriteAt(header[:], 0); err != nil {
			return fmt.Errorf("%w: write index header: %v", ErrStorageIO, err)
		}
		if err := idx.file.Sync(); err != nil {
			return fmt.Errorf("%w: sync index header: %v", ErrStorageIO, err)
		}
		return nil
	}

	var header [flatHeaderSize]byte
	if _, err := idx.file.ReadAt(header[:], 0); err != nil {
		return fmt.Errorf("%w: read index header: %v", ErrStorageIO, err)
	}
	if [4]byte(header[:4]) != flatMagic {
		return fmt.Errorf("%w: not a flat index file: %s", ErrStorageIO, idx.path)
	}
	if fileDim := int(binary.LittleEndian.Uint32(header[4:])); fileDim != idx.dim {
		return fmt.Errorf("%w: file has dimension %d, index expects %d", ErrDimensionMismatch, fileDim, idx.dim)
	}

	recordSize := int64(idx.dim * 4)
	n := (info.Size() - flatHeaderSize) / recordSize
	if tail := (info.Size() - flatHeaderSize) % recordSize; tail != 0 {
		if err := idx.file.Truncate(flatHeaderSize + n*recordSize); err != nil {
			return fmt.Errorf("%w: truncate torn record: %v", ErrStorageIO, err)
		}
	}

	idx.vectors = make([][]float32, 0, n)
	buf := make([]byte, recordSize)
	for i := int64(0); i < n; i++ {
		if _, err := idx.file.ReadAt(buf, flatHeaderSize+i*recordSize); err != nil {
			return fmt.Errorf("%w: read record %d: %v", ErrStorageIO, i, err)
		}
		idx.vectors = append(idx.vectors, bytesToFloat32(buf))
	}
	return nil
}

// Dimensions returns the configured embedding dimension.
func (idx *FlatIndex) Dimensions() int {
	return idx.dim
}

// Size returns the number of vectors in the index.
func (idx *FlatIndex) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors)
}

// Append appends vec and returns its ordinal. The record is written and
// fsynced before return; on any write failure the file is restored to its
// prior length and the index is unchanged.
func (idx *FlatIndex) Append(vec []float32) (int, error) {
	if len(vec) != idx.dim {
		return 0, fmt.Errorf("%w: got %d, expected %d", ErrDimensionMismatch, len(vec), idx.dim)
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()

	ordinal := len(idx.vectors)
	offset := int64(flatHeaderSize + ordinal*idx.dim*4)
	if _, err := idx.file.WriteAt(float32ToBytes(vec), offset); err != nil {
		_ = idx.file.Truncate(offset)
		return 0, fmt.Errorf("%w: append vector: %v", ErrStorageIO, err)
	}
	if err := idx.file.Sync(); err != nil {
		_ = idx.file.Truncate(offset)
		return 0, fmt.Errorf("%w: sync vector: %v", ErrStorageIO, err)
	}
	stored := make([]float32, idx.dim)
	copy(stored, vec)
	idx.vectors = append(idx.vectors, stored)
	return ordinal, nil
}

// TruncateTo discards all records with ordinal >= n, durably. Used to roll
// back a staged append whose metadata commit failed; never exposed as a
// general deletion path.
func (idx *FlatIndex) TruncateTo(n int) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if n < 0 || n > len(idx.vectors) {
		return fmt.Errorf("%w: truncate to %d with size %d", ErrInvalidArgument, n, len(idx.vectors))
	}
	if n == len(idx.vectors) {
		return nil
	}
	if err := idx.file.Truncate(int64(flatHeaderSize + n*idx.dim*4)); err != nil {
		return fmt.Errorf("%w: truncate index: %v", ErrStorageIO, err)
	}
	if err := idx.file.Sync(); err != nil {
		return fmt.Errorf("%w: sync truncate: %v", ErrStorageIO, err)
	}
	idx.vectors = idx.vectors[:n]
	return nil
}

// Vector returns the vector stored at ordinal.
func (idx *FlatIndex) Vector(ordinal int) ([]float32, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if ordinal < 0 || ordinal >= len(idx.vectors) {
		return nil, false
	}
	out := make([]float32, idx.dim)
	copy(out, idx.vectors[ordinal])
	return out, true
}

// Nearest returns up to k neighbors of query by ascending squared Euclidean
// distance, ties broken by ascending ordinal for determinism. An empty index
// yields an empty result; k <= 0 is a caller error.
func (idx *FlatIndex) Nearest(query []float32, k int) ([]Neighbor, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidArgument, k)
	}
	if len(query) != idx.dim {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrDimensionMismatch, len(query), idx.dim)
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	neighbors := make([]Neighbor, len(idx.vectors))
	for i, vec := range idx.vectors {
		var sum float64
		for j := 0; j < idx.dim; j++ {
			d := float64(query[j] - vec[j])
			sum += d * d
		}
		neighbors[i] = Neighbor{Ordinal: i, Distance: sum}
	}
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Distance != neighbors[j].Distance {
			return neighbors[i].Distance < neighbors[j].Distance
		}
		return neighbors[i].Ordinal < neighbors[j].Ordinal
	})
	if k > len(neighbors) {
		k = len(neighbors)
	}
	return neighbors[:k], nil
}

// Close closes the backing file.
func (idx *FlatIndex) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.file.Close()
}

func float32ToBytes(s []float32) []byte {
	out := make([]byte, len(s)*4)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*4:(i+1)*4], math.Float32bits(v))
	}
	return out
}

func bytesToFloat32(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4 : (i+1)*4]))
	}
	return out
}
