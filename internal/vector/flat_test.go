package vector

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
)

func openTestIndex(t *testing.T, dim int) *FlatIndex {
	t.Helper()
	idx, err := OpenFlatIndex(filepath.Join(t.TempDir(), "test.vec"), dim)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestFlatIndex_SelfMatch(t *testing.T) {
	idx := openTestIndex(t, 3)
	vecs := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.6, 0.8, 0},
	}
	for i, v := range vecs {
		ord, err := idx.Append(v)
		if err != nil {
			t.Fatal(err)
		}
		if ord != i {
			t.Errorf("ordinal=%d, want %d", ord, i)
		}
	}
	for i, v := range vecs {
		hits, err := idx.Nearest(v, 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(hits) != 1 || hits[0].Ordinal != i {
			t.Fatalf("self-match for %d: %+v", i, hits)
		}
		if hits[0].Distance != 0 {
			t.Errorf("self-match distance=%v, want 0", hits[0].Distance)
		}
	}
}

func TestFlatIndex_NearestOrdering(t *testing.T) {
	idx := openTestIndex(t, 2)
	// Two vectors equidistant from the query, one closer, one farther.
	for _, v := range [][]float32{{0, 1}, {1, 0}, {0.1, 0.1}, {5, 5}} {
		if _, err := idx.Append(v); err != nil {
			t.Fatal(err)
		}
	}
	hits, err := idx.Nearest([]float32{0, 0}, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Distance < hits[i-1].Distance {
			t.Errorf("distances not non-decreasing: %+v", hits)
		}
		if hits[i].Distance == hits[i-1].Distance && hits[i].Ordinal < hits[i-1].Ordinal {
			t.Errorf("equal distances not ordered by ordinal: %+v", hits)
		}
	}
	// Ordinals 0 and 1 are equidistant: insertion order breaks the tie.
	if hits[1].Ordinal != 0 || hits[2].Ordinal != 1 {
		t.Errorf("tie-break order wrong: %+v", hits)
	}
}

func TestFlatIndex_NearestEmptyAndBadK(t *testing.T) {
	idx := openTestIndex(t, 2)
	hits, err := idx.Nearest([]float32{0, 0}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("empty index should return no hits, got %+v", hits)
	}
	if _, err := idx.Nearest([]float32{0, 0}, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("k=0 err=%v, want ErrInvalidArgument", err)
	}
}

func TestFlatIndex_DimensionMismatch(t *testing.T) {
	idx := openTestIndex(t, 4)
	if _, err := idx.Append([]float32{1, 2}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("err=%v, want ErrDimensionMismatch", err)
	}
	if idx.Size() != 0 {
		t.Errorf("size changed after failed insert: %d", idx.Size())
	}
	if _, err := idx.Nearest([]float32{1}, 1); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("query err=%v, want ErrDimensionMismatch", err)
	}
}

func TestFlatIndex_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reload.vec")
	idx, err := OpenFlatIndex(path, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{0.25, -0.5, 0.75}
	if _, err := idx.Append([]float32{1, 1, 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := idx.Append(want); err != nil {
		t.Fatal(err)
	}
	if err := idx.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenFlatIndex(path, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	if reopened.Size() != 2 {
		t.Fatalf("size after reload=%d", reopened.Size())
	}
	got, ok := reopened.Vector(1)
	if !ok {
		t.Fatal("vector 1 missing after reload")
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("vector[1][%d]=%v, want %v", i, got[i], want[i])
		}
	}
	// Dimension is constant for the collection's lifetime.
	if _, err := OpenFlatIndex(path, 5); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("reopen with wrong dim err=%v", err)
	}
}

func TestFlatIndex_TruncateTo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trunc.vec")
	idx, err := OpenFlatIndex(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := idx.Append([]float32{float32(i), 0}); err != nil {
			t.Fatal(err)
		}
	}
	if err := idx.TruncateTo(1); err != nil {
		t.Fatal(err)
	}
	if idx.Size() != 1 {
		t.Fatalf("size after truncate=%d", idx.Size())
	}
	if err := idx.Close(); err != nil {
		t.Fatal(err)
	}
	reopened, err := OpenFlatIndex(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	if reopened.Size() != 1 {
		t.Errorf("truncate not durable: size=%d", reopened.Size())
	}
	if err := reopened.TruncateTo(5); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("truncate beyond size err=%v", err)
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := CosineSimilarity([]float32{1, 0}, []float32{1, 0}); math.Abs(got-1) > 1e-9 {
		t.Errorf("identical vectors: %v", got)
	}
	if got := CosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors: %v", got)
	}
	// Negative cosine clamps to 0.
	if got := CosineSimilarity([]float32{1, 0}, []float32{-1, 0}); got != 0 {
		t.Errorf("opposite vectors: %v", got)
	}
	// Scale invariant: cosine ignores magnitude.
	a := CosineSimilarity([]float32{3, 4}, []float32{4, 3})
	b := CosineSimilarity([]float32{0.3, 0.4}, []float32{40, 30})
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("not scale invariant: %v vs %v", a, b)
	}
	if got := CosineSimilarity(nil, nil); got != 0 {
		t.Errorf("empty vectors: %v", got)
	}
	if got := CosineSimilarity([]float32{0, 0}, []float32{1, 0}); got != 0 {
		t.Errorf("zero norm: %v", got)
	}
}

func TestApproxSimilarity(t *testing.T) {
	if got := ApproxSimilarity(0); got != 1 {
		t.Errorf("zero distance: %v", got)
	}
	// Can go negative for very dissimilar vectors; that is documented behavior.
	if got := ApproxSimilarity(2.5); got != -1.5 {
		t.Errorf("large distance: %v", got)
	}
}
