package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
)

// FlatIndex is an exact nearest-neighbor index: a flat list of
// fixed-dimension vectors searched brute-force with squared Euclidean
// distance. It is immutable once published; rebuilds replace the
// artifact file atomically.
type FlatIndex struct {
	dim     int
	vectors [][]float32
}

var (
	fileMagic   = [4]byte{'F', 'I', 'D', 'X'}
	fileVersion = uint32(1)
)

func New(dim int) (*FlatIndex, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid index dimension: %d", dim)
	}
	return &FlatIndex{dim: dim}, nil
}

func (x *FlatIndex) Dim() int { return x.dim }

func (x *FlatIndex) Len() int { return len(x.vectors) }

// Add appends a vector. Every vector must match the index dimension.
func (x *FlatIndex) Add(vec []float32) error {
	if len(vec) != x.dim {
		return fmt.Errorf("vector dimension %d does not match index dimension %d", len(vec), x.dim)
	}
	stored := make([]float32, x.dim)
	copy(stored, vec)
	x.vectors = append(x.vectors, stored)
	return nil
}

// Result is one search hit; Position indexes the parallel metadata
// table.
type Result struct {
	Position int
	Distance float32
}

// Search returns the k nearest vectors by squared Euclidean distance,
// ascending; ties keep insertion order.
func (x *FlatIndex) Search(query []float32, k int) ([]Result, error) {
	if len(query) != x.dim {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d", len(query), x.dim)
	}
	if k <= 0 || len(x.vectors) == 0 {
		return nil, nil
	}

	results := make([]Result, len(x.vectors))
	for i, vec := range x.vectors {
		var dist float32
		for j := range vec {
			d := vec[j] - query[j]
			dist += d * d
		}
		results[i] = Result{Position: i, Distance: dist}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Normalize returns the L2-normalized copy of vec, so squared-L2
// ranking over normalized vectors matches cosine ranking.
func Normalize(vec []float32) []float32 {
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	inv := float32(1 / math.Sqrt(norm))
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = v * inv
	}
	return out
}

// Float64sToFloat32s narrows an embedder vector for storage.
func Float64sToFloat32s(vec []float64) []float32 {
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(v)
	}
	return out
}

// Save writes the index to path, creating parent directories and
// publishing via temp-file rename so readers never observe a partial
// index.
func (x *FlatIndex) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".index-*")
	if err != nil {
		return fmt.Errorf("failed to create temp index file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(fileMagic[:]); err != nil {
		tmp.Close()
		return err
	}
	header := []uint32{fileVersion, uint32(x.dim), uint32(len(x.vectors))}
	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			tmp.Close()
			return err
		}
	}
	for _, vec := range x.vectors {
		if err := binary.Write(w, binary.LittleEndian, vec); err != nil {
			tmp.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads an index artifact written by Save.
func Load(path string) (*FlatIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("failed to read index header: %w", err)
	}
	if magic != fileMagic {
		return nil, fmt.Errorf("not an index file: %s", path)
	}
	var version, dim, count uint32
	for _, dst := range []*uint32{&version, &dim, &count} {
		if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
			return nil, fmt.Errorf("failed to read index header: %w", err)
		}
	}
	if version != fileVersion {
		return nil, fmt.Errorf("unsupported index version: %d", version)
	}
	if dim == 0 {
		return nil, fmt.Errorf("index file has zero dimension")
	}

	x := &FlatIndex{dim: int(dim)}
	for i := uint32(0); i < count; i++ {
		vec := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return nil, fmt.Errorf("index file truncated at vector %d: %w", i, err)
		}
		x.vectors = append(x.vectors, vec)
	}
	return x, nil
}
