// Package identity maps external user and movie ids onto the dense row
// indices of the embedding matrices.
package identity

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
)

// Kind selects which of the two tables a lookup uses.
type Kind int

const (
	User Kind = iota
	Movie
)

func (k Kind) String() string {
	if k == User {
		return "user"
	}
	return "movie"
}

// Files the index is loaded from inside the model directory.
const (
	UserFile  = "user_to_index.json"
	MovieFile = "movie_to_index.json"
)

type table struct {
	toDense    map[int]int
	toExternal map[int]int
	dense      []int // ascending
}

func newTable(kind Kind, m map[int]int) (*table, error) {
	t := &table{
		toDense:    make(map[int]int, len(m)),
		toExternal: make(map[int]int, len(m)),
		dense:      make([]int, 0, len(m)),
	}
	for ext, d := range m {
		if d < 0 {
			return nil, fmt.Errorf("%s %d: negative dense index %d", kind, ext, d)
		}
		if prev, dup := t.toExternal[d]; dup {
			return nil, fmt.Errorf("%s dense index %d claimed by both %d and %d", kind, d, prev, ext)
		}
		t.toDense[ext] = d
		t.toExternal[d] = ext
		t.dense = append(t.dense, d)
	}
	sort.Ints(t.dense)
	return t, nil
}

// Index is immutable once built and safe for concurrent reads.
type Index struct {
	tables [2]*table
}

// New builds an index from external->dense maps, rejecting any table where
// two external ids share a dense index.
func New(users, movies map[int]int) (*Index, error) {
	ut, err := newTable(User, users)
	if err != nil {
		return nil, err
	}
	mt, err := newTable(Movie, movies)
	if err != nil {
		return nil, err
	}
	return &Index{tables: [2]*table{ut, mt}}, nil
}

// Load reads user_to_index.json and movie_to_index.json from dir. Both files
// hold a JSON object of "<externalId>": denseIndex.
func Load(dir string) (*Index, error) {
	users, err := readTable(filepath.Join(dir, UserFile))
	if err != nil {
		return nil, err
	}
	movies, err := readTable(filepath.Join(dir, MovieFile))
	if err != nil {
		return nil, err
	}
	return New(users, movies)
}

func readTable(path string) (map[int]int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read identity table: %w", err)
	}
	var raw map[string]int
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	out := make(map[int]int, len(raw))
	for k, v := range raw {
		ext, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("decode %s: key %q is not an integer id", filepath.Base(path), k)
		}
		out[ext] = v
	}
	return out, nil
}

// ToDense resolves an external id. A miss is a normal outcome (new user,
// movie added after training).
func (x *Index) ToDense(kind Kind, externalID int) (int, bool) {
	d, ok := x.tables[kind].toDense[externalID]
	return d, ok
}

func (x *Index) ToExternal(kind Kind, dense int) (int, bool) {
	e, ok := x.tables[kind].toExternal[dense]
	return e, ok
}

// DenseIDs returns every dense index of kind in ascending order. The caller
// owns the returned slice.
func (x *Index) DenseIDs(kind Kind) []int {
	src := x.tables[kind].dense
	out := make([]int, len(src))
	copy(out, src)
	return out
}

func (x *Index) Len(kind Kind) int {
	return len(x.tables[kind].dense)
}

// MaxDense returns the largest dense index of kind, or -1 when empty.
func (x *Index) MaxDense(kind Kind) int {
	d := x.tables[kind].dense
	if len(d) == 0 {
		return -1
	}
	return d[len(d)-1]
}
