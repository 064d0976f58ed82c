package transform

import (
	"fmt"
	"sort"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// Entry remaps a color as Scale*color + Offset, component-wise
type Entry struct {
	Scale  core.Vec3
	Offset core.Vec3
}

// Identity returns the entry that leaves colors unchanged
func Identity() Entry {
	return Entry{Scale: core.NewVec3(1, 1, 1)}
}

// Apply remaps a color. The result is not clamped.
func (e Entry) Apply(color core.Vec3) core.Vec3 {
	return e.Scale.MultiplyVec(color).Add(e.Offset)
}

// Add returns the component-wise sum of two entries
func (e Entry) Add(other Entry) Entry {
	return Entry{Scale: e.Scale.Add(other.Scale), Offset: e.Offset.Add(other.Offset)}
}

// Subtract returns the component-wise difference of two entries
func (e Entry) Subtract(other Entry) Entry {
	return Entry{Scale: e.Scale.Subtract(other.Scale), Offset: e.Offset.Subtract(other.Offset)}
}

// Multiply scales both parts of the entry
func (e Entry) Multiply(s float64) Entry {
	return Entry{Scale: e.Scale.Multiply(s), Offset: e.Offset.Multiply(s)}
}

// Magnitude is the Euclidean norm over all six components
func (e Entry) Magnitude() float64 {
	return core.NewVec3(e.Scale.Length(), e.Offset.Length(), 0).Length()
}

// Key addresses one table entry
type Key struct {
	I, J int
}

// Table is a sparse rows x cols matrix of color remaps. Entries that were
// never set read as Identity. A Table is not safe for concurrent mutation;
// the renderer serializes edits against render passes.
type Table struct {
	rows, cols int
	entries    map[Key]Entry
}

// NewTable creates an empty rows x cols table
func NewTable(rows, cols int) *Table {
	return &Table{
		rows:    rows,
		cols:    cols,
		entries: make(map[Key]Entry),
	}
}

// NewSquareTable creates an empty n x n table
func NewSquareTable(n int) *Table {
	return NewTable(n, n)
}

// Dims returns the declared row and column counts
func (t *Table) Dims() (int, int) {
	return t.rows, t.cols
}

func (t *Table) inRange(i, j int) bool {
	return i >= 0 && j >= 0 && i < t.rows && j < t.cols
}

// Get returns the entry at (i, j), Identity if none was set
func (t *Table) Get(i, j int) (Entry, error) {
	if !t.inRange(i, j) {
		return Entry{}, fmt.Errorf("get (%d, %d) in %dx%d table: %w", i, j, t.rows, t.cols, ErrOutOfRange)
	}
	if e, ok := t.entries[Key{i, j}]; ok {
		return e, nil
	}
	return Identity(), nil
}

// Lookup is Get without the error: out of range indices read as Identity
func (t *Table) Lookup(i, j int) Entry {
	if e, ok := t.entries[Key{i, j}]; ok {
		return e
	}
	return Identity()
}

// Set stores an entry at (i, j)
func (t *Table) Set(i, j int, e Entry) error {
	if !t.inRange(i, j) {
		return fmt.Errorf("set (%d, %d) in %dx%d table: %w", i, j, t.rows, t.cols, ErrOutOfRange)
	}
	t.entries[Key{i, j}] = e
	return nil
}

// Delete removes an explicit entry so that (i, j) reads as Identity again
func (t *Table) Delete(i, j int) error {
	if !t.inRange(i, j) {
		return fmt.Errorf("delete (%d, %d) in %dx%d table: %w", i, j, t.rows, t.cols, ErrOutOfRange)
	}
	delete(t.entries, Key{i, j})
	return nil
}

// Size returns the number of explicitly stored entries
func (t *Table) Size() int {
	return len(t.entries)
}

// Row returns all cols entries of row i, defaults included
func (t *Table) Row(i int) ([]Entry, error) {
	if i < 0 || i >= t.rows {
		return nil, fmt.Errorf("row %d in %dx%d table: %w", i, t.rows, t.cols, ErrOutOfRange)
	}
	row := make([]Entry, t.cols)
	for j := range row {
		row[j] = t.Lookup(i, j)
	}
	return row, nil
}

// SetRow stores every entry of row i
func (t *Table) SetRow(i int, row []Entry) error {
	if i < 0 || i >= t.rows || len(row) != t.cols {
		return fmt.Errorf("set row %d (%d entries) in %dx%d table: %w", i, len(row), t.rows, t.cols, ErrOutOfRange)
	}
	for j, e := range row {
		t.entries[Key{i, j}] = e
	}
	return nil
}

// Keys returns the stored keys ordered by row then column
func (t *Table) Keys() []Key {
	keys := make([]Key, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].I != keys[b].I {
			return keys[a].I < keys[b].I
		}
		return keys[a].J < keys[b].J
	})
	return keys
}
