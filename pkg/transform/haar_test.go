package transform

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

func scalar(v float64) Entry {
	return Entry{Scale: core.NewVec3(v, v, v), Offset: core.NewVec3(-v, 0, v)}
}

func randomEntries(random *rand.Rand, n int) []Entry {
	seq := make([]Entry, n)
	for i := range seq {
		seq[i] = Entry{
			Scale:  core.NewVec3(random.Float64()*2, random.Float64()*2, random.Float64()*2),
			Offset: core.NewVec3(random.Float64()-0.5, random.Float64()-0.5, random.Float64()-0.5),
		}
	}
	return seq
}

func TestForward_Layout(t *testing.T) {
	seq := []Entry{scalar(9), scalar(7), scalar(3), scalar(5)}

	tests := []struct {
		name     string
		level    int
		expected []float64
	}{
		{"level 0 is a copy", 0, []float64{9, 7, 3, 5}},
		{"level 1", 1, []float64{8, 4, 1, -1}},
		{"level 2", 2, []float64{6, 2, 1, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Forward(seq, tt.level)
			if err != nil {
				t.Fatal(err)
			}
			for i, v := range tt.expected {
				if out[i] != scalar(v) {
					t.Errorf("Index %d: expected %+v, got %+v", i, scalar(v), out[i])
				}
			}
		})
	}
}

func TestHaar_RoundTrip(t *testing.T) {
	random := rand.New(rand.NewSource(11))

	for _, n := range []int{1, 2, 4, 8, 32} {
		seq := randomEntries(random, n)
		top, _ := maxLevel(n)
		for level := 0; level <= top; level++ {
			forward, err := Forward(seq, level)
			if err != nil {
				t.Fatalf("Forward(n=%d, level=%d): %v", n, level, err)
			}
			back, err := Inverse(forward, level)
			if err != nil {
				t.Fatalf("Inverse(n=%d, level=%d): %v", n, level, err)
			}
			for i := range seq {
				if !back[i].Scale.ApproxEqual(seq[i].Scale, 1e-12) || !back[i].Offset.ApproxEqual(seq[i].Offset, 1e-12) {
					t.Fatalf("n=%d level=%d index %d: expected %+v, got %+v", n, level, i, seq[i], back[i])
				}
			}
		}
	}
}

func TestForward_DoesNotModifyInput(t *testing.T) {
	seq := []Entry{scalar(1), scalar(2)}
	if _, err := Forward(seq, 1); err != nil {
		t.Fatal(err)
	}
	if seq[0] != scalar(1) || seq[1] != scalar(2) {
		t.Error("Forward modified its input")
	}
}

func TestHaar_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		length   int
		level    int
		expected error
	}{
		{"empty", 0, 0, ErrInvalidLength},
		{"not a power of two", 6, 1, ErrInvalidLength},
		{"negative level", 4, -1, ErrInvalidLevel},
		{"level too large", 4, 3, ErrInvalidLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := make([]Entry, tt.length)
			if _, err := Forward(seq, tt.level); !errors.Is(err, tt.expected) {
				t.Errorf("Forward: expected %v, got %v", tt.expected, err)
			}
			if _, err := Inverse(seq, tt.level); !errors.Is(err, tt.expected) {
				t.Errorf("Inverse: expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestThreshold(t *testing.T) {
	// A smooth row compresses to its average
	seq := []Entry{scalar(1), scalar(1.001), scalar(1), scalar(0.999)}
	forward, err := Forward(seq, 2)
	if err != nil {
		t.Fatal(err)
	}

	compressed, zeroed := Threshold(forward, 1, 0.01)
	if zeroed != 3 {
		t.Fatalf("Expected 3 coefficients zeroed, got %d", zeroed)
	}
	if compressed[0] != forward[0] {
		t.Error("Averages before keep must be preserved")
	}
	if forward[1] == (Entry{}) {
		t.Error("Threshold must not modify its input")
	}

	back, err := Inverse(compressed, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := range seq {
		if !back[i].Scale.ApproxEqual(seq[i].Scale, 0.002) {
			t.Errorf("Index %d: lossy reconstruction too far: %+v vs %+v", i, back[i], seq[i])
		}
	}
}
