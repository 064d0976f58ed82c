package transform

import (
	"fmt"
	"math/bits"
)

// maxLevel returns log2(n), or an error when n is not a positive power of two
func maxLevel(n int) (int, error) {
	if n <= 0 || n&(n-1) != 0 {
		return 0, fmt.Errorf("length %d: %w", n, ErrInvalidLength)
	}
	return bits.TrailingZeros(uint(n)), nil
}

// Forward applies level iterations of the Haar averaging step to seq.
//
// Each iteration replaces the working sequence with its pairwise averages
// and records, for every pair, the difference between the first element and
// the average. The coefficients of each iteration are prepended to those of
// earlier iterations, so the result is laid out as
// [averages | coarsest coefficients | ... | finest coefficients].
func Forward(seq []Entry, level int) ([]Entry, error) {
	top, err := maxLevel(len(seq))
	if err != nil {
		return nil, err
	}
	if level < 0 || level > top {
		return nil, fmt.Errorf("level %d for length %d: %w", level, len(seq), ErrInvalidLevel)
	}

	approx := append([]Entry(nil), seq...)
	var details []Entry
	for l := 0; l < level; l++ {
		half := len(approx) / 2
		averages := make([]Entry, half)
		coefficients := make([]Entry, half)
		for k := 0; k < half; k++ {
			first, second := approx[2*k], approx[2*k+1]
			averages[k] = first.Add(second).Multiply(0.5)
			coefficients[k] = first.Subtract(averages[k])
		}
		details = append(coefficients, details...)
		approx = averages
	}

	return append(approx, details...), nil
}

// Inverse undoes Forward. Starting from the leading len/2^level averages it
// consumes one block of coefficients per iteration and rebuilds the pairs
// (average + coefficient, average - coefficient).
func Inverse(transformed []Entry, level int) ([]Entry, error) {
	top, err := maxLevel(len(transformed))
	if err != nil {
		return nil, err
	}
	if level < 0 || level > top {
		return nil, fmt.Errorf("level %d for length %d: %w", level, len(transformed), ErrInvalidLevel)
	}

	block := len(transformed) >> level
	approx := append([]Entry(nil), transformed[:block]...)
	pos := block
	for l := 0; l < level; l++ {
		coefficients := transformed[pos : pos+len(approx)]
		next := make([]Entry, 2*len(approx))
		for k, average := range approx {
			next[2*k] = average.Add(coefficients[k])
			next[2*k+1] = average.Subtract(coefficients[k])
		}
		pos += len(approx)
		approx = next
	}
	return approx, nil
}

// Threshold returns a copy of transformed with every entry at index keep or
// later zeroed when its magnitude is below epsilon, along with the number of
// entries zeroed. Passing the averages block length as keep preserves the
// averages.
func Threshold(transformed []Entry, keep int, epsilon float64) ([]Entry, int) {
	out := append([]Entry(nil), transformed...)
	zeroed := 0
	for i := max(keep, 0); i < len(out); i++ {
		if out[i] != (Entry{}) && out[i].Magnitude() < epsilon {
			out[i] = Entry{}
			zeroed++
		}
	}
	return out, zeroed
}
