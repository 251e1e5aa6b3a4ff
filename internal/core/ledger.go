package core

import "math"

type (
	// Field describes how one summary value is folded out of a record.
	Field[R, V any] struct {
		Name    string
		Select  func(R) V
		Combine func(acc, v V) V
	}

	// Summary maps field names to their folded value.
	Summary[V any] map[string]V
)

// Aggregate folds records into a summary. Every field named in fields is
// present in the result and starts from zero, so an empty input yields a
// zero-valued summary rather than missing keys.
func Aggregate[R, V any](records []R, zero V, fields ...Field[R, V]) Summary[V] {
	out := make(Summary[V], len(fields))
	for _, f := range fields {
		out[f.Name] = zero
	}
	for _, r := range records {
		for _, f := range fields {
			out[f.Name] = f.Combine(out[f.Name], f.Select(r))
		}
	}
	return out
}

// Get returns the value for name, or the zero value of V when absent.
func (s Summary[V]) Get(name string) V {
	return s[name]
}

// SumFloat adds v to acc. Non-finite contributions count as 0.
func SumFloat(acc, v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return acc
	}
	return acc + v
}

// FloatSum is a shorthand for a summed float field.
func FloatSum[R any](name string, sel func(R) float64) Field[R, float64] {
	return Field[R, float64]{Name: name, Select: sel, Combine: SumFloat}
}

// Where returns the records matching keep, preserving their order.
func Where[R any](records []R, keep func(R) bool) []R {
	out := make([]R, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
