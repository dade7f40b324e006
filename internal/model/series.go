package model

import "math"

// Status tells how an entry of a Series came to be.
type Status uint8

const (
	// Undefined marks insufficient history or an undefined input.
	Undefined Status = iota
	// Defined marks an ordinary computed value.
	Defined
	// Saturated marks a value pinned to a bound because a denominator was zero.
	Saturated
)

func (s Status) String() string {
	switch s {
	case Defined:
		return "defined"
	case Saturated:
		return "saturated"
	default:
		return "undefined"
	}
}

// Value is one entry of an indicator series.
type Value struct {
	Float  float64
	Status Status
}

// Float wraps a raw number. NaN and infinities become Undefined.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{Float: f, Status: Defined}
}

// Saturate returns a bound value produced by a degenerate denominator.
func Saturate(f float64) Value { return Value{Float: f, Status: Saturated} }

// Valid reports whether the value carries a number.
func (v Value) Valid() bool { return v.Status != Undefined }

// Derive applies f to a and b. The result is Undefined if either input is,
// and Saturated if either input is.
func Derive(a, b Value, f func(x, y float64) float64) Value {
	if !a.Valid() || !b.Valid() {
		return Value{}
	}
	out := Float(f(a.Float, b.Float))
	if out.Valid() && (a.Status == Saturated || b.Status == Saturated) {
		out.Status = Saturated
	}
	return out
}

// Series is a numeric column aligned by index with its source TimeSeries.
type Series []Value

// UndefinedSeries returns a Series of n undefined entries.
func UndefinedSeries(n int) Series { return make(Series, n) }

// Last returns the final entry, or an Undefined value for an empty series.
func (s Series) Last() Value {
	if len(s) == 0 {
		return Value{}
	}
	return s[len(s)-1]
}

// Floats returns the raw numbers with NaN in place of undefined entries.
// It is meant for renderers; indicator code works on Values.
func (s Series) Floats() []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		if v.Valid() {
			out[i] = v.Float
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// FirstValid returns the index of the first valid entry, or -1.
func (s Series) FirstValid() int {
	for i, v := range s {
		if v.Valid() {
			return i
		}
	}
	return -1
}

// Zip combines two aligned series entry by entry with Derive.
func Zip(a, b Series, f func(x, y float64) float64) Series {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make(Series, n)
	for i := 0; i < n; i++ {
		out[i] = Derive(a[i], b[i], f)
	}
	return out
}
