package bigint

import "fmt"

// MustAdd is like [Int.Add] but panics if computing error.
func (x *Int) MustAdd(y *Int) *Int {
	z, err := x.Add(y)
	if err != nil {
		panic(fmt.Sprintf("MustAdd(%v) failed: %v", y, err))
	}
	return z
}

// MustSub is like [Int.Sub] but panics if computing error.
func (x *Int) MustSub(y *Int) *Int {
	z, err := x.Sub(y)
	if err != nil {
		panic(fmt.Sprintf("MustSub(%v) failed: %v", y, err))
	}
	return z
}

// MustMul is like [Int.Mul] but panics if computing error.
func (x *Int) MustMul(y *Int) *Int {
	z, err := x.Mul(y)
	if err != nil {
		panic(fmt.Sprintf("MustMul(%v) failed: %v", y, err))
	}
	return z
}

// MustQuo is like [Int.Quo] but panics if computing error.
func (x *Int) MustQuo(y *Int) int {
	q, err := x.Quo(y)
	if err != nil {
		panic(fmt.Sprintf("MustQuo(%v) failed: %v", y, err))
	}
	return q
}
