package bigint

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Int is an arbitrary-precision integer stored as an array of decimal digits,
// most significant digit first.
// Every Int is carved from the [Allocator] it was constructed with and must be
// handed back with [Int.Release] once it is no longer needed.
//
// Int does not keep a separate sign.
// A difference carries its sign in its leading digit, which is negated when
// the difference is negative, see [Int.Sub] and [Int.Sign].
// Only [Int.Sub] is sign-aware; [Int.Add] and [Int.Mul] operate on magnitudes
// and [Int.Quo] rejects negative operands.
type Int struct {
	digs  digits    // the digits of the integer
	alloc Allocator // the allocator that owns the block of this integer
	next  *Int      // free-list link, only set while the block is pooled
}

const (
	DefaultSize = 1000 // number of digits of an integer created by [New]
)

var (
	ErrInvalidInt      = errors.New("invalid integer")
	ErrInvalidSize     = errors.New("invalid size")
	ErrDivisionByZero  = errors.New("division by zero")
	ErrNegativeOperand = errors.New("negative operand")
)

// newInt takes a block from a and stores d in it.
// A nil allocator is treated as [HeapAllocator].
func newInt(a Allocator, d digits) (*Int, error) {
	if a == nil {
		a = HeapAllocator{}
	}
	x, err := a.Allocate()
	if err != nil {
		return nil, err
	}
	x.digs = d
	x.alloc = a
	return x, nil
}

// New returns a zero integer with [DefaultSize] digits.
func New(a Allocator) (*Int, error) {
	return NewSize(a, DefaultSize)
}

// NewSize returns a zero integer with the given number of digits.
// NewSize returns an error if size is negative.
func NewSize(a Allocator, size int) (*Int, error) {
	if size < 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "size %v is negative", size)
	}
	return newInt(a, newDigits(size))
}

// Parse converts a string of decimal digits to an integer.
// Each character is stored as one digit; signs are not accepted and leading
// zeros are kept, so "0042" has 4 digits.
//
// Parse returns an error if the string is empty or contains a character
// other than '0' to '9'.
func Parse(a Allocator, s string) (*Int, error) {
	d, err := parseDigits(s)
	if err != nil {
		return nil, err
	}
	return newInt(a, d)
}

func parseDigits(s string) (digits, error) {
	if len(s) == 0 {
		return nil, errors.Wrap(ErrInvalidInt, "no digits")
	}
	d := newDigits(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return nil, errors.Wrapf(ErrInvalidInt, "invalid character %q at position %v", c, i)
		}
		d[i] = int8(c - '0')
	}
	return d, nil
}

// MustParse is like [Parse] but panics if the string cannot be parsed.
func MustParse(a Allocator, s string) *Int {
	x, err := Parse(a, s)
	if err != nil {
		panic(fmt.Sprintf("MustParse(%q) failed: %v", s, err))
	}
	return x
}

// Clone returns a deep copy of x taken from the allocator of x.
func (x *Int) Clone() (*Int, error) {
	return newInt(x.alloc, x.digs.clone())
}

// Set replaces the digits of x with a copy of the digits of y and returns x.
func (x *Int) Set(y *Int) *Int {
	if x != y {
		x.digs = y.digs.clone()
	}
	return x
}

// Release drops the digits of x and returns its block to the allocator.
// x must not be used afterwards. Releasing an integer twice is a no-op.
func (x *Int) Release() {
	if x == nil || x.alloc == nil {
		return
	}
	a := x.alloc
	x.digs = nil
	x.alloc = nil
	a.Free(x)
}

// Size returns the number of digits in x, including leading zeros.
func (x *Int) Size() int {
	return len(x.digs)
}

// Digits returns a copy of the digits of x, most significant digit first.
func (x *Int) Digits() []int8 {
	return x.digs.clone()
}

// Sign returns:
//
//	-1 if x < 0
//	 0 if x == 0
//	+1 if x > 0
//
// Only a result of [Int.Sub] can be negative.
func (x *Int) Sign() int {
	for _, d := range x.digs {
		switch {
		case d < 0:
			return -1
		case d > 0:
			return 1
		}
	}
	return 0
}

// IsZero returns true if all digits of x are 0.
func (x *Int) IsZero() bool {
	return x.digs.isZero()
}

// Cmp compares x and y digit by digit after padding the shorter one with
// leading zeros, and returns:
//
//	-1 if x < y
//	 0 if x == y
//	+1 if x > y
func (x *Int) Cmp(y *Int) int {
	xd, yd := x.digs, y.digs
	pad(&xd, &yd)
	return xd.cmp(yd)
}

// operands returns copies of x and y taken from the allocator of x.
func (x *Int) operands(y *Int) (lhs, rhs *Int, err error) {
	lhs, err = x.Clone()
	if err != nil {
		return nil, nil, err
	}
	rhs, err = newInt(x.alloc, y.digs.clone())
	if err != nil {
		lhs.Release()
		return nil, nil, err
	}
	return lhs, rhs, nil
}

// Add returns the sum x + y.
// Both operands are treated as non-negative.
func (x *Int) Add(y *Int) (*Int, error) {
	lhs, rhs, err := x.operands(y)
	if err != nil {
		return nil, err
	}
	defer lhs.Release()
	defer rhs.Release()

	// Alignment, with one extra digit for the final carry
	size := max(lhs.Size(), rhs.Size()) + 1
	ld, rd := newDigits(size), newDigits(size)
	ld.align(lhs.digs)
	rd.align(rhs.digs)

	z := sum(ld.rev(), rd.rev()).rev().trim()
	return newInt(x.alloc, z)
}

// Sub returns the difference x - y.
// If x is shorter than y, or has the same number of digits and a smaller value,
// the leading digit of the result is negated.
func (x *Int) Sub(y *Int) (*Int, error) {
	lhs, rhs, err := x.operands(y)
	if err != nil {
		return nil, err
	}
	defer lhs.Release()
	defer rhs.Release()

	return newInt(x.alloc, sub(lhs.digs, rhs.digs))
}

// Mul returns the product x * y.
// Both operands are treated as non-negative.
func (x *Int) Mul(y *Int) (*Int, error) {
	lhs, rhs, err := x.operands(y)
	if err != nil {
		return nil, err
	}
	defer lhs.Release()
	defer rhs.Release()

	z := mul(lhs.digs.rev(), rhs.digs.rev()).rev().trim()
	return newInt(x.alloc, z)
}

// Quo returns the number of times y can be subtracted from x, which is ⌊x / y⌋.
// The quotient is computed by repeated subtraction and takes time
// proportional to its value.
//
// Quo returns an error if:
//   - y is 0;
//   - x or y is negative.
func (x *Int) Quo(y *Int) (int, error) {
	switch {
	case x.Sign() < 0 || y.Sign() < 0:
		return 0, errors.Wrapf(ErrNegativeOperand, "%v / %v", x, y)
	case y.IsZero():
		return 0, ErrDivisionByZero
	}

	lhs, rhs, err := x.operands(y)
	if err != nil {
		return 0, err
	}
	defer func() { lhs.Release() }()
	defer rhs.Release()

	pad(&lhs.digs, &rhs.digs)
	q := 0
	for lhs.digs.cmp(rhs.digs) >= 0 {
		z, err := newInt(x.alloc, sub(lhs.digs, rhs.digs))
		if err != nil {
			return 0, err
		}
		lhs.Release()
		lhs = z
		q++
		pad(&lhs.digs, &rhs.digs)
	}
	return q, nil
}

// String implements the [fmt.Stringer] interface and returns the digits of x,
// most significant digit first, without grouping.
// A negative leading digit is written with a minus sign.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (x *Int) String() string {
	if x == nil {
		return "<nil>"
	}
	buf := make([]byte, 0, len(x.digs)+1)
	for _, d := range x.digs {
		buf = strconv.AppendInt(buf, int64(d), 10)
	}
	return string(buf)
}

// MarshalText implements [encoding.TextMarshaler] interface.
// Also see method [Int.String].
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (x *Int) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler] interface.
// Unlike [Parse], it accepts a leading minus sign, which is stored by negating
// the leading digit, so that it reverses [Int.MarshalText].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (x *Int) UnmarshalText(text []byte) error {
	s := string(text)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	d, err := parseDigits(s)
	if err != nil {
		return err
	}
	if neg {
		d[0] = -d[0]
	}
	x.digs = d
	return nil
}

// Format implements [fmt.Formatter] interface.
// The following [verbs] are available:
//
//	%d, %s, %v: -1111
//	%q:        "-1111"
//
// The width is supported with the '-' and '0' flags.
//
// [verbs]: https://pkg.go.dev/fmt#hdr-Printing
// [fmt.Formatter]: https://pkg.go.dev/fmt#Formatter
func (x *Int) Format(state fmt.State, verb rune) {
	s := x.String()

	// Quotes
	if verb == 'q' || verb == 'Q' {
		s = strconv.Quote(s)
	}

	// Padding
	if w, ok := state.Width(); ok && w > len(s) {
		n := w - len(s)
		switch {
		case state.Flag('-'):
			s = s + strings.Repeat(" ", n)
		case state.Flag('0') && verb != 'q' && verb != 'Q':
			sign := ""
			if strings.HasPrefix(s, "-") {
				sign, s = "-", s[1:]
			}
			s = sign + strings.Repeat("0", n) + s
		default:
			s = strings.Repeat(" ", n) + s
		}
	}

	// Writing result
	switch verb {
	case 'd', 'q', 'Q', 's', 'S', 'v', 'V':
		io.WriteString(state, s)
	default:
		fmt.Fprintf(state, "%%!%c(bigint.Int=%s)", verb, s)
	}
}
