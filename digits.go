package bigint

// digits is a buffer of decimal digits, most significant digit first.
// The leading digit of a difference may be negative, see [Int.Sign].
type digits []int8

// newDigits returns a zero-filled buffer of the given length.
func newDigits(size int) digits {
	return make(digits, size)
}

// clone returns a deep copy of x.
func (x digits) clone() digits {
	z := newDigits(len(x))
	copy(z, x)
	return z
}

// isZero returns true if every digit of x is 0.
func (x digits) isZero() bool {
	for _, d := range x {
		if d != 0 {
			return false
		}
	}
	return true
}

// cmp compares x and y digit by digit, starting from the most significant one,
// and returns:
//
//	-1 if x < y
//	 0 if x == y
//	+1 if x > y
//
// x and y must have the same length, see [pad].
func (x digits) cmp(y digits) int {
	for i := range x {
		switch {
		case x[i] > y[i]:
			return 1
		case x[i] < y[i]:
			return -1
		}
	}
	return 0
}

// rev (REVerse) returns a new buffer holding the digits of x in opposite order.
func (x digits) rev() digits {
	z := newDigits(len(x))
	for i, d := range x {
		z[len(x)-1-i] = d
	}
	return z
}

// trim returns a new buffer without the leading zeros of x.
// A buffer with no non-zero digits is trimmed to a single 0.
func (x digits) trim() digits {
	for i, d := range x {
		if d != 0 {
			return x[i:].clone()
		}
	}
	return digits{0}
}

// align copies y into the right-aligned tail of x.
// x must be zero-filled and at least as long as y.
func (x digits) align(y digits) {
	copy(x[len(x)-len(y):], y)
}

// pad replaces the shorter of x and y with a zero-filled buffer of the
// longer one's length, holding the same digits right-aligned.
// If both have the same length, y is replaced with a copy.
func pad(x, y *digits) {
	if len(*x) >= len(*y) {
		z := newDigits(len(*x))
		z.align(*y)
		*y = z
		return
	}
	z := newDigits(len(*y))
	z.align(*x)
	*x = z
}

// sum calculates x + y.
// Both buffers are least significant digit first and have the same length,
// with a zero top digit left for the final carry.
func sum(x, y digits) digits {
	z := newDigits(len(x))
	for i := range z {
		z[i] += x[i] + y[i]
		if z[i] > 9 {
			z[i] %= 10
			if i+1 < len(z) {
				z[i+1]++
			}
		}
	}
	return z
}

// diff calculates |x - y| by borrowing from the operand with the larger
// magnitude: y if larger is -1, x otherwise.
// Both buffers are least significant digit first and have the same length.
// The operand borrowed from is modified in place.
func diff(x, y digits, larger int) digits {
	if larger == -1 {
		x, y = y, x
	}
	z := newDigits(len(x))
	for i := range z {
		if x[i] < y[i] {
			x[i] += 10
			if i+1 < len(x) {
				x[i+1]--
			}
		}
		z[i] = x[i] - y[i]
	}
	return z
}

// mul calculates x * y using schoolbook multiplication.
// Both buffers are least significant digit first.
// The result is 2 * max(len(x), len(y)) digits long.
func mul(x, y digits) digits {
	z := newDigits(2 * max(len(x), len(y)))
	for i := range x {
		for j := range y {
			t := int(x[i])*int(y[j]) + int(z[i+j])
			z[i+j] = int8(t % 10)
			z[i+j+1] += int8(t / 10)
		}
	}
	return z
}

// sub calculates x - y, where x and y are most significant digit first.
// The result is trimmed and its sign is encoded in the leading digit:
//
//   - if x is shorter than y, the leading digit is negated;
//   - otherwise, it is multiplied by the magnitude comparison of x and y
//     aligned to the same length.
//
// For operands without leading zeros this is the usual sign of x - y.
func sub(x, y digits) digits {
	var (
		larger int
		xr, yr digits
	)

	// Alignment
	if len(x) >= len(y) {
		t := newDigits(len(x))
		t.align(y)
		larger = x.cmp(t)
		xr, yr = x.rev(), t.rev()
	} else {
		t := newDigits(len(y))
		t.align(x)
		larger = t.cmp(y)
		xr, yr = t.rev(), y.rev()
	}

	// Magnitude
	z := diff(xr, yr, larger).rev().trim()

	// Sign
	switch {
	case len(x) < len(y):
		z[0] = -z[0]
	case larger != 0:
		z[0] *= int8(larger)
	}
	return z
}
