/*
Package bigint implements arbitrary-precision integers stored as arrays of
decimal digits, together with a fixed-block pool allocator that recycles
the storage of integer values.

# Representation

[Int] is a struct holding a slice of decimal digits, most significant digit
first, and the [Allocator] its storage was taken from.
For example, the integer 1234 is stored as the digits 1, 2, 3, 4.

[Parse] stores one digit per character and keeps leading zeros, so "0042"
and "42" denote the same value but have different sizes.
The results of arithmetic operations never have leading zeros, except for
the value 0, which is stored as a single 0 digit.

There is no separate sign.
The result of [Int.Sub] carries its sign in its leading digit, which is
negated when the result is negative, so 8888 - 9999 is stored as the digits
-1, 1, 1, 1 and printed as "-1111".
[Int.Add] and [Int.Mul] treat their operands as magnitudes, and [Int.Quo]
rejects negative operands.

# Operations

Every operation copies its operands first and never modifies them.
Addition, subtraction and multiplication work on copies reversed to the
least significant digit first and return a new [Int] from the allocator of
the receiver:

  - [Int.Add] adds digit by digit with carry propagation.
  - [Int.Sub] subtracts the smaller magnitude from the larger one with borrow
    propagation.
  - [Int.Mul] uses schoolbook multiplication.
  - [Int.Quo] counts how many times the divisor can be subtracted from the
    dividend and returns the count as an int.
    It takes time proportional to the quotient.

# Sign of a difference

The sign of x - y is derived in two steps:

 1. If x has fewer digits than y, the result is negative.
 2. Otherwise, the sign is the result of comparing x with y padded to the
    size of x.

For integers without leading zeros this is the mathematical sign of x - y.
With leading zeros, step 1 decides by size alone, so
Parse("5") - Parse("001") yields -4.

# Allocation

Every [Int] is carved from an [Allocator] and handed back by [Int.Release].
[Pool] keeps released blocks on a singly linked free list of fixed-size
blocks ([BlockSize] bytes) and reuses them in LIFO order.
When the free list is empty, it is replenished with a batch of
[PoolConfig.BatchSize] new blocks.
[HeapAllocator] leaves storage management to the Go runtime.
A nil Allocator is treated as [HeapAllocator].

Pool is not safe for concurrent use; it is meant to be owned by a single
goroutine for its whole lifetime, from [NewPool] to [Pool.Close].

# Errors

Errors are returned in the following cases:

  - Invalid input.
    [Parse] rejects empty strings and characters other than '0' to '9'.
    [NewSize] rejects negative sizes.
  - Division by zero or by a negative integer in [Int.Quo].
  - Pool exhaustion, when [PoolConfig.MaxBlocks] is reached, and allocation
    from a closed [Pool].

All errors wrap one of the exported sentinel errors and can be checked
with errors.Is.
*/
package bigint
