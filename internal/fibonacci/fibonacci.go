// Package fibonacci computes Fibonacci numbers.
//
// Results grow past 64 bits after F(93), so every value is a *big.Int.
// Each call allocates its own integers; nothing is cached between calls,
// which makes the package safe to use from any number of goroutines.
package fibonacci

import "math/big"

// Fibonacci returns F(n) with F(1) = F(2) = 1.
//
// It walks the sequence keeping only the last two values, so it performs
// n-2 big-integer additions and no recursion. F(0) is 0.
func Fibonacci(n uint64) *big.Int {
	if n == 0 {
		return new(big.Int)
	}
	if n <= 2 {
		return big.NewInt(1)
	}

	prev, curr := big.NewInt(1), big.NewInt(1)
	for i := uint64(2); i < n; i++ {
		// prev becomes F(i+1); swapping keeps curr as the newest value.
		prev.Add(prev, curr)
		prev, curr = curr, prev
	}

	return curr
}
