// SPDX-License-Identifier: MIT
// Package: emswap/gen

package gen

import (
	"errors"
	"math"
	"math/rand"
	"sort"
)

// Sentinel errors for the generators.
var (
	// ErrBadParameter indicates a size, bound, or exponent outside its
	// legal range.
	ErrBadParameter = errors.New("gen: parameter out of range")

	// ErrNeedRand indicates a stochastic generator called without a rng.
	ErrNeedRand = errors.New("gen: rng is required")
)

// PowerlawSequence samples n node degrees from a power law p(k) ∝ k^gamma on
// [minDeg, maxDeg] and returns them sorted decreasing (monotonic), with the
// total degree forced even so the sequence is materialisable as a
// multigraph.
//
// Sampling uses the inverse CDF of the continuous power law, rounded down
// and clamped to the bounds. gamma must be negative; the usual choice for
// LFR-style benchmarks is around -2.
//
// Complexity: O(n log n) for the final sort.
func PowerlawSequence(minDeg, maxDeg int64, gamma float64, n int, rng *rand.Rand) ([]int64, error) {
	if minDeg < 1 || maxDeg < minDeg || n < 1 {
		return nil, ErrBadParameter
	}
	if gamma >= 0 {
		return nil, ErrBadParameter
	}
	if rng == nil {
		return nil, ErrNeedRand
	}

	// Inverse-CDF constants: F^-1(u) = ((b^e − a^e)·u + a^e)^(1/e), e = γ+1.
	// γ = −1 degenerates to the log-uniform form a·(b/a)^u.
	e := gamma + 1
	ae := math.Pow(float64(minDeg), e)
	be := math.Pow(float64(maxDeg)+1, e)

	out := make([]int64, n)
	for i := range out {
		u := rng.Float64()
		var x float64
		if e == 0 {
			x = float64(minDeg) * math.Pow((float64(maxDeg)+1)/float64(minDeg), u)
		} else {
			x = math.Pow((be-ae)*u+ae, 1/e)
		}
		d := int64(x)
		if d < minDeg {
			d = minDeg
		}
		if d > maxDeg {
			d = maxDeg
		}
		out[i] = d
	}

	// Force an even handshake sum by nudging one degree by one, inside its
	// bounds unless minDeg == maxDeg, where the decrement leaves the range.
	var sum int64
	for _, d := range out {
		sum += d
	}
	if sum%2 != 0 {
		if out[0] < maxDeg {
			out[0]++
		} else {
			out[0]--
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })

	return out, nil
}
