// SPDX-License-Identifier: MIT
// Package: emswap/gen
//
// Package gen builds the raw material the edge-switching engine consumes:
// power-law degree sequences, Havel–Hakimi edge-list materialisation, and
// uniform random swap scripts.
//
// Everything here is deterministic for a fixed *rand.Rand seed and stays
// fully in memory: these helpers exist to seed experiments and tests, not
// to scale to external-memory sizes. The constructors validate their
// parameters and return sentinel errors (ErrBadParameter, ErrNeedRand);
// branch with errors.Is.
package gen
