// Copyright (c) 2023 Colin McRae

package gso

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/predrag3141/GSO/intmatrix"
	"github.com/predrag3141/GSO/realnum"
)

// exactGSO computes mu and r for the first d rows of b with exact
// rational arithmetic, as an oracle for the engine's floating point
// results. The recursion is the one the engine uses, but over big.Rat
// there is no round-off.
func exactGSO(t *testing.T, b *intmatrix.Matrix, d int) ([][]*big.Rat, [][]*big.Rat) {
	mu := make([][]*big.Rat, d)
	r := make([][]*big.Rat, d)
	term := new(big.Rat)
	for i := 0; i < d; i++ {
		mu[i] = make([]*big.Rat, i)
		r[i] = make([]*big.Rat, i+1)
		for j := 0; j <= i; j++ {
			dot, err := intmatrix.DotProduct(b, b, i, j)
			assert.NoError(t, err)
			rij := new(big.Rat).SetInt(dot)
			if j < i {
				for k := 0; k < j; k++ {
					rij.Sub(rij, term.Mul(mu[j][k], r[i][k]))
				}
				r[i][j] = rij
				mu[i][j] = new(big.Rat).Quo(rij, r[j][j])
			} else {
				for k := 0; k < i; k++ {
					rij.Sub(rij, term.Mul(mu[i][k], r[i][k]))
				}
				r[i][i] = rij
			}
		}
	}
	return mu, r
}

// assertMatchesRat asserts that f 2^e equals want to within relative
// tolerance tol.
func assertMatchesRat(t *testing.T, f float64, e int, want *big.Rat, tol float64, msgAndArgs ...interface{}) {
	got := new(big.Float).SetPrec(256).SetFloat64(f)
	if f != 0 && e != 0 {
		got.SetMantExp(got, e)
	}
	wantFloat := new(big.Float).SetPrec(256).SetRat(want)
	diff := new(big.Float).SetPrec(256).Sub(got, wantFloat)
	diff.Abs(diff)
	if wantFloat.Sign() != 0 {
		diff.Quo(diff, new(big.Float).Abs(wantFloat))
	}
	relErr, _ := diff.Float64()
	assert.LessOrEqual(t, relErr, tol, msgAndArgs...)
}

// newDiagDominant returns an n x n basis with random small entries and a
// dominant diagonal, so its rows are linearly independent and no update
// can break down.
func newDiagDominant(t *testing.T, rng *rand.Rand, n int) *intmatrix.Matrix {
	entries := make([]int64, n*n)
	for i := range entries {
		entries[i] = rng.Int63n(11) - 5
	}
	for i := 0; i < n; i++ {
		entries[i*n+i] += 20
	}
	b, err := intmatrix.NewFromInt64Array(entries, n, n)
	assert.NoError(t, err)
	return b
}

// assertAgreesWithOracle checks every valid mu and r entry of s against
// the exact rational orthogonalization of its basis.
func assertAgreesWithOracle(t *testing.T, s *State, tol float64) {
	mu, r := exactGSO(t, s.B(), s.D())
	for i := 0; i < s.D(); i++ {
		for j := 0; j <= i; j++ {
			f, e, err := s.GetRExp(i, j)
			assert.NoError(t, err)
			assertMatchesRat(t, f, e, r[i][j], tol, "r[%d][%d]", i, j)
		}
		for j := 0; j < i; j++ {
			f, e, err := s.GetMuExp(i, j)
			assert.NoError(t, err)
			assertMatchesRat(t, f, e, mu[i][j], tol, "mu[%d][%d]", i, j)
		}
	}
}

// allConfigs returns one Config per numeric backend, with the remaining
// options taken from base.
func allConfigs(base Config) []Config {
	retVal := make([]Config, 0, 4)
	for _, ft := range []realnum.FloatType{
		realnum.Double, realnum.DoubleDouble, realnum.QuadDouble, realnum.Arbitrary,
	} {
		cfg := base
		cfg.FloatType = ft
		retVal = append(retVal, cfg)
	}
	return retVal
}
