// Copyright (c) 2023 Colin McRae

package gso

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/predrag3141/GSO/realnum"
)

// diag returns the n x n diagonal basis with the given entries.
func diag(t *testing.T, entries ...int64) *State {
	n := len(entries)
	flat := make([]int64, n*n)
	for i, v := range entries {
		flat[i*n+i] = v
	}
	s := mustState(t, mustBasis(t, flat, n, n), Config{})
	assert.NoError(t, s.UpdateGSO())
	return s
}

func TestQueryIndexErrors(t *testing.T) {
	s := diag(t, 1, 2, 3)

	_, err := s.GetR(3, 0)
	assert.Error(t, err)
	_, err = s.GetR(-1, 0)
	assert.Error(t, err)
	_, err = s.GetR(1, 2) // j > i
	assert.Error(t, err)
	_, err = s.GetMu(1, 1) // mu needs j < i
	assert.Error(t, err)
	_, err = s.GetGram(0, 1)
	assert.Error(t, err)

	_, _, err = s.GetRExp(0, 1)
	assert.Error(t, err)
	_, _, err = s.GetMuExp(2, 2)
	assert.Error(t, err)
}

func TestQueryStaleRows(t *testing.T) {
	s := mustState(t, mustBasis(t, []int64{2, 0, 1, 3}, 2, 2), Config{})

	// Nothing is valid before the first update
	_, err := s.GetR(0, 0)
	assert.Error(t, err)

	// Gram queries need no update; they read the raw rows
	g, err := s.GetGram(1, 0)
	assert.NoError(t, err)
	assert.InDelta(t, 2.0, g, 1e-12)

	assert.NoError(t, s.UpdateGSO())
	_, err = s.GetR(1, 1)
	assert.NoError(t, err)

	// Mutating row 1 leaves row 0 readable and row 1 stale
	assert.NoError(t, s.RowAddmul(1, 0, s.Factory().NewFloat64(1.0)))
	_, err = s.GetR(0, 0)
	assert.NoError(t, err)
	_, err = s.GetR(1, 0)
	assert.Error(t, err)
}

func TestExpQueriesMatchPlain(t *testing.T) {
	s := diag(t, 3, 5, 7)
	for i := 0; i < 3; i++ {
		for j := 0; j <= i; j++ {
			v, err := s.GetR(i, j)
			assert.NoError(t, err)
			f, e, err := s.GetRExp(i, j)
			assert.NoError(t, err)
			assert.Equal(t, v, math.Ldexp(f, e))
		}
		for j := 0; j < i; j++ {
			v, err := s.GetMu(i, j)
			assert.NoError(t, err)
			f, e, err := s.GetMuExp(i, j)
			assert.NoError(t, err)
			assert.Equal(t, v, math.Ldexp(f, e))
		}
	}
}

func TestExpQueriesOverflowWithoutRowExponents(t *testing.T) {
	// Without exponent scaling the Arbitrary backend holds huge values
	// exactly, but their float64 mantissas are infinite; the exp queries
	// must report that the same way the plain queries do
	b := mustBasis(t, []int64{0, 0, 0, 3}, 2, 2)
	assert.NoError(t, b.Set(0, 0, new(big.Int).Lsh(big.NewInt(1), 600)))
	s := mustState(t, b, Config{FloatType: realnum.Arbitrary})
	assert.NoError(t, s.UpdateGSO())

	_, _, err := s.GetRExp(0, 0)
	assert.Error(t, err)
	_, err = s.GetR(0, 0)
	assert.Error(t, err)

	// Entries inside float64 range still read back
	f, e, err := s.GetRExp(1, 1)
	assert.NoError(t, err)
	assert.Equal(t, 0, e)
	assert.InDelta(t, 9.0, f, 1e-12)

	// A huge orthogonalization coefficient overflows the same way
	b2 := mustBasis(t, []int64{1, 1, 0, 2}, 2, 2)
	assert.NoError(t, b2.Set(1, 0, new(big.Int).Lsh(big.NewInt(1), 600)))
	s2 := mustState(t, b2, Config{FloatType: realnum.Arbitrary})
	assert.NoError(t, s2.UpdateGSO())
	_, _, err = s2.GetMuExp(1, 0)
	assert.Error(t, err)
	_, err = s2.GetMu(1, 0)
	assert.Error(t, err)
}

func TestGetCurrentSlope(t *testing.T) {
	// r[i][i] = 4^i, so ln r is exactly linear with slope ln 4
	s := diag(t, 1, 2, 4, 8)
	slope, err := s.GetCurrentSlope(0, 4)
	assert.NoError(t, err)
	assert.InDelta(t, math.Log(4.0), slope, 1e-12)

	slope, err = s.GetCurrentSlope(1, 3)
	assert.NoError(t, err)
	assert.InDelta(t, math.Log(4.0), slope, 1e-12)

	_, err = s.GetCurrentSlope(0, 1)
	assert.Error(t, err)
	_, err = s.GetCurrentSlope(2, 5)
	assert.Error(t, err)
}

func TestGetLogDetAndRootDet(t *testing.T) {
	s := diag(t, 1, 2, 4)

	// det of the Gram matrix is (1 * 2 * 4)^2 = 64
	logDet, err := s.GetLogDet(0, 3)
	assert.NoError(t, err)
	assert.InDelta(t, math.Log(64.0), logDet, 1e-12)

	rootDet, err := s.GetRootDet(0, 3)
	assert.NoError(t, err)
	assert.InDelta(t, 4.0, rootDet, 1e-12)

	rootDet, err = s.GetRootDet(1, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, rootDet)

	id := diag(t, 1, 1, 1)
	logDet, err = id.GetLogDet(0, 3)
	assert.NoError(t, err)
	assert.InDelta(t, 0.0, logDet, 1e-12)

	_, err = s.GetLogDet(0, 4)
	assert.Error(t, err)
	_, err = s.GetRootDet(-1, 2)
	assert.Error(t, err)
}

func TestAdjustRadiusToGHBound(t *testing.T) {
	s := diag(t, 1, 1, 1, 1)

	// For the integer lattice in dimension 4 the heuristic squared length
	// is Gamma(3)^(1/2) / pi = sqrt(2) / pi
	want := math.Sqrt(2.0) / math.Pi
	got, expo, err := s.AdjustRadiusToGHBound(1.0, 0, 0, 4, 1.0)
	assert.NoError(t, err)
	assert.Equal(t, 0, expo)
	assert.InDelta(t, want, got, 1e-12)

	// A radius already below the estimate is not increased
	got, expo, err = s.AdjustRadiusToGHBound(0.1, 0, 0, 4, 1.0)
	assert.NoError(t, err)
	assert.Equal(t, 0, expo)
	assert.Equal(t, 0.1, got)

	// The radius exponent is preserved, not normalized away
	got, expo, err = s.AdjustRadiusToGHBound(4.0, -2, 0, 4, 1.0)
	assert.NoError(t, err)
	assert.Equal(t, -2, expo)
	assert.InDelta(t, want*4.0, got, 1e-12) // got 2^-2 = want

	// Doubling ghFactor doubles the squared bound
	got, _, err = s.AdjustRadiusToGHBound(1.0, 0, 0, 4, 2.0)
	assert.NoError(t, err)
	assert.InDelta(t, 2.0*want, got, 1e-12)

	// A zero radius passes through untouched
	got, expo, err = s.AdjustRadiusToGHBound(0.0, 5, 0, 4, 1.0)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, got)
	assert.Equal(t, 5, expo)

	_, _, err = s.AdjustRadiusToGHBound(1.0, 0, 0, 0, 1.0)
	assert.Error(t, err)
	_, _, err = s.AdjustRadiusToGHBound(1.0, 0, 2, 3, 1.0)
	assert.Error(t, err)
	_, _, err = s.AdjustRadiusToGHBound(1.0, 0, 0, 4, 0.0)
	assert.Error(t, err)
	_, _, err = s.AdjustRadiusToGHBound(-1.0, 0, 0, 4, 1.0)
	assert.Error(t, err)
}

func TestDumpRAndDumpMu(t *testing.T) {
	s := mustState(t, mustBasis(t, []int64{2, 0, 0, 1, 3, 0, 1, 1, 5}, 3, 3), Config{})
	assert.NoError(t, s.UpdateGSO())

	rDiag, err := s.DumpR(0, 3)
	assert.NoError(t, err)
	assert.Len(t, rDiag, 3)
	for k := 0; k < 3; k++ {
		want, err := s.GetR(k, k)
		assert.NoError(t, err)
		assert.Equal(t, want, rDiag[k])
	}

	muBlock, err := s.DumpMu(1, 2)
	assert.NoError(t, err)
	assert.Len(t, muBlock, 4)
	assert.Equal(t, 1.0, muBlock[0])
	assert.Equal(t, 0.0, muBlock[1])
	mu21, err := s.GetMu(2, 1)
	assert.NoError(t, err)
	assert.Equal(t, mu21, muBlock[2])
	assert.Equal(t, 1.0, muBlock[3])

	empty, err := s.DumpR(1, 0)
	assert.NoError(t, err)
	assert.Empty(t, empty)

	_, err = s.DumpR(0, -1)
	assert.Error(t, err)
	_, err = s.DumpR(1, 3)
	assert.Error(t, err)
	_, err = s.DumpMu(0, 4)
	assert.Error(t, err)
}
