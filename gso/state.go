// Copyright (c) 2023 Colin McRae

// Package gso maintains the Gram-Schmidt orthogonalization of an integer
// lattice basis incrementally as the basis is transformed by row
// operations, and exposes the derived quantities (orthogonalization
// coefficients, squared norms, Gram entries, heuristic bounds) that
// lattice reduction algorithms consume.
//
// Throughout the package, b_i is row i of the basis B, b*_i is row i of
// its orthogonalization, mu[i][j] = <b_i, b*_j> / |b*_j|^2 for j < i, and
// r[i][j] = <b_i, b*_j> for j <= i, so that r[i][i] = |b*_i|^2.
package gso

import (
	"fmt"
	"math/big"

	"github.com/predrag3141/GSO/intmatrix"
	"github.com/predrag3141/GSO/realnum"
)

// Config holds the construction-time options of a State.
//
// EnableIntGram caches the integer Gram matrix <b_i, b_j> and keeps it
// current through row operations, so updates never recompute dot
// products from raw rows. EnableRowExpo rescales each row by a power of
// two before converting to backend floats, extending the usable range
// for bases with large entries; it cannot be combined with
// EnableIntGram, whose cache stores unscaled inner products.
//
// EnableTransform tracks the unimodular transform U with U B_original =
// B; EnableInvTransform additionally tracks the inverse transpose of U
// and requires EnableTransform.
//
// RowOpForceLong stores RowAddmul scalars in a machine integer, trading
// range for speed. Precision is the mantissa width for the Arbitrary
// backend; other backends ignore it.
type Config struct {
	FloatType          realnum.FloatType
	Precision          uint
	EnableIntGram      bool
	EnableRowExpo      bool
	EnableTransform    bool
	EnableInvTransform bool
	RowOpForceLong     bool
}

// State owns the orthogonalization data of one basis: mu, r, optional
// row exponents and optional Gram cache for the d known rows. The basis
// and transform matrices are mutated only through State's row operation
// methods, or directly inside a RowOpBegin/RowOpEnd bracket.
type State struct {
	cfg     Config
	factory *realnum.Factory

	b     *intmatrix.Matrix
	u     *intmatrix.Matrix
	uInvT *intmatrix.Matrix

	d    int
	mu   [][]realnum.Real // mu[i][j] for j < i; rows above validRows are stale
	r    [][]realnum.Real // r[i][j] for j <= i; rows above validRows are stale
	expo []int            // per-row base-2 exponent; all 0 unless EnableRowExpo

	// gram holds the lower triangle of <b_i, b_j> row-major, so row i
	// occupies entries i(i+1)/2,...,i(i+1)/2+i. Nil unless EnableIntGram.
	gram []*big.Int

	validRows int // rows {0,...,validRows-1} have current mu/r

	inRowOp    bool
	rowOpFirst int
	rowOpLast  int
}

// NewState returns a State bound to basis b under the options in cfg.
// All rows of b are known to the new State (d equals b.NumRows()), but
// no GSO data is valid until UpdateGSO runs. Configuration errors:
// a nil basis, an unrecognized float type, EnableIntGram combined with
// EnableRowExpo, or EnableInvTransform without EnableTransform.
func NewState(b *intmatrix.Matrix, cfg Config) (*State, error) {
	if b == nil {
		return nil, fmt.Errorf("NewState: basis is nil")
	}
	if cfg.EnableIntGram && cfg.EnableRowExpo {
		return nil, fmt.Errorf("NewState: EnableIntGram and EnableRowExpo cannot both be set")
	}
	if cfg.EnableInvTransform && !cfg.EnableTransform {
		return nil, fmt.Errorf("NewState: EnableInvTransform requires EnableTransform")
	}
	factory, err := realnum.NewFactory(cfg.FloatType, cfg.Precision)
	if err != nil {
		return nil, fmt.Errorf("NewState: could not create the numeric backend: %q", err.Error())
	}
	d := b.NumRows()
	retVal := &State{
		cfg:       cfg,
		factory:   factory,
		b:         b,
		d:         d,
		mu:        make([][]realnum.Real, d),
		r:         make([][]realnum.Real, d),
		expo:      make([]int, d),
		validRows: 0,
	}
	if cfg.EnableTransform && d > 0 {
		retVal.u, err = intmatrix.NewIdentity(d)
		if err != nil {
			return nil, fmt.Errorf("NewState: could not create the transform: %q", err.Error())
		}
	}
	if cfg.EnableInvTransform && d > 0 {
		retVal.uInvT, err = intmatrix.NewIdentity(d)
		if err != nil {
			return nil, fmt.Errorf("NewState: could not create the inverse transform: %q", err.Error())
		}
	}
	if cfg.EnableIntGram {
		retVal.gram = make([]*big.Int, d*(d+1)/2)
		for i := 0; i < d; i++ {
			for j := 0; j <= i; j++ {
				dot, err := intmatrix.DotProduct(b, b, i, j)
				if err != nil {
					return nil, fmt.Errorf("NewState: could not compute <b_%d, b_%d>: %q", i, j, err.Error())
				}
				retVal.gram[gramIdx(i, j)] = dot
			}
		}
	}
	return retVal, nil
}

// gramIdx returns the position of <b_i, b_j>, j <= i, in the row-major
// lower triangle.
func gramIdx(i, j int) int {
	return i*(i+1)/2 + j
}

// B returns the basis matrix the State is bound to.
func (s *State) B() *intmatrix.Matrix {
	return s.b
}

// U returns the tracked transform, or nil when EnableTransform is unset.
func (s *State) U() *intmatrix.Matrix {
	return s.u
}

// UinvT returns the tracked inverse transpose of the transform, or nil
// when EnableInvTransform is unset.
func (s *State) UinvT() *intmatrix.Matrix {
	return s.uInvT
}

// D returns the number of rows with known GSO bookkeeping.
func (s *State) D() int {
	return s.d
}

// Config returns the options the State was constructed with.
func (s *State) Config() Config {
	return s.cfg
}

// Factory returns the numeric backend factory, for callers that need to
// supply backend scalars to RowAddmul.
func (s *State) Factory() *realnum.Factory {
	return s.factory
}

// DiscoverAllRows extends the known-row count to cover every row of the
// basis without computing GSO data, permitting row combinations on rows
// whose coefficients are not yet known. The transforms, when enabled,
// grow in lock-step with a 1 on each new diagonal entry.
func (s *State) DiscoverAllRows() error {
	for s.d < s.b.NumRows() {
		i := s.d
		if err := s.growTransform(&s.u, s.cfg.EnableTransform, i); err != nil {
			return fmt.Errorf("DiscoverAllRows: %q", err.Error())
		}
		if err := s.growTransform(&s.uInvT, s.cfg.EnableInvTransform, i); err != nil {
			return fmt.Errorf("DiscoverAllRows: %q", err.Error())
		}
		s.mu = append(s.mu, nil)
		s.r = append(s.r, nil)
		s.expo = append(s.expo, 0)
		if s.cfg.EnableIntGram {
			for j := 0; j <= i; j++ {
				// Indices are valid by construction, so the error is nil
				dot, _ := intmatrix.DotProduct(s.b, s.b, i, j)
				s.gram = append(s.gram, dot)
			}
		}
		s.d++
	}
	return nil
}

// gramAt returns the cached <b_i, b_j> with i, j in either order.
func (s *State) gramAt(i, j int) *big.Int {
	if j > i {
		i, j = j, i
	}
	return s.gram[gramIdx(i, j)]
}

// dot returns the exact <b_i, b_j>, from the cache when it is enabled.
func (s *State) dot(i, j int) (*big.Int, error) {
	if s.cfg.EnableIntGram {
		return s.gramAt(i, j), nil
	}
	return intmatrix.DotProduct(s.b, s.b, i, j)
}
