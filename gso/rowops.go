// Copyright (c) 2023 Colin McRae

package gso

import (
	"fmt"
	"math/big"

	"github.com/predrag3141/GSO/intmatrix"
	"github.com/predrag3141/GSO/realnum"
)

// CreateRow appends a zero row to the basis (and to the transforms, with
// a 1 on their new diagonal), increments the known-row count and returns
// the new row's index. No GSO data is computed; the row's mu/r become
// valid only after the row is populated and UpdateGSO runs.
func (s *State) CreateRow() (int, error) {
	if s.inRowOp {
		return 0, fmt.Errorf(
			"CreateRow: a row operation on rows [%d,%d) is in progress", s.rowOpFirst, s.rowOpLast,
		)
	}
	if s.d != s.b.NumRows() {
		return 0, fmt.Errorf(
			"CreateRow: basis has %d rows but only %d are known; call DiscoverAllRows", s.b.NumRows(), s.d,
		)
	}
	newIndex := s.d
	s.b.AppendZeroRow()
	if err := s.growTransform(&s.u, s.cfg.EnableTransform, newIndex); err != nil {
		return 0, fmt.Errorf("CreateRow: %q", err.Error())
	}
	if err := s.growTransform(&s.uInvT, s.cfg.EnableInvTransform, newIndex); err != nil {
		return 0, fmt.Errorf("CreateRow: %q", err.Error())
	}
	if s.cfg.EnableIntGram {
		// The new row is zero, so every new inner product is zero
		for j := 0; j <= newIndex; j++ {
			s.gram = append(s.gram, big.NewInt(0))
		}
	}
	s.mu = append(s.mu, nil)
	s.r = append(s.r, nil)
	s.expo = append(s.expo, 0)
	s.d++
	return newIndex, nil
}

func (s *State) growTransform(m **intmatrix.Matrix, enabled bool, newIndex int) error {
	if !enabled {
		return nil
	}
	if *m == nil {
		t, err := intmatrix.NewIdentity(1)
		if err != nil {
			return err
		}
		*m = t
		return nil
	}
	(*m).AppendZeroRow()
	(*m).AppendZeroColumn()
	return (*m).SetInt64(newIndex, newIndex, 1)
}

// RemoveLastRow discards the last row of the basis along with its mu, r,
// exponent and Gram entries, and decrements the known-row count. It
// exactly undoes a CreateRow.
func (s *State) RemoveLastRow() error {
	if s.inRowOp {
		return fmt.Errorf(
			"RemoveLastRow: a row operation on rows [%d,%d) is in progress", s.rowOpFirst, s.rowOpLast,
		)
	}
	if s.d == 0 {
		return fmt.Errorf("RemoveLastRow: no rows are known")
	}
	if s.d != s.b.NumRows() {
		return fmt.Errorf(
			"RemoveLastRow: basis has %d rows but only %d are known; call DiscoverAllRows", s.b.NumRows(), s.d,
		)
	}
	if err := s.b.RemoveLastRow(); err != nil {
		return fmt.Errorf("RemoveLastRow: could not shrink the basis: %q", err.Error())
	}
	s.d--
	if err := s.shrinkTransform(&s.u); err != nil {
		return fmt.Errorf("RemoveLastRow: %q", err.Error())
	}
	if err := s.shrinkTransform(&s.uInvT); err != nil {
		return fmt.Errorf("RemoveLastRow: %q", err.Error())
	}
	if s.cfg.EnableIntGram {
		s.gram = s.gram[:s.d*(s.d+1)/2]
	}
	s.mu = s.mu[:s.d]
	s.r = s.r[:s.d]
	s.expo = s.expo[:s.d]
	if s.validRows > s.d {
		s.validRows = s.d
	}
	return nil
}

func (s *State) shrinkTransform(m **intmatrix.Matrix) error {
	if *m == nil {
		return nil
	}
	if s.d == 0 {
		*m = nil
		return nil
	}
	if err := (*m).RemoveLastRow(); err != nil {
		return err
	}
	return (*m).RemoveLastColumn()
}

// MoveRow relocates row oldR to position newR, shifting the rows between
// them by one, in the basis, the transforms and the Gram cache. GSO data
// for rows from min(oldR, newR) on becomes stale.
func (s *State) MoveRow(oldR int, newR int) error {
	if s.inRowOp {
		return fmt.Errorf(
			"MoveRow: a row operation on rows [%d,%d) is in progress", s.rowOpFirst, s.rowOpLast,
		)
	}
	if oldR < 0 || s.d <= oldR {
		return fmt.Errorf("MoveRow: index oldR = %d outside range {0, ... %d}", oldR, s.d-1)
	}
	if newR < 0 || s.d <= newR {
		return fmt.Errorf("MoveRow: index newR = %d outside range {0, ... %d}", newR, s.d-1)
	}
	if oldR == newR {
		return nil
	}
	if err := s.b.RotateRow(oldR, newR); err != nil {
		return fmt.Errorf("MoveRow: could not rotate basis rows: %q", err.Error())
	}
	// A permutation P transforms U to P U and its inverse transpose to
	// P UinvT, so both transforms get the same row relocation
	if s.u != nil {
		if err := s.u.RotateRow(oldR, newR); err != nil {
			return fmt.Errorf("MoveRow: could not rotate transform rows: %q", err.Error())
		}
	}
	if s.uInvT != nil {
		if err := s.uInvT.RotateRow(oldR, newR); err != nil {
			return fmt.Errorf("MoveRow: could not rotate inverse transform rows: %q", err.Error())
		}
	}
	if s.cfg.EnableIntGram {
		perm := identityPerm(s.d)
		moved := perm[oldR]
		if oldR < newR {
			copy(perm[oldR:newR], perm[oldR+1:newR+1])
		} else {
			copy(perm[newR+1:oldR+1], perm[newR:oldR])
		}
		perm[newR] = moved
		s.permuteGram(perm)
	}
	if first := min(oldR, newR); s.validRows > first {
		s.validRows = first
	}
	return nil
}

// SwapRows exchanges rows r0 and r1 in the basis, the transforms and the
// Gram cache. GSO data for rows from min(r0, r1) on becomes stale.
func (s *State) SwapRows(r0 int, r1 int) error {
	if s.inRowOp {
		return fmt.Errorf(
			"SwapRows: a row operation on rows [%d,%d) is in progress", s.rowOpFirst, s.rowOpLast,
		)
	}
	if r0 < 0 || s.d <= r0 {
		return fmt.Errorf("SwapRows: index r0 = %d outside range {0, ... %d}", r0, s.d-1)
	}
	if r1 < 0 || s.d <= r1 {
		return fmt.Errorf("SwapRows: index r1 = %d outside range {0, ... %d}", r1, s.d-1)
	}
	if r0 == r1 {
		return nil
	}
	if err := s.b.SwapRows(r0, r1); err != nil {
		return fmt.Errorf("SwapRows: could not swap basis rows: %q", err.Error())
	}
	if s.u != nil {
		if err := s.u.SwapRows(r0, r1); err != nil {
			return fmt.Errorf("SwapRows: could not swap transform rows: %q", err.Error())
		}
	}
	if s.uInvT != nil {
		if err := s.uInvT.SwapRows(r0, r1); err != nil {
			return fmt.Errorf("SwapRows: could not swap inverse transform rows: %q", err.Error())
		}
	}
	if s.cfg.EnableIntGram {
		perm := identityPerm(s.d)
		perm[r0], perm[r1] = perm[r1], perm[r0]
		s.permuteGram(perm)
	}
	if first := min(r0, r1); s.validRows > first {
		s.validRows = first
	}
	return nil
}

// RowAddmul adds x times row j to row i of the basis, for j != i. x is
// rounded to the nearest integer; reduction steps pass integral scalars
// by construction. U picks up the same row operation and UinvT its
// inverse transpose (row j minus x times row i). The Gram cache is
// updated algebraically from its own entries, so it stays exact. Row i's
// GSO data, and conservatively all later rows', becomes stale.
//
// When RowOpForceLong is set, the scalar is routed through a machine
// integer and an error is returned if it does not fit.
func (s *State) RowAddmul(i int, j int, x realnum.Real) error {
	if s.inRowOp {
		return fmt.Errorf(
			"RowAddmul: a row operation on rows [%d,%d) is in progress", s.rowOpFirst, s.rowOpLast,
		)
	}
	if i < 0 || s.d <= i {
		return fmt.Errorf("RowAddmul: index i = %d outside range {0, ... %d}", i, s.d-1)
	}
	if j < 0 || s.d <= j {
		return fmt.Errorf("RowAddmul: index j = %d outside range {0, ... %d}", j, s.d-1)
	}
	if i == j {
		return fmt.Errorf("RowAddmul: rows i and j are both %d", i)
	}
	xi := x.RoundBigInt()
	if s.cfg.RowOpForceLong && !xi.IsInt64() {
		return fmt.Errorf(
			"RowAddmul: scalar %s does not fit in a machine integer (RowOpForceLong)", xi.String(),
		)
	}
	if s.cfg.EnableIntGram {
		// <b_i', b_i'> = <b_i, b_i> + 2x<b_i, b_j> + x^2 <b_j, b_j>,
		// computed first so it sees the old <b_i, b_j>
		var t big.Int
		gii := s.gramAt(i, i)
		t.Mul(xi, s.gramAt(i, j))
		gii.Add(gii, t.Lsh(&t, 1))
		t.Mul(xi, xi)
		t.Mul(&t, s.gramAt(j, j))
		gii.Add(gii, &t)
		// <b_i', b_k> = <b_i, b_k> + x<b_j, b_k> for k != i; row j's own
		// entries are untouched
		for k := 0; k < s.d; k++ {
			if k == i {
				continue
			}
			gik := s.gramAt(i, k)
			t.Mul(xi, s.gramAt(j, k))
			gik.Add(gik, &t)
		}
	}
	var err error
	if s.cfg.RowOpForceLong {
		err = s.b.AddmulRowInt64(i, j, xi.Int64())
	} else {
		err = s.b.AddmulRow(i, j, xi)
	}
	if err != nil {
		return fmt.Errorf("RowAddmul: could not combine basis rows: %q", err.Error())
	}
	if s.u != nil {
		if err = s.u.AddmulRow(i, j, xi); err != nil {
			return fmt.Errorf("RowAddmul: could not update the transform: %q", err.Error())
		}
	}
	if s.uInvT != nil {
		negXi := new(big.Int).Neg(xi)
		if err = s.uInvT.AddmulRow(j, i, negXi); err != nil {
			return fmt.Errorf("RowAddmul: could not update the inverse transform: %q", err.Error())
		}
	}
	if s.validRows > i {
		s.validRows = i
	}
	return nil
}

// RowOpBegin opens a bracket around direct edits to basis rows
// {first,...,last-1}. While the bracket is open, the State defers all
// invalidation bookkeeping and rejects its own mutation and update
// calls; the caller edits the rows through B() directly. Queries keep
// serving the pre-edit values until RowOpEnd marks the edited rows
// stale. Brackets do not nest.
//
// Callers that want the bracket released on every exit path should
// prefer BeginRowOp.
func (s *State) RowOpBegin(first int, last int) error {
	if s.inRowOp {
		return fmt.Errorf(
			"RowOpBegin: a row operation on rows [%d,%d) is already in progress", s.rowOpFirst, s.rowOpLast,
		)
	}
	if first < 0 || last < first || s.d < last {
		return fmt.Errorf(
			"RowOpBegin: range [%d,%d) is not within [0,%d]", first, last, s.d,
		)
	}
	s.inRowOp = true
	s.rowOpFirst = first
	s.rowOpLast = last
	return nil
}

// RowOpEnd closes the bracket opened by RowOpBegin with the same range,
// refreshes the Gram cache entries the edited rows touch, and marks the
// edited rows' GSO data stale. A mismatched range or a missing begin is
// reported without changing state.
func (s *State) RowOpEnd(first int, last int) error {
	if !s.inRowOp {
		return fmt.Errorf("RowOpEnd: no row operation is in progress")
	}
	if first != s.rowOpFirst || last != s.rowOpLast {
		return fmt.Errorf(
			"RowOpEnd: range [%d,%d) does not match the open bracket [%d,%d)",
			first, last, s.rowOpFirst, s.rowOpLast,
		)
	}
	if s.cfg.EnableIntGram {
		// Direct edits to row i invalidate <b_i, b_k> for every k, which
		// is row i of the triangle plus column i below it
		for i := 0; i < s.d; i++ {
			for j := 0; j <= i; j++ {
				if (first <= i && i < last) || (first <= j && j < last) {
					dot, err := intmatrix.DotProduct(s.b, s.b, i, j)
					if err != nil {
						return fmt.Errorf(
							"RowOpEnd: could not recompute <b_%d, b_%d>: %q", i, j, err.Error(),
						)
					}
					s.gram[gramIdx(i, j)] = dot
				}
			}
		}
	}
	s.inRowOp = false
	if s.validRows > first {
		s.validRows = first
	}
	return nil
}

// RowOp is a scoped handle for a RowOpBegin/RowOpEnd pair. End is
// idempotent, so deferring it guarantees the bracket closes on every
// exit path.
type RowOp struct {
	s     *State
	first int
	last  int
	done  bool
}

// BeginRowOp opens a row-operation bracket and returns a handle whose
// End closes it:
//
//	op, err := s.BeginRowOp(first, last)
//	if err != nil { ... }
//	defer op.End()
func (s *State) BeginRowOp(first int, last int) (*RowOp, error) {
	if err := s.RowOpBegin(first, last); err != nil {
		return nil, fmt.Errorf("BeginRowOp: %q", err.Error())
	}
	return &RowOp{s: s, first: first, last: last}, nil
}

// End closes the bracket. Calls after the first return nil and do
// nothing.
func (ro *RowOp) End() error {
	if ro.done {
		return nil
	}
	ro.done = true
	return ro.s.RowOpEnd(ro.first, ro.last)
}

func identityPerm(n int) []int {
	retVal := make([]int, n)
	for i := range retVal {
		retVal[i] = i
	}
	return retVal
}

// permuteGram rebuilds the Gram triangle under perm, where perm[new] is
// the old index of the row now at position new.
func (s *State) permuteGram(perm []int) {
	newGram := make([]*big.Int, len(s.gram))
	for i := 0; i < s.d; i++ {
		for j := 0; j <= i; j++ {
			oi, oj := perm[i], perm[j]
			if oj > oi {
				oi, oj = oj, oi
			}
			newGram[gramIdx(i, j)] = s.gram[gramIdx(oi, oj)]
		}
	}
	s.gram = newGram
}

func min(x, y int) int {
	if x < y {
		return x
	}
	return y
}
