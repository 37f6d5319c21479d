// Copyright (c) 2023 Colin McRae

package gso

import (
	"fmt"

	"github.com/predrag3141/GSO/realnum"
)

// UpdateGSO brings mu and r up to date with the basis for every known
// row. Rows below the first stale row are untouched, so repeated calls
// with no intervening mutation leave every entry bit-identical.
//
// A zero or negative squared norm r[i][i] is numerical breakdown: an
// error is returned, rows {0,...,i-1} remain valid, and the caller may
// retry with a higher-precision backend or a different row order.
func (s *State) UpdateGSO() error {
	if s.inRowOp {
		return fmt.Errorf(
			"UpdateGSO: a row operation on rows [%d,%d) is in progress", s.rowOpFirst, s.rowOpLast,
		)
	}
	return s.updateRows(s.d)
}

// UpdateGSORow brings mu and r up to date through row i only, leaving
// later rows stale. Reduction algorithms working near the top of the
// basis use this to avoid paying for rows they are not reading.
func (s *State) UpdateGSORow(i int) error {
	if s.inRowOp {
		return fmt.Errorf(
			"UpdateGSORow: a row operation on rows [%d,%d) is in progress", s.rowOpFirst, s.rowOpLast,
		)
	}
	if i < 0 || s.d <= i {
		return fmt.Errorf("UpdateGSORow: index i = %d outside range {0, ... %d}", i, s.d-1)
	}
	return s.updateRows(i + 1)
}

// updateRows recomputes rows validRows,...,stop-1 in increasing order.
func (s *State) updateRows(stop int) error {
	for i := s.validRows; i < stop; i++ {
		if err := s.updateRow(i); err != nil {
			s.validRows = i
			return err
		}
	}
	if stop > s.validRows {
		s.validRows = stop
	}
	return nil
}

// updateRow recomputes mu[i] and r[i] from rows {0,...,i-1}, which must
// be current. For j < i in increasing order,
//
//	r[i][j] = <b_i, b_j> - sum over k < j of mu[j][k] r[i][k]
//	mu[i][j] = r[i][j] / r[j][j]
//
// and on the diagonal
//
//	r[i][i] = <b_i, b_i> - sum over k < i of mu[i][k] r[i][k]
//
// When row exponents are enabled, <b_i, b_j> enters the recursion scaled
// by 2^-(expo[i]+expo[j]). Every term of the recursion then carries the
// same implicit factor -- mu[j][k] r[i][k] has implicit exponent
// (expo[j]-expo[k]) + (expo[i]+expo[k]) = expo[i]+expo[j] -- so the
// stored values satisfy the recursion verbatim and exponents are
// combined only at conversion and query time.
func (s *State) updateRow(i int) error {
	s.expo[i] = 0
	if s.cfg.EnableRowExpo {
		maxBits, err := s.b.MaxRowBitLen(i)
		if err != nil {
			return fmt.Errorf("UpdateGSO: could not size row %d: %q", i, err.Error())
		}
		if excess := maxBits - int(s.factory.Prec()); excess > 0 {
			s.expo[i] = excess
		}
	}
	if s.mu[i] == nil || len(s.mu[i]) != i {
		s.mu[i] = s.newRow(i)
	}
	if s.r[i] == nil || len(s.r[i]) != i+1 {
		s.r[i] = s.newRow(i + 1)
	}
	t := s.factory.New()
	for j := 0; j <= i; j++ {
		dot, err := s.dot(i, j)
		if err != nil {
			return fmt.Errorf("UpdateGSO: could not compute <b_%d, b_%d>: %q", i, j, err.Error())
		}
		rij := s.r[i][j].SetBigIntExp(dot, -(s.expo[i] + s.expo[j]))
		if j < i {
			for k := 0; k < j; k++ {
				rij.Sub(rij, t.Mul(s.mu[j][k], s.r[i][k]))
			}
			if _, err = s.mu[i][j].Quo(rij, s.r[j][j]); err != nil {
				return fmt.Errorf("UpdateGSO: could not compute mu[%d][%d]: %q", i, j, err.Error())
			}
		} else {
			for k := 0; k < i; k++ {
				rij.Sub(rij, t.Mul(s.mu[i][k], s.r[i][k]))
			}
			if rij.Sign() <= 0 {
				return fmt.Errorf(
					"UpdateGSO: squared norm r[%d][%d] = %s is not positive", i, i, rij.String(),
				)
			}
		}
	}
	return nil
}

func (s *State) newRow(n int) []realnum.Real {
	retVal := make([]realnum.Real, n)
	for k := range retVal {
		retVal[k] = s.factory.New()
	}
	return retVal
}
