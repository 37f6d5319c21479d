// Copyright (c) 2023 Colin McRae

package gso

import (
	"fmt"
	"math"
	"math/big"
)

// checkPair validates a query index pair. maxJ is i for r/Gram queries
// and i-1 for mu queries. Stale rows fail loudly rather than returning a
// sentinel.
func (s *State) checkPair(caller string, i, j, maxJ int) error {
	if i < 0 || s.d <= i {
		return fmt.Errorf("%s: index i = %d outside range {0, ... %d}", caller, i, s.d-1)
	}
	if j < 0 || maxJ < j {
		return fmt.Errorf("%s: index j = %d outside range {0, ... %d}", caller, j, maxJ)
	}
	if s.validRows <= i {
		return fmt.Errorf("%s: row %d GSO data is stale; call UpdateGSO", caller, i)
	}
	return nil
}

// GetR returns r[i][j] = <b_i, b*_j> narrowed to a machine double, with
// the row exponents folded in. Requires 0 <= j <= i < d and row i
// current.
func (s *State) GetR(i int, j int) (float64, error) {
	if err := s.checkPair("GetR", i, j, i); err != nil {
		return 0, err
	}
	retVal := math.Ldexp(s.r[i][j].Float64(), s.expo[i]+s.expo[j])
	if math.IsInf(retVal, 0) {
		return 0, fmt.Errorf("GetR: r[%d][%d] is infinite as a float64", i, j)
	}
	return retVal, nil
}

// GetRExp returns f and e with r[i][j] = f 2^e. e is expo[i]+expo[j],
// which is 0 when exponent scaling is disabled. An error is returned
// when the stored mantissa itself does not fit in a machine double,
// which cannot happen with exponent scaling enabled.
func (s *State) GetRExp(i int, j int) (float64, int, error) {
	if err := s.checkPair("GetRExp", i, j, i); err != nil {
		return 0, 0, err
	}
	f := s.r[i][j].Float64()
	if math.IsInf(f, 0) {
		return 0, 0, fmt.Errorf("GetRExp: r[%d][%d] is infinite as a float64", i, j)
	}
	return f, s.expo[i] + s.expo[j], nil
}

// GetMu returns mu[i][j] = <b_i, b*_j> / |b*_j|^2 narrowed to a machine
// double, with the row exponents folded in. Requires 0 <= j < i < d and
// row i current.
func (s *State) GetMu(i int, j int) (float64, error) {
	if err := s.checkPair("GetMu", i, j, i-1); err != nil {
		return 0, err
	}
	retVal := math.Ldexp(s.mu[i][j].Float64(), s.expo[i]-s.expo[j])
	if math.IsInf(retVal, 0) {
		return 0, fmt.Errorf("GetMu: mu[%d][%d] is infinite as a float64", i, j)
	}
	return retVal, nil
}

// GetMuExp returns f and e with mu[i][j] = f 2^e. e is expo[i]-expo[j],
// which is 0 when exponent scaling is disabled. An error is returned
// when the stored mantissa itself does not fit in a machine double.
func (s *State) GetMuExp(i int, j int) (float64, int, error) {
	if err := s.checkPair("GetMuExp", i, j, i-1); err != nil {
		return 0, 0, err
	}
	f := s.mu[i][j].Float64()
	if math.IsInf(f, 0) {
		return 0, 0, fmt.Errorf("GetMuExp: mu[%d][%d] is infinite as a float64", i, j)
	}
	return f, s.expo[i] - s.expo[j], nil
}

// GetGram returns <b_i, b_j> narrowed to a machine double, from the
// cache when it is enabled and from the raw rows otherwise. Requires
// 0 <= j <= i < d.
func (s *State) GetGram(i int, j int) (float64, error) {
	if i < 0 || s.d <= i {
		return 0, fmt.Errorf("GetGram: index i = %d outside range {0, ... %d}", i, s.d-1)
	}
	if j < 0 || i < j {
		return 0, fmt.Errorf("GetGram: index j = %d outside range {0, ... %d}", j, i)
	}
	dot, err := s.dot(i, j)
	if err != nil {
		return 0, fmt.Errorf("GetGram: could not compute <b_%d, b_%d>: %q", i, j, err.Error())
	}
	retVal, _ := new(big.Float).SetInt(dot).Float64()
	if math.IsInf(retVal, 0) {
		return 0, fmt.Errorf("GetGram: <b_%d, b_%d> is infinite as a float64", i, j)
	}
	return retVal, nil
}

// logR returns the natural log of the true r[i][i], combining the stored
// mantissa with its base-2 exponents so the value never overflows on the
// way to the logarithm. Row i must be current.
func (s *State) logR(i int) float64 {
	m, e := s.r[i][i].Float64Exp()
	return math.Log(m) + float64(e+2*s.expo[i])*math.Ln2
}

// checkDiagRange validates a row range for the diagonal consumers and
// confirms the rows are current.
func (s *State) checkDiagRange(caller string, startRow, stopRow int) error {
	if startRow < 0 || stopRow < startRow || s.d < stopRow {
		return fmt.Errorf(
			"%s: range [%d,%d) is not within [0,%d]", caller, startRow, stopRow, s.d,
		)
	}
	if s.validRows < stopRow {
		return fmt.Errorf(
			"%s: rows {%d,...,%d} include stale GSO data; call UpdateGSO",
			caller, s.validRows, stopRow-1,
		)
	}
	return nil
}

// GetCurrentSlope returns the least-squares slope of ln(r[i][i]) over
// i in {startRow,...,stopRow-1}. A slope near zero indicates a balanced
// profile; reduction algorithms use it to decide whether to continue.
func (s *State) GetCurrentSlope(startRow int, stopRow int) (float64, error) {
	if err := s.checkDiagRange("GetCurrentSlope", startRow, stopRow); err != nil {
		return 0, err
	}
	n := stopRow - startRow
	if n < 2 {
		return 0, fmt.Errorf(
			"GetCurrentSlope: a slope needs at least 2 rows; range [%d,%d) has %d", startRow, stopRow, n,
		)
	}
	iMean := float64(n-1) / 2.0
	xMean := 0.0
	for i := startRow; i < stopRow; i++ {
		xMean += s.logR(i)
	}
	xMean /= float64(n)
	v1, v2 := 0.0, 0.0
	for i := 0; i < n; i++ {
		iDiff := float64(i) - iMean
		v1 += iDiff * (s.logR(startRow+i) - xMean)
		v2 += iDiff * iDiff
	}
	return v1 / v2, nil
}

// GetLogDet returns the natural log of the determinant of the Gram
// matrix of rows {startRow,...,stopRow-1}, which is the sum of
// ln(r[i][i]) over the range.
func (s *State) GetLogDet(startRow int, stopRow int) (float64, error) {
	if err := s.checkDiagRange("GetLogDet", startRow, stopRow); err != nil {
		return 0, err
	}
	retVal := 0.0
	for i := startRow; i < stopRow; i++ {
		retVal += s.logR(i)
	}
	return retVal, nil
}

// GetRootDet returns the determinant of the Gram matrix of rows
// {startRow,...,stopRow-1} raised to 1/(stopRow-startRow): the geometric
// mean of the r[i][i]. An error is returned when the result does not fit
// in a machine double.
func (s *State) GetRootDet(startRow int, stopRow int) (float64, error) {
	if err := s.checkDiagRange("GetRootDet", startRow, stopRow); err != nil {
		return 0, err
	}
	if stopRow == startRow {
		return 1.0, nil
	}
	logDet, err := s.GetLogDet(startRow, stopRow)
	if err != nil {
		return 0, fmt.Errorf("GetRootDet: %q", err.Error())
	}
	retVal := math.Exp(logDet / float64(stopRow-startRow))
	if math.IsInf(retVal, 0) {
		return 0, fmt.Errorf(
			"GetRootDet: root determinant of rows [%d,%d) is infinite as a float64", startRow, stopRow,
		)
	}
	return retVal, nil
}

// AdjustRadiusToGHBound tightens an enumeration radius maxDist 2^maxDistExpo
// (a squared length) to ghFactor times the Gaussian-heuristic estimate
// of the shortest vector of the sublattice spanned by rows
// {kappa,...,kappa+blockSize-1}:
//
//	gh^2 = ghFactor (Gamma(blockSize/2 + 1)^(2/blockSize) / pi) rootDet
//
// where rootDet is the block's Gram determinant to the 1/blockSize. The
// radius is replaced only when the estimate is smaller, and maxDistExpo
// is preserved on return so callers can compare radii directly.
func (s *State) AdjustRadiusToGHBound(
	maxDist float64, maxDistExpo int, kappa int, blockSize int, ghFactor float64,
) (float64, int, error) {
	if blockSize < 1 {
		return 0, 0, fmt.Errorf("AdjustRadiusToGHBound: block size %d < 1", blockSize)
	}
	if err := s.checkDiagRange("AdjustRadiusToGHBound", kappa, kappa+blockSize); err != nil {
		return 0, 0, err
	}
	if ghFactor <= 0 {
		return 0, 0, fmt.Errorf("AdjustRadiusToGHBound: ghFactor %v is not positive", ghFactor)
	}
	if maxDist < 0 {
		return 0, 0, fmt.Errorf("AdjustRadiusToGHBound: maxDist %v is negative", maxDist)
	}
	if maxDist == 0 {
		return maxDist, maxDistExpo, nil
	}

	// All of the arithmetic runs in base-2 logarithms so that blocks
	// whose determinant is far outside float64 range still compare
	sumLog2 := 0.0
	for i := kappa; i < kappa+blockSize; i++ {
		m, e := s.r[i][i].Float64Exp()
		sumLog2 += math.Log2(m) + float64(e+2*s.expo[i])
	}
	lg, _ := math.Lgamma(float64(blockSize)/2.0 + 1.0)
	ghLog2 := (2.0/float64(blockSize))*(lg/math.Ln2) - math.Log2(math.Pi) +
		sumLog2/float64(blockSize) + math.Log2(ghFactor)
	curLog2 := math.Log2(maxDist) + float64(maxDistExpo)
	if ghLog2 < curLog2 {
		maxDist = math.Exp2(ghLog2 - float64(maxDistExpo))
	}
	return maxDist, maxDistExpo, nil
}

// DumpR returns r[i][i] for i in {startRow,...,startRow+blockSize-1} as
// machine doubles, row exponents folded in. Enumeration callers consume
// the diagonal in this form.
func (s *State) DumpR(startRow int, blockSize int) ([]float64, error) {
	if blockSize < 0 {
		return nil, fmt.Errorf("DumpR: block size %d < 0", blockSize)
	}
	if err := s.checkDiagRange("DumpR", startRow, startRow+blockSize); err != nil {
		return nil, err
	}
	retVal := make([]float64, blockSize)
	for k := 0; k < blockSize; k++ {
		v, err := s.GetR(startRow+k, startRow+k)
		if err != nil {
			return nil, fmt.Errorf("DumpR: %q", err.Error())
		}
		retVal[k] = v
	}
	return retVal, nil
}

// DumpMu returns the blockSize x blockSize lower unitriangular block of
// mu starting at row and column startRow, flattened row-major: mu[i][j]
// below the diagonal, 1 on it, 0 above.
func (s *State) DumpMu(startRow int, blockSize int) ([]float64, error) {
	if blockSize < 0 {
		return nil, fmt.Errorf("DumpMu: block size %d < 0", blockSize)
	}
	if err := s.checkDiagRange("DumpMu", startRow, startRow+blockSize); err != nil {
		return nil, err
	}
	retVal := make([]float64, blockSize*blockSize)
	for a := 0; a < blockSize; a++ {
		retVal[a*blockSize+a] = 1.0
		for b := 0; b < a; b++ {
			v, err := s.GetMu(startRow+a, startRow+b)
			if err != nil {
				return nil, fmt.Errorf("DumpMu: %q", err.Error())
			}
			retVal[a*blockSize+b] = v
		}
	}
	return retVal, nil
}
