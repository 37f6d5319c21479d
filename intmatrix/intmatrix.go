// Copyright (c) 2023 Colin McRae

// Package intmatrix represents a matrix of arbitrary-precision integers,
// stored row-major, with the row operations lattice basis and transform
// matrices need: append, remove, relocate, swap and integer row
// combinations.
package intmatrix

import (
	"fmt"
	"math/big"
	"strings"
)

type Matrix struct {
	values  []*big.Int
	numRows int
	numCols int
}

// NewEmpty returns a numRows x numCols matrix with 0s in each value.
// numRows may be 0 (rows are appended later); numCols must be positive.
func NewEmpty(numRows int, numCols int) (*Matrix, error) {
	if numRows < 0 || numCols <= 0 {
		return nil, fmt.Errorf(
			"Matrix.NewEmpty: illegal number of rows %d or columns %d", numRows, numCols,
		)
	}
	retVal := &Matrix{
		values:  make([]*big.Int, numRows*numCols),
		numRows: numRows,
		numCols: numCols,
	}
	for i := 0; i < numRows*numCols; i++ {
		retVal.values[i] = big.NewInt(0)
	}
	return retVal, nil
}

// NewFromInt64Array creates a matrix from input with dimensions
// numRowsIn x numColsIn. If the number of rows and columns do not match
// the length of the input, an error is returned.
func NewFromInt64Array(input []int64, numRowsIn int, numColsIn int) (*Matrix, error) {
	if len(input) != numRowsIn*numColsIn {
		return nil, fmt.Errorf("Matrix.NewFromInt64Array: length of input does not match dimensions")
	}
	retVal, err := NewEmpty(numRowsIn, numColsIn)
	if err != nil {
		return nil, fmt.Errorf("Matrix.NewFromInt64Array: %q", err.Error())
	}
	for index, value := range input {
		retVal.values[index].SetInt64(value)
	}
	return retVal, nil
}

// NewIdentity returns a dim x dim identity matrix. If dim < 1, an error
// is returned.
func NewIdentity(dim int) (*Matrix, error) {
	if dim < 1 {
		return nil, fmt.Errorf("Matrix.NewIdentity: dimension %d < 1", dim)
	}
	retVal, err := NewEmpty(dim, dim)
	if err != nil {
		return nil, fmt.Errorf("Matrix.NewIdentity: %q", err.Error())
	}
	for i := 0; i < dim; i++ {
		retVal.values[i*dim+i].SetInt64(1)
	}
	return retVal, nil
}

// Get returns the pointer to the value in row i, column j. This is not a
// deep copy.
func (m *Matrix) Get(i int, j int) (*big.Int, error) {
	if i < 0 || m.numRows <= i {
		return nil, fmt.Errorf("Matrix.Get: index i = %d outside range {0, ... %d}", i, m.numRows-1)
	}
	if j < 0 || m.numCols <= j {
		return nil, fmt.Errorf("Matrix.Get: index j = %d outside range {0, ... %d}", j, m.numCols-1)
	}
	return m.values[i*m.numCols+j], nil
}

// Set sets the value in row i, column j to x. This is a deep copy.
func (m *Matrix) Set(i int, j int, x *big.Int) error {
	if i < 0 || m.numRows <= i {
		return fmt.Errorf("Matrix.Set: index i = %d outside range {0, ... %d}", i, m.numRows-1)
	}
	if j < 0 || m.numCols <= j {
		return fmt.Errorf("Matrix.Set: index j = %d outside range {0, ... %d}", j, m.numCols-1)
	}
	m.values[i*m.numCols+j].Set(x)
	return nil
}

// SetInt64 sets the value in row i, column j to x.
func (m *Matrix) SetInt64(i int, j int, x int64) error {
	return m.Set(i, j, big.NewInt(x))
}

// Copy copies x to m and returns m. This is a deep copy.
func (m *Matrix) Copy(x *Matrix) *Matrix {
	m.numRows = x.numRows
	m.numCols = x.numCols
	m.values = make([]*big.Int, len(x.values))
	for i := range x.values {
		m.values[i] = new(big.Int).Set(x.values[i])
	}
	return m
}

// Equals reports whether m and x have the same dimensions and equal
// corresponding entries.
func (m *Matrix) Equals(x *Matrix) bool {
	if m.numRows != x.numRows || m.numCols != x.numCols {
		return false
	}
	for i := range m.values {
		if m.values[i].Cmp(x.values[i]) != 0 {
			return false
		}
	}
	return true
}

// Dimensions returns the number of rows and columns in m, in that order.
func (m *Matrix) Dimensions() (int, int) {
	return m.numRows, m.numCols
}

// NumRows returns the number of rows in m
func (m *Matrix) NumRows() int {
	return m.numRows
}

// NumCols returns the number of columns in m
func (m *Matrix) NumCols() int {
	return m.numCols
}

// AppendZeroRow grows m by one row of 0s.
func (m *Matrix) AppendZeroRow() {
	for j := 0; j < m.numCols; j++ {
		m.values = append(m.values, big.NewInt(0))
	}
	m.numRows++
}

// AppendZeroColumn grows m by one column of 0s.
func (m *Matrix) AppendZeroColumn() {
	newValues := make([]*big.Int, m.numRows*(m.numCols+1))
	for i := 0; i < m.numRows; i++ {
		copy(newValues[i*(m.numCols+1):], m.values[i*m.numCols:(i+1)*m.numCols])
		newValues[i*(m.numCols+1)+m.numCols] = big.NewInt(0)
	}
	m.values = newValues
	m.numCols++
}

// RemoveLastRow shrinks m by one row. If m has no rows, an error is
// returned.
func (m *Matrix) RemoveLastRow() error {
	if m.numRows == 0 {
		return fmt.Errorf("Matrix.RemoveLastRow: matrix has no rows")
	}
	m.numRows--
	m.values = m.values[:m.numRows*m.numCols]
	return nil
}

// RemoveLastColumn shrinks m by one column. If m has one column or
// fewer, an error is returned.
func (m *Matrix) RemoveLastColumn() error {
	if m.numCols <= 1 {
		return fmt.Errorf("Matrix.RemoveLastColumn: matrix has %d columns", m.numCols)
	}
	newValues := make([]*big.Int, m.numRows*(m.numCols-1))
	for i := 0; i < m.numRows; i++ {
		copy(newValues[i*(m.numCols-1):], m.values[i*m.numCols:i*m.numCols+m.numCols-1])
	}
	m.values = newValues
	m.numCols--
	return nil
}

// RotateRow relocates row oldR to position newR, shifting the rows
// between them by one. Rows outside {min(oldR,newR),...,max(oldR,newR)}
// are untouched.
func (m *Matrix) RotateRow(oldR int, newR int) error {
	if oldR < 0 || m.numRows <= oldR {
		return fmt.Errorf("Matrix.RotateRow: index oldR = %d outside range {0, ... %d}", oldR, m.numRows-1)
	}
	if newR < 0 || m.numRows <= newR {
		return fmt.Errorf("Matrix.RotateRow: index newR = %d outside range {0, ... %d}", newR, m.numRows-1)
	}
	if oldR == newR {
		return nil
	}
	moved := make([]*big.Int, m.numCols)
	copy(moved, m.values[oldR*m.numCols:(oldR+1)*m.numCols])
	if oldR < newR {
		// Rows oldR+1,...,newR shift up by one
		copy(m.values[oldR*m.numCols:newR*m.numCols], m.values[(oldR+1)*m.numCols:(newR+1)*m.numCols])
	} else {
		// Rows newR,...,oldR-1 shift down by one
		copy(m.values[(newR+1)*m.numCols:(oldR+1)*m.numCols], m.values[newR*m.numCols:oldR*m.numCols])
	}
	copy(m.values[newR*m.numCols:(newR+1)*m.numCols], moved)
	return nil
}

// SwapRows exchanges rows r0 and r1.
func (m *Matrix) SwapRows(r0 int, r1 int) error {
	if r0 < 0 || m.numRows <= r0 {
		return fmt.Errorf("Matrix.SwapRows: index r0 = %d outside range {0, ... %d}", r0, m.numRows-1)
	}
	if r1 < 0 || m.numRows <= r1 {
		return fmt.Errorf("Matrix.SwapRows: index r1 = %d outside range {0, ... %d}", r1, m.numRows-1)
	}
	if r0 == r1 {
		return nil
	}
	for k := 0; k < m.numCols; k++ {
		m.values[r0*m.numCols+k], m.values[r1*m.numCols+k] =
			m.values[r1*m.numCols+k], m.values[r0*m.numCols+k]
	}
	return nil
}

// AddmulRow adds x times row j to row i.
func (m *Matrix) AddmulRow(i int, j int, x *big.Int) error {
	if i < 0 || m.numRows <= i {
		return fmt.Errorf("Matrix.AddmulRow: index i = %d outside range {0, ... %d}", i, m.numRows-1)
	}
	if j < 0 || m.numRows <= j {
		return fmt.Errorf("Matrix.AddmulRow: index j = %d outside range {0, ... %d}", j, m.numRows-1)
	}
	if i == j {
		return fmt.Errorf("Matrix.AddmulRow: rows i and j are both %d", i)
	}
	var t big.Int
	for k := 0; k < m.numCols; k++ {
		t.Mul(x, m.values[j*m.numCols+k])
		m.values[i*m.numCols+k].Add(m.values[i*m.numCols+k], &t)
	}
	return nil
}

// AddmulRowInt64 adds x times row j to row i, with x held in a machine
// integer.
func (m *Matrix) AddmulRowInt64(i int, j int, x int64) error {
	return m.AddmulRow(i, j, big.NewInt(x))
}

// MaxRowBitLen returns the largest bit length of the entries in row r,
// or 0 for a zero row.
func (m *Matrix) MaxRowBitLen(r int) (int, error) {
	if r < 0 || m.numRows <= r {
		return 0, fmt.Errorf("Matrix.MaxRowBitLen: index r = %d outside range {0, ... %d}", r, m.numRows-1)
	}
	retVal := 0
	for k := 0; k < m.numCols; k++ {
		if bl := m.values[r*m.numCols+k].BitLen(); bl > retVal {
			retVal = bl
		}
	}
	return retVal, nil
}

// MaxBitLen returns the largest bit length of the entries in m.
func (m *Matrix) MaxBitLen() int {
	retVal := 0
	for i := range m.values {
		if bl := m.values[i].BitLen(); bl > retVal {
			retVal = bl
		}
	}
	return retVal
}

// DotProduct returns the exact inner product of row xRow of x and row
// yRow of y. The column counts of x and y must match.
func DotProduct(x *Matrix, y *Matrix, xRow int, yRow int) (*big.Int, error) {
	if x.numCols != y.numCols {
		return nil, fmt.Errorf(
			"DotProduct: mismatched column counts %d and %d", x.numCols, y.numCols,
		)
	}
	if xRow < 0 || x.numRows <= xRow {
		return nil, fmt.Errorf("DotProduct: index xRow = %d outside range {0, ... %d}", xRow, x.numRows-1)
	}
	if yRow < 0 || y.numRows <= yRow {
		return nil, fmt.Errorf("DotProduct: index yRow = %d outside range {0, ... %d}", yRow, y.numRows-1)
	}
	retVal := big.NewInt(0)
	var t big.Int
	for k := 0; k < x.numCols; k++ {
		t.Mul(x.values[xRow*x.numCols+k], y.values[yRow*y.numCols+k])
		retVal.Add(retVal, &t)
	}
	return retVal, nil
}

// String returns a string representing m with rows separated by newlines.
func (m *Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.numRows; i++ {
		for j := 0; j < m.numCols; j++ {
			sb.WriteString(fmt.Sprintf("%s, ", m.values[i*m.numCols+j].String()))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
