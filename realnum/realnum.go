// Copyright (c) 2023 Colin McRae

// Package realnum provides the floating point arithmetic used for
// Gram-Schmidt data. A Factory binds one of four precision backends at
// construction time:
//
// o Double, native float64 arithmetic (53-bit mantissa)
//
// o DoubleDouble, fixed 106-bit mantissa arithmetic
//
// o QuadDouble, fixed 212-bit mantissa arithmetic
//
// o Arbitrary, mantissa width chosen by the caller
//
// All values minted by one Factory share the backend for their lifetime.
// Operands of a binary operation must come from the same backend; mixing
// backends is a programming error and panics.
package realnum

import (
	"fmt"
	"math/big"
	"strings"
)

// FloatType selects a precision backend.
type FloatType int

const (
	Double FloatType = iota
	DoubleDouble
	QuadDouble
	Arbitrary
)

const (
	precDouble       = 53
	precDoubleDouble = 106
	precQuadDouble   = 212

	// DefaultArbitraryPrec is the mantissa width of the Arbitrary backend
	// when the caller does not choose one.
	DefaultArbitraryPrec = 300
)

// String returns the name ParseFloatType accepts for ft.
func (ft FloatType) String() string {
	switch ft {
	case Double:
		return "double"
	case DoubleDouble:
		return "dd"
	case QuadDouble:
		return "qd"
	case Arbitrary:
		return "arbitrary"
	}
	return fmt.Sprintf("FloatType(%d)", int(ft))
}

// ParseFloatType returns the FloatType named by s. Recognized names are
// "double", "dd", "qd" and "arbitrary".
func ParseFloatType(s string) (FloatType, error) {
	switch strings.ToLower(s) {
	case "double":
		return Double, nil
	case "dd":
		return DoubleDouble, nil
	case "qd":
		return QuadDouble, nil
	case "arbitrary":
		return Arbitrary, nil
	}
	return 0, fmt.Errorf("ParseFloatType: unrecognized float type %q", s)
}

// Real is a floating point value from one backend. Arithmetic methods
// mutate the receiver and return it, so calls chain the way math/big
// calls do. Quo and Sqrt return errors for zero divisors and negative
// inputs respectively.
type Real interface {
	// Copy returns a new Real from the same backend with the value of
	// the receiver.
	Copy() Real

	// Set sets the receiver to x and returns the receiver.
	Set(x Real) Real

	// SetFloat64 sets the receiver to x and returns the receiver.
	SetFloat64(x float64) Real

	// SetBigInt sets the receiver to x, rounded to the backend
	// precision, and returns the receiver.
	SetBigInt(x *big.Int) Real

	// SetBigIntExp sets the receiver to x 2^e, rounded to the backend
	// precision, and returns the receiver. The scaling is applied before
	// rounding, so values far outside float64 range are representable as
	// long as x 2^e is not.
	SetBigIntExp(x *big.Int, e int) Real

	Add(x, y Real) Real
	Sub(x, y Real) Real
	Mul(x, y Real) Real

	// MulAdd sets the receiver to itself plus x y and returns the
	// receiver. The receiver must be distinct from x and y.
	MulAdd(x, y Real) Real

	Neg(x Real) Real

	// Quo sets the receiver to x/y and returns the receiver. If y is
	// zero, an error is returned and the receiver is unchanged.
	Quo(x, y Real) (Real, error)

	// Sqrt sets the receiver to the square root of x and returns the
	// receiver. If x is negative, an error is returned and the receiver
	// is unchanged.
	Sqrt(x Real) (Real, error)

	Cmp(x Real) int
	Sign() int
	IsZero() bool

	// Float64 narrows the value to a machine double. The narrowing is
	// exact for the Double backend and rounds for the others. Values
	// outside float64 range narrow to infinities.
	Float64() float64

	// Float64Exp returns f and e with value = f 2^e and 0.5 <= |f| < 1,
	// or (0, 0) for a zero value. Unlike Float64, it does not overflow
	// for values outside float64 range.
	Float64Exp() (float64, int)

	// RoundBigInt returns the value rounded to the nearest integer,
	// half away from zero.
	RoundBigInt() *big.Int

	String() string
}

// Factory mints Real values for one backend.
type Factory struct {
	floatType FloatType
	prec      uint
}

// NewFactory returns a Factory for the backend ft. prec is the mantissa
// width in bits and is consulted only when ft is Arbitrary; 0 selects
// DefaultArbitraryPrec. An unrecognized ft is a configuration error.
func NewFactory(ft FloatType, prec uint) (*Factory, error) {
	switch ft {
	case Double:
		prec = precDouble
	case DoubleDouble:
		prec = precDoubleDouble
	case QuadDouble:
		prec = precQuadDouble
	case Arbitrary:
		if prec == 0 {
			prec = DefaultArbitraryPrec
		}
	default:
		return nil, fmt.Errorf("NewFactory: unrecognized float type %q", ft.String())
	}
	return &Factory{floatType: ft, prec: prec}, nil
}

// New returns a zero-valued Real from the factory's backend.
func (f *Factory) New() Real {
	if f.floatType == Double {
		d := machine(0)
		return &d
	}
	mp := &mpReal{}
	mp.f.SetPrec(f.prec)
	return mp
}

// NewFloat64 returns a Real from the factory's backend with the value x.
func (f *Factory) NewFloat64(x float64) Real {
	return f.New().SetFloat64(x)
}

// FloatType returns the backend the factory was constructed with.
func (f *Factory) FloatType() FloatType {
	return f.floatType
}

// Prec returns the backend mantissa width in bits.
func (f *Factory) Prec() uint {
	return f.prec
}
