// Copyright (c) 2023 Colin McRae

package realnum

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// machine is the fast fixed-precision backend, a native float64.
type machine float64

func asMachine(x Real, op string) *machine {
	m, ok := x.(*machine)
	if !ok {
		panic(fmt.Sprintf("realnum.%s: operand %s is not from the double backend", op, x.String()))
	}
	return m
}

func (d *machine) Copy() Real {
	c := *d
	return &c
}

func (d *machine) Set(x Real) Real {
	*d = *asMachine(x, "Set")
	return d
}

func (d *machine) SetFloat64(x float64) Real {
	*d = machine(x)
	return d
}

func (d *machine) SetBigInt(x *big.Int) Real {
	return d.SetBigIntExp(x, 0)
}

func (d *machine) SetBigIntExp(x *big.Int, e int) Real {
	if x.IsInt64() {
		*d = machine(math.Ldexp(float64(x.Int64()), e))
		return d
	}

	// x exceeds int64 range; scale through big.Float so that x 2^e with
	// a large x and a deeply negative e still narrows without overflow
	f := new(big.Float).SetInt(x)
	f.SetMantExp(f, e)
	v, _ := f.Float64()
	*d = machine(v)
	return d
}

func (d *machine) Add(x, y Real) Real {
	*d = *asMachine(x, "Add") + *asMachine(y, "Add")
	return d
}

func (d *machine) Sub(x, y Real) Real {
	*d = *asMachine(x, "Sub") - *asMachine(y, "Sub")
	return d
}

func (d *machine) Mul(x, y Real) Real {
	*d = *asMachine(x, "Mul") * *asMachine(y, "Mul")
	return d
}

func (d *machine) MulAdd(x, y Real) Real {
	*d += *asMachine(x, "MulAdd") * *asMachine(y, "MulAdd")
	return d
}

func (d *machine) Neg(x Real) Real {
	*d = -*asMachine(x, "Neg")
	return d
}

func (d *machine) Quo(x, y Real) (Real, error) {
	yd := *asMachine(y, "Quo")
	if yd == 0 {
		return nil, fmt.Errorf("Quo: division by zero")
	}
	*d = *asMachine(x, "Quo") / yd
	return d, nil
}

func (d *machine) Sqrt(x Real) (Real, error) {
	xd := *asMachine(x, "Sqrt")
	if xd < 0 {
		return nil, fmt.Errorf("Sqrt: input %v was negative", float64(xd))
	}
	*d = machine(math.Sqrt(float64(xd)))
	return d, nil
}

func (d *machine) Cmp(x Real) int {
	xd := *asMachine(x, "Cmp")
	if *d < xd {
		return -1
	}
	if *d > xd {
		return 1
	}
	return 0
}

func (d *machine) Sign() int {
	if *d < 0 {
		return -1
	}
	if *d > 0 {
		return 1
	}
	return 0
}

func (d *machine) IsZero() bool {
	return *d == 0
}

func (d *machine) Float64() float64 {
	return float64(*d)
}

func (d *machine) Float64Exp() (float64, int) {
	return math.Frexp(float64(*d))
}

func (d *machine) RoundBigInt() *big.Int {
	v := math.Round(float64(*d))
	if math.Abs(v) < float64(math.MaxInt64) {
		return big.NewInt(int64(v))
	}

	// The rounded value does not fit in an int64
	f := new(big.Float).SetFloat64(v)
	retVal, _ := f.Int(nil)
	return retVal
}

func (d *machine) String() string {
	return strconv.FormatFloat(float64(*d), 'g', -1, 64)
}
