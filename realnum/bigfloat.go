// Copyright (c) 2023 Colin McRae

package realnum

import (
	"fmt"
	"math/big"
)

// mpReal carries the DoubleDouble, QuadDouble and Arbitrary backends: a
// big.Float whose mantissa width is fixed by the minting Factory (106,
// 212 or the caller's choice of bits). The three backends share this
// carrier because they differ only in that width; each Factory mints
// values of one width and the engine never mixes factories.
type mpReal struct {
	f big.Float
}

func asMP(x Real, op string) *mpReal {
	mp, ok := x.(*mpReal)
	if !ok {
		panic(fmt.Sprintf("realnum.%s: operand %s is not from an extended-precision backend", op, x.String()))
	}
	return mp
}

func (mp *mpReal) Copy() Real {
	c := &mpReal{}
	c.f.SetPrec(mp.f.Prec())
	c.f.Set(&mp.f)
	return c
}

func (mp *mpReal) Set(x Real) Real {
	mp.f.Set(&asMP(x, "Set").f)
	return mp
}

func (mp *mpReal) SetFloat64(x float64) Real {
	mp.f.SetFloat64(x)
	return mp
}

func (mp *mpReal) SetBigInt(x *big.Int) Real {
	mp.f.SetInt(x)
	return mp
}

func (mp *mpReal) SetBigIntExp(x *big.Int, e int) Real {
	mp.f.SetInt(x)
	if e != 0 && x.Sign() != 0 {
		mp.f.SetMantExp(&mp.f, e)
	}
	return mp
}

func (mp *mpReal) Add(x, y Real) Real {
	mp.f.Add(&asMP(x, "Add").f, &asMP(y, "Add").f)
	return mp
}

func (mp *mpReal) Sub(x, y Real) Real {
	mp.f.Sub(&asMP(x, "Sub").f, &asMP(y, "Sub").f)
	return mp
}

func (mp *mpReal) Mul(x, y Real) Real {
	mp.f.Mul(&asMP(x, "Mul").f, &asMP(y, "Mul").f)
	return mp
}

func (mp *mpReal) MulAdd(x, y Real) Real {
	var t big.Float
	t.SetPrec(mp.f.Prec())
	t.Mul(&asMP(x, "MulAdd").f, &asMP(y, "MulAdd").f)
	mp.f.Add(&mp.f, &t)
	return mp
}

func (mp *mpReal) Neg(x Real) Real {
	mp.f.Neg(&asMP(x, "Neg").f)
	return mp
}

func (mp *mpReal) Quo(x, y Real) (Real, error) {
	ymp := asMP(y, "Quo")
	if ymp.f.Sign() == 0 {
		return nil, fmt.Errorf("Quo: division by zero")
	}
	mp.f.Quo(&asMP(x, "Quo").f, &ymp.f)
	return mp, nil
}

func (mp *mpReal) Sqrt(x Real) (Real, error) {
	xmp := asMP(x, "Sqrt")
	if xmp.f.Sign() < 0 {
		return nil, fmt.Errorf("Sqrt: input %s was negative", xmp.f.String())
	}
	mp.f.Sqrt(&xmp.f)
	return mp, nil
}

func (mp *mpReal) Cmp(x Real) int {
	return mp.f.Cmp(&asMP(x, "Cmp").f)
}

func (mp *mpReal) Sign() int {
	return mp.f.Sign()
}

func (mp *mpReal) IsZero() bool {
	return mp.f.Sign() == 0
}

func (mp *mpReal) Float64() float64 {
	v, _ := mp.f.Float64()
	return v
}

func (mp *mpReal) Float64Exp() (float64, int) {
	if mp.f.Sign() == 0 {
		return 0, 0
	}
	var mant big.Float
	mant.SetPrec(mp.f.Prec())
	e := mp.f.MantExp(&mant)
	v, _ := mant.Float64()
	return v, e
}

func (mp *mpReal) RoundBigInt() *big.Int {
	var half, t big.Float
	half.SetFloat64(0.5)
	t.SetPrec(mp.f.Prec() + 1)
	if mp.f.Sign() < 0 {
		t.Sub(&mp.f, &half)
	} else {
		t.Add(&mp.f, &half)
	}
	retVal, _ := t.Int(nil)
	return retVal
}

func (mp *mpReal) String() string {
	return mp.f.String()
}
