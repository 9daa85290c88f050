// Copyright 2020 Aleksandr Demakin. All rights reserved.

package widefloat

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// finiteOrZero coerces not-a-number and infinite outcomes to a shared
// fallback, so that both sides of a comparison degrade the same way.
func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func randFloat(rnd *rand.Rand) float64 {
	f := math.Ldexp(1+rnd.Float64(), rnd.Intn(600)-300)
	if rnd.Intn(2) == 0 {
		f = -f
	}
	return f
}

// TestFloat64Agreement drives random inputs through the kernel and through
// plain float64 arithmetic, and checks that the results agree to 8 decimal
// digits while the reference stays in the float64 range.
func TestFloat64Agreement(t *testing.T) {
	a := assert.New(t)
	ops := []struct {
		name string
		ref  func(x, y float64) float64
		op   func(x, y Value) Value
	}{
		{"add", func(x, y float64) float64 { return x + y }, func(x, y Value) Value { return x.Add(y) }},
		{"sub", func(x, y float64) float64 { return x - y }, func(x, y Value) Value { return x.Sub(y) }},
		{"mul", func(x, y float64) float64 { return x * y }, func(x, y Value) Value { return x.Mul(y) }},
		{"div", func(x, y float64) float64 { return x / y }, func(x, y Value) Value { return x.Div(y) }},
	}
	rnd := newRand()
	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			for i := 0; i < 10000; i++ {
				x, y := randFloat(rnd), randFloat(rnd)
				ref := finiteOrZero(op.ref(x, y))
				got := finiteOrZero(op.op(FromFloat64(x), FromFloat64(y)).Float64())
				if ref == 0 {
					a.InDelta(ref, got, 1e-300, "%s(%v, %v)", op.name, x, y)
				} else {
					a.InEpsilon(ref, got, 1e-8, "%s(%v, %v)", op.name, x, y)
				}
			}
		})
	}
}

func TestMulFloat64Agreement(t *testing.T) {
	a := assert.New(t)
	rnd := newRand()
	for i := 0; i < 10000; i++ {
		x, f := randFloat(rnd), randFloat(rnd)
		ref := finiteOrZero(x * f)
		got := finiteOrZero(FromFloat64(x).MulFloat64(f).Float64())
		if ref == 0 {
			a.InDelta(ref, got, 1e-300)
		} else {
			a.InEpsilon(ref, got, 1e-8, "%v * %v", x, f)
		}
	}
}

func TestProportionAgreement(t *testing.T) {
	a := assert.New(t)
	rnd := newRand()
	for i := 0; i < 10000; i++ {
		x, y := math.Abs(randFloat(rnd)), math.Abs(randFloat(rnd))
		ref := x / (x + y)
		got := FromFloat64(x).Proportion(FromFloat64(y))
		if ref == 0 {
			a.InDelta(ref, got, 1e-300)
		} else {
			a.InEpsilon(ref, got, 1e-8, "%v, %v", x, y)
		}
	}
}

// TestCanonicalAcrossOps checks that every operation keeps its result in the
// canonical form.
func TestCanonicalAcrossOps(t *testing.T) {
	a := assert.New(t)
	rnd := newRand()
	check := func(v Value) {
		m, _ := v.MantExp()
		if m == 0 {
			a.Equal(Zero, v)
			return
		}
		abs := math.Abs(m)
		a.True(abs >= 1 && abs < 2, "mantissa %v out of range", m)
	}
	for i := 0; i < 10000; i++ {
		x, y := randValue(rnd, 1000000), randValue(rnd, 1000000)
		check(x.Add(y))
		check(x.Sub(y))
		check(x.Mul(y))
		check(x.Div(y))
		check(x.MulFloat64(randFloat(rnd)))
		check(x.Neg())
		check(x.Abs())
	}
}
