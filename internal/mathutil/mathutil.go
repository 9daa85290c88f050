package mathutil

// cascadeSteps holds descending squared powers of two used by the
// range-reduction cascades. Hex float constants are exact, so the
// cascade is bit-for-bit doubling/halving with no transcendental calls.
var cascadeSteps = [...]struct {
	pow   float64 // 2^shift
	inv   float64 // 2^-shift
	shift int32
}{
	{0x1p512, 0x1p-512, 512},
	{0x1p256, 0x1p-256, 256},
	{0x1p128, 0x1p-128, 128},
	{0x1p64, 0x1p-64, 64},
	{0x1p32, 0x1p-32, 32},
	{0x1p16, 0x1p-16, 16},
	{0x1p8, 0x1p-8, 8},
	{0x1p4, 0x1p-4, 4},
	{0x1p2, 0x1p-2, 2},
	{0x1p1, 0x1p-1, 1},
}

var (
	invPow2Table = [...]float64{0x1p-32, 0x1p-16, 0x1p-8, 0x1p-4, 0x1p-2, 0x1p-1}
	invPow2Bits  = [...]int32{32, 16, 8, 4, 2, 1}
)

// Norm reduces a positive finite value to a mantissa in [1, 2) and a base-2
// exponent, so that a == mant * 2^exp.
// It bisects over the magnitude of the exponent with at most ten
// compare-and-multiply steps, which is both faster and exact where Log2
// loses precision near the ends of the float64 range.
func Norm(a float64) (mant float64, exp int32) {
	switch {
	case a >= 2:
		for i := range cascadeSteps {
			if a >= cascadeSteps[i].pow {
				a *= cascadeSteps[i].inv
				exp += cascadeSteps[i].shift
			}
		}
	case a < 1:
		if a < 0x1p-1024 {
			// 2^1024 is not a finite float64, climb in two exact steps.
			a *= 0x1p512
			a *= 0x1p512
			exp -= 1024
		}
		for i := range cascadeSteps {
			if a < cascadeSteps[i].inv {
				a *= cascadeSteps[i].pow
				exp -= cascadeSteps[i].shift
			}
		}
		// the cascade leaves a in [0.5, 1), one more doubling lands in [1, 2).
		a *= 2
		exp--
	}
	return a, exp
}

// Pow2Inv returns 2^-de for 0 <= de < 64 as a product of tabled
// reciprocal powers, one per set bit of de.
func Pow2Inv(de int32) float64 {
	r := 1.0
	for i, bit := range invPow2Bits {
		if de&bit != 0 {
			r *= invPow2Table[i]
		}
	}
	return r
}

// ShiftInv returns 2^-de for 0 <= de < 60.
// Native shifts are only portable up to a machine word, so the shift is
// capped at 30 bits and composed with an exact 2^30 multiply beyond that.
func ShiftInv(de int32) float64 {
	if de <= 30 {
		return 1 / float64(uint64(1)<<uint(de))
	}
	return 1 / (float64(uint64(1)<<uint(de-30)) * 0x1p30)
}
