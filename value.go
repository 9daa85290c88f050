// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package widefloat implements a floating-point number with a 32-bit base-2
// exponent and a float64 mantissa.
// It keeps the mantissa precision of a float64, but supports magnitudes
// from about 2^-2147483648 to 2^2147483647, which is useful for quantities
// that grow or shrink across hundreds of orders of magnitude.
package widefloat

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/avdva/widefloat/internal/mathutil"
)

var (
	// JSONMode defines the way all values are marshaled into json, see JSONMode* constants.
	// This variable is not thread-safe, so this should be changed on program start.
	JSONMode = JSONModeCompact
)

const (
	// JSONModeString produces values as strings, like `"1.50000000e30"`.
	JSONModeString = iota
	// JSONModeME marshals values with mantissa and exponent, like `{"m":1.5,"e":100}`.
	// This is the only lossless mode.
	JSONModeME
	// JSONModeCompact will choose the shortest form between JSONModeString and JSONModeME.
	JSONModeCompact
)

const (
	maxExponent = math.MaxInt32
	// minExponent doubles as the exponent of the canonical zero,
	// so that zero has exactly one representation.
	minExponent = math.MinInt32

	// addShiftLimit is the exponent gap beyond which the smaller operand
	// of a sum is below the 52-bit mantissa precision of the larger one.
	addShiftLimit = 64
	// proportionLimit is the exponent gap beyond which Proportion clamps to 0 or 1.
	proportionLimit = 60

	log2Of10 = 3.32192809488736234787
	log10Of2 = 0.30102999566398119521
)

var (
	jsonParts = []string{`{"m":`, `,"e":`, `}`}

	errRange = fmt.Errorf("value out of range")
)

type (
	number  = float64
	expType = int32
)

// Value is a floating-point number, stored as a mantissa and a base-2
// exponent, and representing mant * 2^exp.
// A value is always kept in the canonical form: either the mantissa is zero
// and the exponent is minExponent, or the mantissa's magnitude is in [1, 2).
// Values are immutable, every operation returns a new value, so they are
// safe to use from multiple goroutines.
// The behavior for not-a-number and infinite inputs, for exponent overflow,
// and for division by zero is undefined.
type Value struct {
	exp  expType
	mant number
}

var (
	// Zero is the canonical zero value.
	Zero = combine(0, minExponent)
	// One is the value 1.
	One = combine(1, 0)
)

func exp(v Value) expType {
	return v.exp
}

func mant(v Value) number {
	return v.mant
}

func split(v Value) (mantissa number, exponent expType) {
	return v.mant, v.exp
}

func combine(mant number, exp expType) Value {
	return Value{exp: exp, mant: mant}
}

// adjustMantExp brings a raw (mantissa, exponent) pair to the canonical form.
func adjustMantExp(m number, e expType) Value {
	if m == 0 {
		return Zero
	}
	a := math.Abs(m)
	if a < 1 || a >= 2 {
		var shift expType
		a, shift = mathutil.Norm(a)
		e += shift
	}
	if m < 0 {
		a = -a
	}
	return combine(a, e)
}

// FromMantAndExp returns a value for given mantissa and base-2 exponent.
// The pair is normalized, so a mantissa of any finite magnitude is accepted.
func FromMantAndExp(mant float64, exp int32) Value {
	return adjustMantExp(mant, exp)
}

// FromFloat64 returns a value for given float64 number.
func FromFloat64(f float64) Value {
	return adjustMantExp(f, 0)
}

// MantExp returns the mantissa and the base-2 exponent as is.
func (v Value) MantExp() (mant float64, exp int32) {
	return split(v)
}

// Float64 returns the value as a float64 number.
// Values outside of the float64 range become 0 or an infinity.
func (v Value) Float64() float64 {
	return math.Ldexp(mant(v), int(exp(v)))
}

// IsZero returns true if the value has zero mantissa.
func (v Value) IsZero() bool {
	return mant(v) == 0
}

// Sign returns -1, 0, or 1 for negative, zero, and positive values.
func (v Value) Sign() int {
	switch {
	case v.mant > 0:
		return 1
	case v.mant < 0:
		return -1
	}
	return 0
}

// Cmp compares two values.
// Returns -1 if v < other, 0 if v == other, 1 if v > other
func (v Value) Cmp(other Value) int {
	s1, s2 := v.Sign(), other.Sign()
	switch {
	case s1 > s2:
		return 1
	case s1 < s2:
		return -1
	case s1 == 0:
		return 0
	}
	// equal non-zero signs. a larger exponent wins for positive values,
	// and loses for negative ones.
	if e1, e2 := exp(v), exp(other); e1 != e2 {
		if (e1 > e2) == (s1 > 0) {
			return 1
		}
		return -1
	}
	switch m1, m2 := mant(v), mant(other); {
	case m1 > m2:
		return 1
	case m1 < m2:
		return -1
	}
	return 0
}

// Eq returns true if both values represent the same number.
func (v Value) Eq(other Value) bool {
	return v.Cmp(other) == 0
}

// Neg returns a value with the opposite sign.
func (v Value) Neg() Value {
	if v.IsZero() {
		return Zero
	}
	return combine(-mant(v), exp(v))
}

// Abs returns the absolute value.
func (v Value) Abs() Value {
	return combine(math.Abs(mant(v)), exp(v))
}

// Add sums two values.
func (v Value) Add(other Value) Value {
	// first, check for obvious cases, when one of the arguments is zero
	if v.IsZero() {
		return other
	}
	if other.IsZero() {
		return v
	}
	large, small := v, other
	if exp(large) < exp(small) {
		large, small = small, large
	}
	de := int64(exp(large)) - int64(exp(small))
	if de == 0 && math.Signbit(mant(large)) == math.Signbit(mant(small)) {
		// equal exponents and signs: the sum's magnitude is in [2, 4),
		// a single halving renormalizes it without the cascade.
		return combine((mant(large)+mant(small))*0.5, exp(large)+1)
	}
	if de >= addShiftLimit {
		// the smaller operand is beyond the mantissa's precision.
		return large
	}
	return adjustMantExp(mant(large)+mant(small)*mathutil.Pow2Inv(expType(de)), exp(large))
}

// Sub returns v - other.
func (v Value) Sub(other Value) Value {
	return v.Add(other.Neg())
}

// Mul multiplies two values.
func (v Value) Mul(other Value) Value {
	if v.IsZero() || other.IsZero() {
		return Zero
	}
	// both mantissas are in [1, 2), so the product's magnitude is in [1, 4),
	// and at most one halving renormalizes it.
	m := mant(v) * mant(other)
	e := exp(v) + exp(other)
	if m >= 2 || m <= -2 {
		m *= 0.5
		e++
	}
	return combine(m, e)
}

// MulFloat64 multiplies the value by an arbitrary finite float64 number.
func (v Value) MulFloat64(f float64) Value {
	m, e := split(v)
	if f > 1 || f < -1 {
		// pre-scale both factors, so that the product stays finite
		// even for mantissa-range scalars.
		f *= 0.5
		m *= 0.5
		e += 2
	}
	return adjustMantExp(m*f, e)
}

// Div returns v / other. If other is zero, the result is undefined.
func (v Value) Div(other Value) Value {
	// both mantissas are in [1, 2), so the quotient's magnitude is in (0.5, 2).
	return adjustMantExp(mant(v)/mant(other), exp(v)-exp(other))
}

// Proportion returns v / (v + other) as a float64 number in [0, 1] without
// building the sum, whose exponent could leave the supported range.
// Both values are expected to be non-negative.
// If both are zero, the result is undefined.
func (v Value) Proportion(other Value) float64 {
	de := int64(exp(v)) - int64(exp(other))
	switch {
	case de == 0:
		return mant(v) / (mant(v) + mant(other))
	case de >= proportionLimit:
		// other is below v's mantissa precision.
		return 1
	case de <= -proportionLimit:
		return 0
	case de > 0:
		return mant(v) / (mant(v) + mant(other)*mathutil.ShiftInv(expType(de)))
	}
	m := mant(v) * mathutil.ShiftInv(expType(-de))
	return m / (m + mant(other))
}

// MarshalJSON marshals value according to current JSONMode.
// See JSONMode and JSONMode* constants.
func (v Value) MarshalJSON() ([]byte, error) {
	return v.toJSON(JSONMode), nil
}

func (v Value) toJSON(mode int) []byte {
	switch mode {
	case JSONModeME:
		var builder strings.Builder
		builder.WriteString(jsonParts[0])
		builder.WriteString(strconv.FormatFloat(mant(v), 'g', -1, 64))
		builder.WriteString(jsonParts[1])
		builder.WriteString(strconv.FormatInt(int64(exp(v)), 10))
		builder.WriteString(jsonParts[2])
		return []byte(builder.String())
	case JSONModeCompact:
		str, me := v.toJSON(JSONModeString), v.toJSON(JSONModeME)
		if len(str) <= len(me) {
			return str
		}
		return me
	default: // marshal as a string
		return []byte(`"` + v.String() + `"`)
	}
}

// UnmarshalJSON unmarshals a string or an object into a value.
func (v *Value) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty json")
	}
	switch data[0] {
	case '{':
		d := struct {
			M number
			E expType
		}{}
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		*v = FromMantAndExp(d.M, d.E)
	default:
		value, err := FromString(string(data))
		if err != nil {
			return err
		}
		*v = value
	}
	return nil
}
