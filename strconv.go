// Copyright 2020 Aleksandr Demakin. All rights reserved.

package widefloat

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

type posError struct {
	pos int
	err string
}

func newPosError(err string, pos int) *posError {
	return &posError{err: err, pos: pos}
}

func (pe posError) Error() string {
	return pe.err + fmt.Sprintf(" at pos %d", pe.pos)
}

func addPosErrorOffset(err error, offset int) error {
	var pe *posError
	if !errors.As(err, &pe) { // try to locate error position.
		return err
	}
	pe.pos += offset
	return pe
}

// FromString parses a decimal string into a value.
// Scientific notation is accepted, and the decimal exponent may lie far
// beyond the float64 range, e.g. "1.5e-123456789".
func FromString(s string) (Value, error) {
	s, offset, err := prepareString(s)
	if err != nil {
		return Zero, err
	}
	v, err := parseDecimal(s)
	if err != nil {
		// add what we've trimmed before and add +1 to the offset to start indices from 1.
		return Zero, fmt.Errorf("parsing failed: %w", addPosErrorOffset(err, offset+1))
	}
	return v, nil
}

// MustFromString parses a string into a value, panics on errors.
func MustFromString(s string) Value {
	v, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// prepareString cleans the string from quotes and spaces.
func prepareString(s string) (prepared string, offset int, err error) {
	if len(s) == 0 {
		return "", 0, fmt.Errorf("empty input")
	}
	if s[0] == '"' {
		s = s[1:]
		offset++
	}
	if len(s) != 0 && s[len(s)-1] == '"' {
		s = s[:len(s)-1]
	}
	if trimmed := strings.TrimLeftFunc(s, unicode.IsSpace); len(trimmed) != len(s) {
		offset += len(s) - len(trimmed)
		s = trimmed
	}
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	if len(s) == 0 {
		return "", 0, fmt.Errorf("empty input")
	}
	return s, offset, nil
}

// parseDecimal splits the input at 'e', parses the mantissa as a float64,
// and folds the decimal exponent in through its base-2 image.
func parseDecimal(s string) (Value, error) {
	mantPart := s
	var d int64
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		var err error
		mantPart = s[:i]
		if d, err = strconv.ParseInt(s[i+1:], 10, 64); err != nil {
			return Zero, newPosError("error parsing exponent: "+err.Error(), i+1)
		}
	}
	f, err := strconv.ParseFloat(mantPart, 64)
	if err != nil {
		return Zero, newPosError("error parsing mantissa: "+err.Error(), 0)
	}
	p, err := pow10Value(d)
	if err != nil {
		return Zero, err
	}
	return FromFloat64(f).Mul(p), nil
}

// pow10Value returns 10^d as a value.
func pow10Value(d int64) (Value, error) {
	if d == 0 {
		return One, nil
	}
	e2 := float64(d) * log2Of10
	if e2 >= float64(maxExponent) || e2 <= float64(minExponent+1) {
		return Zero, errRange
	}
	fl := math.Floor(e2)
	return adjustMantExp(math.Exp2(e2-fl), expType(fl)), nil
}

// Text renders the value in base 10 as "<mantissa>e<exponent>" with 'digits'
// digits after the decimal point, or the shortest exact mantissa for a
// negative 'digits'.
// The base-10 exponent comes from log10(x) = log2(x) * log10(2), so the
// result is slightly less precise than the arithmetic operations.
func (v Value) Text(digits int) string {
	if v.IsZero() {
		return "0"
	}
	m, e := split(v)
	d := (float64(e) + math.Log2(math.Abs(m))) * log10Of2
	e10 := math.Floor(d)
	m10 := math.Pow(10, d-e10)
	if digits >= 0 {
		p := math.Pow10(digits)
		m10 = math.Round(m10*p) / p
		if m10 >= 10 { // rounding carried into the next decade
			m10 /= 10
			e10++
		}
	}
	if m < 0 {
		m10 = -m10
	}
	return strconv.FormatFloat(m10, 'f', digits, 64) + "e" + strconv.FormatInt(int64(e10), 10)
}

// String returns a string representation of the value
// with 8 digits after the decimal point.
func (v Value) String() string {
	return v.Text(8)
}

// GoString returns debug string representation.
func (v Value) GoString() string {
	m, e := split(v)
	return v.String() + fmt.Sprintf(" {%v, %v}", m, e)
}
