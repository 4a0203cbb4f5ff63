package triangle

import "strconv"

// Classify returns the label for the three textual side lengths a, b and c.
// It is a pure function of its inputs.
func Classify(a, b, c string) Label {
	x, ok := ParseSide(a)
	if !ok {
		return LabelUnknownError
	}
	y, ok := ParseSide(b)
	if !ok {
		return LabelUnknownError
	}
	z, ok := ParseSide(c)
	if !ok {
		return LabelUnknownError
	}
	return ClassifySides(x, y, z)
}

// ParseSide parses s with strconv.ParseFloat. It reports false for any text
// ParseFloat rejects, including values outside the float64 range.
func ParseSide(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ClassifySides applies the positivity, triangle inequality and equality rules
// to already parsed side lengths.
func ClassifySides(a, b, c float64) Label {
	if a <= 0 || b <= 0 || c <= 0 {
		return LabelUnknownError
	}

	// NaN fails every comparison and therefore lands here.
	if !(a < b+c && b < a+c && c < a+b) {
		return LabelNotTriangle
	}

	switch {
	case a == b && b == c:
		return LabelEquilateral
	case a == b || a == c || b == c:
		return LabelIsosceles
	default:
		return LabelSimple
	}
}
