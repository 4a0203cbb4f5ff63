package triangle

import "fmt"

// Label is the result of classifying three side lengths.
type Label string

const (
	// LabelUnknownError is returned for unparseable or non-positive sides.
	LabelUnknownError Label = "unknown error"
	// LabelNotTriangle is returned when the sides fail the triangle inequality.
	LabelNotTriangle Label = "not triangle"
	// LabelEquilateral is returned when all three sides are equal.
	LabelEquilateral Label = "equilateral triangle"
	// LabelIsosceles is returned when exactly two sides are equal.
	LabelIsosceles Label = "isosceles triangle"
	// LabelSimple is returned for a valid triangle with three distinct sides.
	LabelSimple Label = "simple triangle"
)

var allLabels = []Label{
	LabelUnknownError,
	LabelNotTriangle,
	LabelEquilateral,
	LabelIsosceles,
	LabelSimple,
}

// Labels returns every label Classify can produce, in a stable order.
func Labels() []Label {
	out := make([]Label, len(allLabels))
	copy(out, allLabels)
	return out
}

// String implements fmt.Stringer.
func (l Label) String() string {
	return string(l)
}

// Valid reports whether l is one of the labels Classify can produce.
func (l Label) Valid() bool {
	for _, known := range allLabels {
		if l == known {
			return true
		}
	}
	return false
}

// IsTriangle reports whether l describes a valid triangle.
func (l Label) IsTriangle() bool {
	return l == LabelEquilateral || l == LabelIsosceles || l == LabelSimple
}

// ParseLabel converts s into a Label, rejecting anything outside the closed set.
func ParseLabel(s string) (Label, error) {
	l := Label(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown label %q", s)
	}
	return l, nil
}
