// Package triangle classifies a triangle from three textual side lengths.
//
// # Classification
//
// Classify applies the following rules in order and returns the first label
// that applies:
//
//  1. Any side that does not parse as a float64 yields LabelUnknownError.
//  2. Any side that is zero or negative yields LabelUnknownError.
//  3. Sides that fail the strict triangle inequality yield LabelNotTriangle.
//  4. Three equal sides yield LabelEquilateral.
//  5. Exactly two equal sides yield LabelIsosceles.
//  6. Anything else yields LabelSimple.
//
// Equality is exact float64 equality. Inputs such as "0.1" and "0.10000000000000001"
// parse to the same value and therefore compare equal, while values that only
// look equal after rounding do not.
//
// # Usage
//
//	label := triangle.Classify("3", "4", "5")
//	fmt.Println(label) // simple triangle
//
// Classify never returns an error and never panics: every invalid input is
// reported through the label itself.
package triangle
