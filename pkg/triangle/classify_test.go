package triangle

import (
	"math"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c string
		want    Label
	}{
		// Parse failures
		{name: "non-numeric first side", a: "x", b: "3", c: "4", want: LabelUnknownError},
		{name: "non-numeric second side", a: "3", b: "abc", c: "4", want: LabelUnknownError},
		{name: "non-numeric third side", a: "3", b: "4", c: "five", want: LabelUnknownError},
		{name: "empty side", a: "", b: "3", c: "4", want: LabelUnknownError},
		{name: "padded side", a: " 3", b: "4", c: "5", want: LabelUnknownError},
		{name: "decimal comma", a: "3,5", b: "4", c: "5", want: LabelUnknownError},
		{name: "out of range", a: "1e400", b: "1", c: "1", want: LabelUnknownError},

		// Positivity
		{name: "zero side", a: "0", b: "3", c: "4", want: LabelUnknownError},
		{name: "negative side", a: "3", b: "-4", c: "5", want: LabelUnknownError},
		{name: "negative zero", a: "-0", b: "3", c: "4", want: LabelUnknownError},
		{name: "all negative", a: "-1", b: "-1", c: "-1", want: LabelUnknownError},

		// Triangle inequality
		{name: "one long side", a: "1", b: "1", c: "10", want: LabelNotTriangle},
		{name: "degenerate a equals b plus c", a: "5", b: "2", c: "3", want: LabelNotTriangle},
		{name: "degenerate c equals a plus b", a: "2", b: "3", c: "5", want: LabelNotTriangle},
		{name: "infinite side", a: "inf", b: "1", c: "1", want: LabelNotTriangle},
		{name: "nan side", a: "NaN", b: "1", c: "1", want: LabelNotTriangle},

		// Valid triangles
		{name: "right triangle", a: "3", b: "4", c: "5", want: LabelSimple},
		{name: "decimal sides", a: "2.5", b: "3.5", c: "4.5", want: LabelSimple},
		{name: "isosceles first pair", a: "2", b: "2", c: "3", want: LabelIsosceles},
		{name: "isosceles outer pair", a: "2", b: "3", c: "2", want: LabelIsosceles},
		{name: "isosceles last pair", a: "3", b: "2", c: "2", want: LabelIsosceles},
		{name: "equilateral", a: "5", b: "5", c: "5", want: LabelEquilateral},
		{name: "equilateral mixed notation", a: "5", b: "5.0", c: "5e0", want: LabelEquilateral},
		{name: "signed positive", a: "+3", b: "4", c: "5", want: LabelSimple},
		{name: "exponent notation", a: "3e2", b: "4e2", c: "5e2", want: LabelSimple},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.a, tt.b, tt.c)
			if got != tt.want {
				t.Errorf("Classify(%q, %q, %q) = %q, want %q", tt.a, tt.b, tt.c, got, tt.want)
			}
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	inputs := [][3]string{
		{"3", "4", "5"},
		{"x", "1", "1"},
		{"2", "2", "3"},
		{"1", "1", "10"},
	}

	for _, in := range inputs {
		first := Classify(in[0], in[1], in[2])
		for i := 0; i < 100; i++ {
			if got := Classify(in[0], in[1], in[2]); got != first {
				t.Fatalf("Classify(%q) call %d = %q, first call returned %q", in, i, got, first)
			}
		}
	}
}

func TestClassifyExactEquality(t *testing.T) {
	// 0.1+0.2 is not exactly 0.3 in binary floating point.
	if got := Classify("0.3", "0.30000000000000004", "0.5"); got != LabelSimple {
		t.Errorf("nearly equal sides classified as %q, want %q", got, LabelSimple)
	}

	// Distinct texts that parse to the same float64 are equal.
	if got := Classify("0.1", "0.10000000000000001", "0.15"); got != LabelIsosceles {
		t.Errorf("identically parsed sides classified as %q, want %q", got, LabelIsosceles)
	}
}

func TestParseSide(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{input: "3", want: 3, wantOK: true},
		{input: "-2.5", want: -2.5, wantOK: true},
		{input: "1e3", want: 1000, wantOK: true},
		{input: "0x1p-2", want: 0.25, wantOK: true},
		{input: "abc", wantOK: false},
		{input: "", wantOK: false},
		{input: "1e400", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseSide(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseSide(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseSide(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassifySides(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c float64
		want    Label
	}{
		{name: "zero", a: 0, b: 1, c: 1, want: LabelUnknownError},
		{name: "negative", a: 1, b: 1, c: -1, want: LabelUnknownError},
		{name: "nan", a: math.NaN(), b: 1, c: 1, want: LabelNotTriangle},
		{name: "positive infinity", a: math.Inf(1), b: math.Inf(1), c: math.Inf(1), want: LabelNotTriangle},
		{name: "tiny valid", a: 1e-300, b: 1e-300, c: 1e-300, want: LabelEquilateral},
		{name: "scalene", a: 4, b: 5, c: 6, want: LabelSimple},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifySides(tt.a, tt.b, tt.c); got != tt.want {
				t.Errorf("ClassifySides(%v, %v, %v) = %q, want %q", tt.a, tt.b, tt.c, got, tt.want)
			}
		})
	}
}

func TestClassifyPermutationInvariant(t *testing.T) {
	sides := [][3]string{
		{"3", "4", "5"},
		{"2", "2", "3"},
		{"1", "2", "3"},
		{"7", "7", "7"},
	}

	for _, s := range sides {
		want := Classify(s[0], s[1], s[2])
		perms := [][3]string{
			{s[0], s[2], s[1]},
			{s[1], s[0], s[2]},
			{s[1], s[2], s[0]},
			{s[2], s[0], s[1]},
			{s[2], s[1], s[0]},
		}
		for _, p := range perms {
			if got := Classify(p[0], p[1], p[2]); got != want {
				t.Errorf("Classify(%q) = %q, want %q (same as %q)", p, got, want, s)
			}
		}
	}
}
