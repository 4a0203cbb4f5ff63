package triangle

import "testing"

func TestLabelsClosedSet(t *testing.T) {
	labels := Labels()
	if len(labels) != 5 {
		t.Fatalf("len(Labels()) = %d, want 5", len(labels))
	}

	seen := make(map[Label]bool)
	for _, l := range labels {
		if seen[l] {
			t.Errorf("duplicate label %q", l)
		}
		seen[l] = true
		if !l.Valid() {
			t.Errorf("%q.Valid() = false", l)
		}
	}

	// Mutating the returned slice must not affect later callers.
	labels[0] = "tampered"
	if Labels()[0] != LabelUnknownError {
		t.Error("Labels() returned shared backing array")
	}
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		input   string
		want    Label
		wantErr bool
	}{
		{input: "simple triangle", want: LabelSimple},
		{input: "not triangle", want: LabelNotTriangle},
		{input: "unknown error", want: LabelUnknownError},
		{input: "Simple triangle", wantErr: true},
		{input: "triangle", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLabel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLabelIsTriangle(t *testing.T) {
	tests := map[Label]bool{
		LabelUnknownError: false,
		LabelNotTriangle:  false,
		LabelEquilateral:  true,
		LabelIsosceles:    true,
		LabelSimple:       true,
	}
	for l, want := range tests {
		if got := l.IsTriangle(); got != want {
			t.Errorf("%q.IsTriangle() = %v, want %v", l, got, want)
		}
	}
}
