package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestSimpleProgressBasic(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(4)
	progress.Update(2)
	progress.Finish()

	output := buf.String()
	if !strings.Contains(output, "Cases:") {
		t.Errorf("output %q missing progress prefix", output)
	}
	if !strings.Contains(output, "(4/4)") {
		t.Errorf("output %q missing final count", output)
	}
}

func TestSimpleProgressZeroTotal(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(0)
	progress.Update(0)
	progress.Finish()

	if strings.Contains(buf.String(), "Cases:") {
		t.Errorf("zero total should not render a bar, got %q", buf.String())
	}
}

func TestSimpleProgressOvershoot(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(2)
	progress.Update(5)

	if !strings.Contains(buf.String(), "(2/2)") {
		t.Errorf("overshoot not clamped: %q", buf.String())
	}
}

func TestSimpleProgressError(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)
	progress.Error(errors.New("fixture unreadable"))

	if !strings.Contains(buf.String(), "fixture unreadable") {
		t.Errorf("error not reported: %q", buf.String())
	}
}
