package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"mercator-hq/trigon/pkg/cli"
	"mercator-hq/trigon/pkg/fixture"
)

const mixedFixture = `3 4 5 simple triangle
2 2 2 isosceles triangle
1 2 3 not triangle
`

func TestTestCommand_Lines(t *testing.T) {
	out, err := execute(t, testConfig(t), "test")
	if err != nil {
		t.Fatalf("test returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want 10:\n%s", len(lines), out)
	}
	for i, line := range lines {
		if line != "success" {
			t.Errorf("line %d = %q, want success", i+1, line)
		}
	}
}

func TestTestCommand_LinesWithFailuresExitsZero(t *testing.T) {
	path := writeFixture(t, mixedFixture)

	out, err := execute(t, testConfig(t), "test", path)
	if err != nil {
		t.Fatalf("lines output should not fail: %v", err)
	}
	if out != "success\nerror\nsuccess\n" {
		t.Errorf("output = %q", out)
	}
}

func TestTestCommand_JSONWithFailures(t *testing.T) {
	path := writeFixture(t, mixedFixture)

	out, err := execute(t, testConfig(t), "test", path, "-o", "json")
	if !errors.Is(err, ErrCasesFailed) {
		t.Fatalf("err = %v, want ErrCasesFailed", err)
	}
	if code := cli.ExitCode(err); code != cli.ExitFailure {
		t.Errorf("exit code = %d, want %d", code, cli.ExitFailure)
	}

	var report fixture.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if report.Total != 3 || report.Failed != 1 {
		t.Errorf("report = %d total, %d failed; want 3, 1", report.Total, report.Failed)
	}
	if report.Results[1].Actual != "equilateral triangle" {
		t.Errorf("actual = %q, want equilateral triangle", report.Results[1].Actual)
	}
}

func TestTestCommand_CSV(t *testing.T) {
	out, err := execute(t, testConfig(t), "test", "-o", "csv")
	if err != nil {
		t.Fatalf("test returned error: %v", err)
	}
	if !strings.HasPrefix(out, "line,args,expected,actual,outcome\n") {
		t.Errorf("missing CSV header:\n%s", out)
	}
	if !strings.Contains(out, "1,3 4 5,simple triangle,simple triangle,success") {
		t.Errorf("missing first row:\n%s", out)
	}
}

func TestTestCommand_Exec(t *testing.T) {
	t.Setenv("TRIGON_WANT_HELPER_PROCESS", "1")
	path := writeFixture(t, mixedFixture)

	out, err := execute(t, testConfig(t), "test", path, "--exec", testBinary(t))
	if err != nil {
		t.Fatalf("test --exec returned error: %v", err)
	}
	if out != "success\nerror\nsuccess\n" {
		t.Errorf("output = %q", out)
	}
}

func TestTestCommand_ExecMissingBinary(t *testing.T) {
	path := writeFixture(t, "3 4 5 simple triangle\n")

	out, err := execute(t, testConfig(t), "test", path, "--exec", "/nonexistent/triangle")
	if err != nil {
		t.Fatalf("test returned error: %v", err)
	}
	if out != "error\n" {
		t.Errorf("output = %q, want error", out)
	}
}

func TestTestCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		fixture  string
		args     []string
		wantCode int
	}{
		{"missing file", "", []string{"/nonexistent/cases.txt"}, cli.ExitFailure},
		{"too few tokens", "3\n", nil, cli.ExitFailure},
		{"unknown label with strict", "3 4 5 right triangle\n", []string{"--strict"}, cli.ExitFailure},
		{"bad output format", "3 4 5 simple triangle\n", []string{"-o", "xml"}, cli.ExitConfigError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"test"}, tt.args...)
			if tt.fixture != "" {
				args = append(args, writeFixture(t, tt.fixture))
			}

			_, err := execute(t, testConfig(t), args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if code := cli.ExitCode(err); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (err: %v)", code, tt.wantCode, err)
			}
		})
	}
}
