package main

import (
	"encoding/csv"
	"strings"
	"testing"
)

// recordRuns records one passing and one failing run and returns the
// list output rows, header excluded.
func recordRuns(t *testing.T) [][]string {
	t.Helper()

	cfg := testConfig(t)
	failing := writeFixture(t, mixedFixture)

	if _, err := execute(t, cfg, "test", "--record"); err != nil {
		t.Fatalf("test --record returned error: %v", err)
	}
	if _, err := execute(t, cfg, "test", "--record", failing); err != nil {
		t.Fatalf("test --record returned error: %v", err)
	}

	out, err := execute(t, cfg, "history", "list")
	if err != nil {
		t.Fatalf("history list returned error: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("list output is not CSV: %v\n%s", err, out)
	}
	if len(records) == 0 || records[0][0] != "id" {
		t.Fatalf("missing CSV header:\n%s", out)
	}
	return records[1:]
}

func TestHistoryList(t *testing.T) {
	rows := recordRuns(t)
	if len(rows) != 2 {
		t.Fatalf("listed %d runs, want 2", len(rows))
	}

	totals := map[string]bool{}
	for _, row := range rows {
		totals[row[4]+"/"+row[6]] = true
	}
	if !totals["10/0"] || !totals["3/1"] {
		t.Errorf("unexpected totals: %v", rows)
	}
}

func TestHistoryList_Failed(t *testing.T) {
	cfg := testConfig(t)
	if _, err := execute(t, cfg, "test", "--record"); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, cfg, "test", "--record", writeFixture(t, mixedFixture)); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, cfg, "history", "list", "--failed")
	if err != nil {
		t.Fatalf("history list --failed returned error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header and one run:\n%s", len(lines), out)
	}
	if !strings.HasSuffix(lines[1], ",3,2,1") {
		t.Errorf("row = %q, want the failing run", lines[1])
	}
}

func TestHistoryShow(t *testing.T) {
	cfg := testConfig(t)
	if _, err := execute(t, cfg, "test", "--record", writeFixture(t, mixedFixture)); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, cfg, "history", "list")
	if err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil || len(records) != 2 {
		t.Fatalf("unexpected list output (err %v):\n%s", err, out)
	}
	id := records[1][0]

	out, err = execute(t, cfg, "history", "show", id)
	if err != nil {
		t.Fatalf("history show returned error: %v", err)
	}
	for _, want := range []string{"Run:      " + id, "2 passed, 1 failed of 3", "2 2 2 -> equilateral triangle (expected isosceles triangle)"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, cfg, "history", "show", id, "-o", "csv")
	if err != nil {
		t.Fatalf("history show -o csv returned error: %v", err)
	}
	if !strings.HasPrefix(out, "line,args,expected,actual,outcome\n") {
		t.Errorf("missing CSV header:\n%s", out)
	}
}

func TestHistoryShow_NotFound(t *testing.T) {
	_, err := execute(t, testConfig(t), "history", "show", "does-not-exist")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestHistoryPrune(t *testing.T) {
	cfg := testConfig(t)
	for i := 0; i < 3; i++ {
		if _, err := execute(t, cfg, "test", "--record"); err != nil {
			t.Fatal(err)
		}
	}

	out, err := execute(t, cfg, "history", "prune", "--days", "0", "--max-runs", "1")
	if err != nil {
		t.Fatalf("history prune returned error: %v", err)
	}
	if out != "Pruned 2 run(s)\n" {
		t.Errorf("output = %q", out)
	}

	out, err = execute(t, cfg, "history", "list")
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(strings.TrimSpace(out), "\n"); n != 1 {
		t.Errorf("%d runs left, want 1:\n%s", n, out)
	}
}
