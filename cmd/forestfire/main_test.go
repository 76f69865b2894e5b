package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"forestfire/internal/forest"
	"forestfire/internal/sweep"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

var centreFire = []string{"--set", "h=3", "--set", "w=3", "--set", "fire=1,1", "--set", "p=1", "--set", "seed=5"}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, version) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRunSummary(t *testing.T) {
	out, err := execute(t, append([]string{"run"}, centreFire...)...)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "burned out after 3 steps (seed 5)") || !strings.Contains(out, "ash:   9") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRunShowPrintsFrames(t *testing.T) {
	out, err := execute(t, append([]string{"run", "--show"}, centreFire...)...)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "step 0\nT T T\nT F T\nT T T\n") {
		t.Fatalf("initial frame missing from %q", out)
	}
	if !strings.Contains(out, "step 1\nT F T\nF A F\nT F T\n") {
		t.Fatalf("first step frame missing from %q", out)
	}
	if strings.Count(out, "step ") != 4 {
		t.Fatalf("expected 4 frames, got output %q", out)
	}
}

func TestRunJSONWithLimit(t *testing.T) {
	out, err := execute(t, append([]string{"run", "--json", "--max", "1"}, centreFire...)...)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var summary runSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if summary.Steps != 1 || summary.Seed != 5 || summary.Counts != (forest.Counts{Alive: 4, Burning: 4, Burned: 1}) {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	_, err := execute(t, "run", "--set", "h=-1")
	if !errors.Is(err, forest.ErrInvalidConfig) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if _, err := execute(t, "run", "extra"); err == nil {
		t.Fatal("run should reject positional arguments")
	}
}

func TestValidatePrintsResolvedSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	if err := os.WriteFile(path, []byte("forest:\n  height: 7\nfire:\n  ignitions: [[2, 3]]\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, err := execute(t, "validate", "--config", path, "--set", "p=0.25")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	for _, want := range []string{"height: 7", "probability: 0.25", "2,3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestValidateReportsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.properties")
	if err := os.WriteFile(path, []byte("forest.height=2\nforest.width=2\nfire.initial.positions=5,5\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := execute(t, "validate", "-c", path)
	var cfgErr *forest.ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Field != forest.KeyIgnitions {
		t.Fatalf("expected ignition ConfigurationError, got %v", err)
	}
}

func TestSweepJSON(t *testing.T) {
	out, err := execute(t, "sweep", "--set", "h=4", "--set", "w=4", "--set", "fire=0,0",
		"--probabilities", "1,0", "--trials", "3", "--workers", "2", "--seed", "9", "--json")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	var results []sweep.Result
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(results) != 2 || results[0].Probability != 0 || results[1].Probability != 1 {
		t.Fatalf("unexpected results %+v", results)
	}
	if results[1].MeanSteps != 7 || results[1].MeanBurned != 1 {
		t.Fatalf("p=1 should burn the whole 4x4 forest in 7 steps: %+v", results[1])
	}
}

func TestSweepTable(t *testing.T) {
	out, err := execute(t, "sweep", "--set", "h=3", "--set", "w=3", "--probabilities", "0.5", "--trials", "2", "--seed", "1")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if !strings.Contains(out, "probability") || !strings.Contains(out, "0.500") {
		t.Fatalf("unexpected table %q", out)
	}
}
