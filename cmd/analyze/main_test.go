package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testConfig = `{
	"name": "Test Config",
	"description": "Test configuration",
	"target_tile": 256,
	"four_probability": 0.25,
	"initial_tiles": 1,
	"layout": ["2 . . .", ". 4 . .", ". . . .", ". . . 128"],
	"messages": {
		"welcome": "Welcome!",
		"victory": "Won with %d",
		"game_over": "Over at %d"
	}
}`

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestSpawnSample(t *testing.T) {
	s := SpawnSample{Twos: 3, Fours: 1}
	if s.Total() != 4 {
		t.Errorf("Expected total 4, got %d", s.Total())
	}
	if s.FourRatio() != 0.25 {
		t.Errorf("Expected ratio 0.25, got %f", s.FourRatio())
	}
	if (SpawnSample{}).FourRatio() != 0 {
		t.Error("Empty sample should have ratio 0")
	}
}

func TestMinimumScore(t *testing.T) {
	tests := []struct {
		value    int
		expected int
	}{
		{2, 0},
		{4, 4},
		{8, 16},
		{16, 48},
		{2048, 20480},
	}

	for _, test := range tests {
		if got := minimumScore(test.value); got != test.expected {
			t.Errorf("minimumScore(%d) = %d, expected %d", test.value, got, test.expected)
		}
	}
}

func TestSampleSpawns(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		min  float64
		max  float64
	}{
		{name: "never fours", p: 0, min: 0, max: 0},
		{name: "always fours", p: 1, min: 1, max: 1},
		{name: "classic odds", p: 0.1, min: 0.08, max: 0.12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sample, err := sampleSpawns(tt.p, 5000, 7)
			if err != nil {
				t.Fatalf("sampleSpawns failed: %v", err)
			}
			if sample.Total() != 5000 {
				t.Errorf("Expected 5000 spawns, got %d", sample.Total())
			}
			if r := sample.FourRatio(); r < tt.min || r > tt.max {
				t.Errorf("Expected ratio in [%f, %f], got %f", tt.min, tt.max, r)
			}
		})
	}
}

func TestSampleSpawnsDeterministic(t *testing.T) {
	a, err := sampleSpawns(0.1, 500, 42)
	if err != nil {
		t.Fatal(err)
	}
	b, err := sampleSpawns(0.1, 500, 42)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("Same seed should sample the same spawns: %+v vs %+v", a, b)
	}
}

func TestSampleSpawnsRejectsZero(t *testing.T) {
	if _, err := sampleSpawns(0.1, 0, 1); err == nil {
		t.Error("Expected an error for zero samples")
	}
}

func TestAnalyzeConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "test.json", testConfig)

	var out bytes.Buffer
	if err := analyzeConfig(path, &out, 2000, 1); err != nil {
		t.Fatalf("analyzeConfig failed: %v", err)
	}

	report := out.String()
	for _, want := range []string{
		"Name: Test Config",
		"Target Tile: 256",
		"Four Probability: 25.0%",
		"Layout: 3 preset tiles, best 128",
		"|   128|",
		"Spawns: ",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("Expected report to contain %q, got:\n%s", want, report)
		}
	}
}

func TestAnalyzeConfig_Invalid(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "bad.json", `{"name": "bad"}`)
	if err := analyzeConfig(path, &bytes.Buffer{}, 10, 1); err == nil {
		t.Error("Expected an error for an invalid rules file")
	}
}

func TestAnalyzeDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "a.json", testConfig)
	writeConfig(t, dir, "b.yaml", "name: b\n")
	writeConfig(t, dir, "c.txt", "skip")

	var out bytes.Buffer
	if err := analyzeDir(dir, &out, 100, 1); err != nil {
		t.Fatalf("analyzeDir failed: %v", err)
	}

	report := out.String()
	if !strings.Contains(report, "=== Analyzing a.json ===") || !strings.Contains(report, "=== Analyzing b.yaml ===") {
		t.Errorf("Expected both rules files analyzed, got:\n%s", report)
	}
	if strings.Contains(report, "c.txt") {
		t.Error("Non rules files should be skipped")
	}
	if !strings.Contains(report, "Error: ") {
		t.Error("Expected the invalid yaml file to report an error")
	}
}
