// Package testutil provides shared helpers for end-to-end interpreter tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Scenario is one end-to-end program loaded from a scenario JSON file:
// a source text and the outcome running it must produce.
type Scenario struct {
	Name   string         `json:"-"`
	Source string         `json:"source"`
	Expect ExpectedResult `json:"expect"`
}

// ExpectedResult describes the expected outcome of running a scenario.
// Result is one of "ok", "compile-error", or "runtime-error". Stdout is
// matched exactly; StderrContains is a substring match so scenarios stay
// robust against incidental message ordering.
type ExpectedResult struct {
	Result         string `json:"result"`
	Stdout         string `json:"stdout,omitempty"`
	Stderr         string `json:"stderr,omitempty"`
	StderrContains string `json:"stderrContains,omitempty"`
}

// LoadScenario reads a single scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	s.Name = strings.TrimSuffix(filepath.Base(path), ".json")
	return &s, nil
}

// ListScenarios returns every scenario file under root, sorted by name.
func ListScenarios(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			paths = append(paths, filepath.Join(root, e.Name()))
		}
	}
	return paths, nil
}
