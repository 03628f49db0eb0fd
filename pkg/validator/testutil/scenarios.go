package testutil

import "github.com/wonderfulspam/lintcompat/pkg/differ"

// Scenario is one migration case: two recorded ESLint fixtures and what
// comparing them should report.
type Scenario struct {
	Name         string
	Description  string
	Dir          string
	OldFixture   string
	NewFixture   string
	Expectations Expectations
}

// Expectations defines what a correct comparison reports for a scenario.
type Expectations struct {
	Equivalent     bool                    // No target or rule divergence
	TargetsAdded   []string                // Files only the new config lints
	TargetsRemoved []string                // Files only the old config lints
	Groups         int                     // Distinct divergence patterns
	DiffKinds      map[differ.DiffType]int // Divergences per kind, summed over groups
	GroupedFiles   map[string][]string     // First file of a group to all its files
	ErrorContains  string                  // Non-empty when the run must fail
}

// ScenarioConfig is the expect.yaml file of a scenario directory.
type ScenarioConfig struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Expectations struct {
		Equivalent     bool                    `yaml:"equivalent"`
		TargetsAdded   []string                `yaml:"targets_added"`
		TargetsRemoved []string                `yaml:"targets_removed"`
		Groups         int                     `yaml:"groups"`
		DiffKinds      map[differ.DiffType]int `yaml:"diff_kinds"`
		GroupedFiles   map[string][]string     `yaml:"grouped_files"`
		ErrorContains  string                  `yaml:"error_contains"`
	} `yaml:"expectations"`
}
