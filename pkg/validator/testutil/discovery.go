package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fixture file names inside a scenario directory.
const (
	OldFixtureFile  = "old.json"
	NewFixtureFile  = "new.json"
	ExpectationFile = "expect.yaml"
)

// DiscoverScenarios finds every directory under scenariosPath holding an old
// and a new fixture, sorted by name.
func DiscoverScenarios(scenariosPath string) ([]*Scenario, error) {
	var scenarios []*Scenario

	entries, err := os.ReadDir(scenariosPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		name := entry.Name()
		dir := filepath.Join(scenariosPath, name)
		oldFixture := filepath.Join(dir, OldFixtureFile)
		newFixture := filepath.Join(dir, NewFixtureFile)

		if !FileExists(oldFixture) || !FileExists(newFixture) {
			continue
		}

		scenario := &Scenario{
			Name:         name,
			Description:  GenerateDescription(name),
			Dir:          dir,
			OldFixture:   oldFixture,
			NewFixture:   newFixture,
			Expectations: GetDefaultExpectations(),
		}

		configPath := filepath.Join(dir, ExpectationFile)
		if FileExists(configPath) {
			config, err := LoadScenarioConfig(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to load config for %s: %w", name, err)
			}
			ApplyScenarioConfig(scenario, config)
		}

		scenarios = append(scenarios, scenario)
	}

	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].Name < scenarios[j].Name })
	return scenarios, nil
}

// LoadScenarioConfig loads scenario configuration from a YAML file.
func LoadScenarioConfig(configPath string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config ScenarioConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// ApplyScenarioConfig applies configuration to a scenario.
func ApplyScenarioConfig(scenario *Scenario, config *ScenarioConfig) {
	if config.Name != "" {
		scenario.Name = config.Name
	}
	if config.Description != "" {
		scenario.Description = config.Description
	}

	scenario.Expectations = Expectations{
		Equivalent:     config.Expectations.Equivalent,
		TargetsAdded:   config.Expectations.TargetsAdded,
		TargetsRemoved: config.Expectations.TargetsRemoved,
		Groups:         config.Expectations.Groups,
		DiffKinds:      config.Expectations.DiffKinds,
		GroupedFiles:   config.Expectations.GroupedFiles,
		ErrorContains:  config.Expectations.ErrorContains,
	}
}

// GetDefaultExpectations expects an equivalent migration.
func GetDefaultExpectations() Expectations {
	return Expectations{Equivalent: true}
}

// GenerateDescription turns a directory name into a readable description.
func GenerateDescription(scenarioName string) string {
	return fmt.Sprintf("Migration scenario: %s", strings.ReplaceAll(scenarioName, "-", " "))
}

// FileExists checks if a regular file exists.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
