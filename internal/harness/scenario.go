package harness

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/phonebook/internal/record"
)

// Scenario is a scripted conversation with the service.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// IDs are assigned to created records in order.
	IDs []string `yaml:"ids,omitempty"`

	// Setup requests establish initial state. Each must succeed.
	Setup []Step `yaml:"setup,omitempty"`

	// Flow contains the requests under test.
	Flow []Step `yaml:"flow"`

	// Assertions validate the final store contents.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one HTTP request.
type Step struct {
	Method string `yaml:"method"`
	Path   string `yaml:"path"`
	Body   string `yaml:"body,omitempty"`

	// Expect is checked against the response. If nil, any response passes.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect describes the expected response to a step.
type Expect struct {
	Status int `yaml:"status"`

	// Body, if set, must equal the response body exactly.
	Body string `yaml:"body,omitempty"`

	// Contains lists substrings the response body must include.
	Contains []string `yaml:"contains,omitempty"`
}

// Assertion validates the store after the flow.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Kind is the collection name (contacts, people).
	Kind string `yaml:"kind"`

	// ID selects the record (record_state, record_absent).
	ID string `yaml:"id,omitempty"`

	// Count is the expected number of records (record_count).
	Count int `yaml:"count,omitempty"`

	// Expect holds expected JSON field values (record_state). Subset match.
	Expect map[string]any `yaml:"expect,omitempty"`

	// Names is the expected listing order (list_order).
	Names []string `yaml:"names,omitempty"`
}

// Assertion type constants.
const (
	AssertRecordCount  = "record_count"
	AssertRecordState  = "record_state"
	AssertRecordAbsent = "record_absent"
	AssertListOrder    = "list_order"
)

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	for i, step := range s.Setup {
		if err := validateStep(fmt.Sprintf("setup[%d]", i), step); err != nil {
			return err
		}
	}

	for i, step := range s.Flow {
		if err := validateStep(fmt.Sprintf("flow[%d]", i), step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(where string, step Step) error {
	if !allowedMethods[step.Method] {
		return fmt.Errorf("%s: unsupported method %q", where, step.Method)
	}
	if !strings.HasPrefix(step.Path, "/") {
		return fmt.Errorf("%s: path must start with /", where)
	}
	if step.Expect != nil && (step.Expect.Status < 100 || step.Expect.Status > 599) {
		return fmt.Errorf("%s.expect: status %d out of range", where, step.Expect.Status)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if _, err := record.KindByName(a.Kind); err != nil {
		return fmt.Errorf("assertions[%d]: %w", index, err)
	}

	switch a.Type {
	case AssertRecordCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for record_count", index)
		}
	case AssertRecordState:
		if a.ID == "" {
			return fmt.Errorf("assertions[%d]: id is required for record_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for record_state", index)
		}
	case AssertRecordAbsent:
		if a.ID == "" {
			return fmt.Errorf("assertions[%d]: id is required for record_absent", index)
		}
	case AssertListOrder:
		// An empty names list asserts an empty collection.
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
