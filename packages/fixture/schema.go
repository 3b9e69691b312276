package fixture

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var fixtureSchema string

var schemaLoader = gojsonschema.NewStringLoader(fixtureSchema)

// ValidationError lists the problems found in a fixture document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("fixture is invalid: %s", strings.Join(e.Problems, "; "))
}

// Validate checks a fixture document against the fixture schema and then
// against the route rules Parse enforces. It returns a *ValidationError
// for schema problems.
func Validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse fixture: %w", err)
	}
	if doc == nil {
		return &ValidationError{Problems: []string{"document is empty"}}
	}

	encoded, err := json.Marshal(normalizeYAML(doc))
	if err != nil {
		return fmt.Errorf("failed to encode fixture: %w", err)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(encoded))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return &ValidationError{Problems: problems}
	}

	_, err = Parse(data)
	return err
}
