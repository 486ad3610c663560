package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "jxmigrate.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// FieldError is one schema violation.
type FieldError struct {
	// Path is the dotted location of the offending value.
	Path    string
	Message string
}

// ValidationError lists every violation found in a configuration.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Path, f.Message)
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}

// Validate checks cfg against the embedded JSON schema.
func Validate(cfg *Config) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var obj interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	if err := schema.Validate(obj); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return err
		}
		result := &ValidationError{}
		collectCauses(ve, result)
		sort.Slice(result.Fields, func(i, j int) bool { return result.Fields[i].Path < result.Fields[j].Path })
		return result
	}
	return nil
}

// collectCauses gathers the leaf errors of the cause tree.
func collectCauses(err *jsonschema.ValidationError, result *ValidationError) {
	if len(err.Causes) == 0 {
		result.Fields = append(result.Fields, FieldError{
			Path:    pointerToPath(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectCauses(cause, result)
	}
}

// pointerToPath turns "/log/level" into "log.level".
func pointerToPath(pointer string) string {
	p := strings.Trim(pointer, "/")
	if p == "" {
		return "(root)"
	}
	return strings.ReplaceAll(p, "/", ".")
}
