package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is the JSON Schema a structured response must match.
type Schema struct {
	// Name is sent as the tool or schema name, e.g. "answer-explanation".
	Name        string
	Description string
	Definition  map[string]any
}

// compiled caches compiled schemas by name.
var compiled sync.Map // map[string]*jsonschema.Schema

// Validate checks raw against the schema. A nil schema accepts anything.
// Failures are *Error with Kind ErrInvalidResponse.
func (s *Schema) Validate(raw json.RawMessage) error {
	if s == nil {
		return nil
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &Error{Kind: ErrInvalidResponse, Content: raw, Err: fmt.Errorf("not JSON: %w", err)}
	}
	sch, err := s.compile()
	if err != nil {
		return &Error{Kind: ErrInvalidResponse, Content: raw, Err: err}
	}
	if err := sch.Validate(doc); err != nil {
		return &Error{Kind: ErrInvalidResponse, Content: raw, Err: err}
	}
	return nil
}

func (s *Schema) compile() (*jsonschema.Schema, error) {
	if c, ok := compiled.Load(s.Name); ok {
		return c.(*jsonschema.Schema), nil
	}
	sch, err := CompileSchema(s.Name, s.Definition)
	if err != nil {
		return nil, err
	}
	compiled.Store(s.Name, sch)
	return sch, nil
}

// CompileSchema compiles a schema given as a Go map.
func CompileSchema(name string, def map[string]any) (*jsonschema.Schema, error) {
	// Round-trip through JSON so numbers and nested maps have the types
	// the compiler expects.
	b, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %q: %w", name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", name, err)
	}
	url := "mem://" + name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %q: %w", name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}
	return sch, nil
}
