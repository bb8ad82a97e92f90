package treejson

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON string

const schemaURL = "batparse://tree.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Schema returns the embedded JSON Schema text.
func Schema() string {
	return schemaJSON
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		// The schema is self-contained; nothing may be fetched.
		compiler.LoadURL = func(url string) (io.ReadCloser, error) {
			return nil, fmt.Errorf("external $ref not allowed: %s", url)
		}
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Validate checks data against the document schema.
func Validate(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("schema compilation failed: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("invalid JSON: trailing data after document")
	}

	if err := s.Validate(v); err != nil {
		return fmt.Errorf("document does not match schema: %w", err)
	}
	return nil
}
