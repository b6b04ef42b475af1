// Package validate checks API request bodies against embedded JSON schemas.
package validate

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema names a request document
type Schema string

const (
	URLRequest   Schema = "url-request"
	ApplyFilter  Schema = "apply-filter"
	ViewRequest  Schema = "view"
	FilterRecord Schema = "filter"
)

const baseURL = "file:///servermap/schema/"

// ErrUnknownSchema is returned for a schema name with no embedded document
var ErrUnknownSchema = errors.New("unknown schema")

//go:embed schema/*.schema.json
var schemaFS embed.FS

var (
	once    sync.Once
	schemas map[Schema]*jsonschema.Schema
	loadErr error
)

func load() {
	c := jsonschema.NewCompiler()

	entries, err := fs.ReadDir(schemaFS, "schema")
	if err != nil {
		loadErr = err
		return
	}
	for _, e := range entries {
		data, err := schemaFS.ReadFile("schema/" + e.Name())
		if err != nil {
			loadErr = err
			return
		}
		if err := c.AddResource(baseURL+e.Name(), bytes.NewReader(data)); err != nil {
			loadErr = fmt.Errorf("schema %s: %w", e.Name(), err)
			return
		}
	}

	compiled := make(map[Schema]*jsonschema.Schema)
	for _, name := range []Schema{URLRequest, ApplyFilter, ViewRequest, FilterRecord} {
		s, err := c.Compile(baseURL + string(name) + ".schema.json")
		if err != nil {
			loadErr = fmt.Errorf("compile %s: %w", name, err)
			return
		}
		compiled[name] = s
	}
	schemas = compiled
}

// JSON validates a raw request body against the named schema
func JSON(name Schema, data []byte) error {
	once.Do(load)
	if loadErr != nil {
		return loadErr
	}
	s, ok := schemas[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return s.Validate(v)
}
