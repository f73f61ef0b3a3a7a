package filing

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rgehrsitz/itrgo/internal/domain"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://itrgo.schemas.local/filing/payload.schema.json"

//go:embed schema/filing_payload.schema.json
var payloadSchema string

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func payloadValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(schemaURL, strings.NewReader(payloadSchema)); err != nil {
			compileErr = fmt.Errorf("filing schema load failed: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("filing schema compile failed: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// Schema returns the JSON Schema the payload is checked against.
func Schema() string {
	return payloadSchema
}

// VerifySchema renders the payload and validates the document against the
// embedded schema.
func VerifySchema(payload domain.FilingPayload) error {
	data, err := Render(payload)
	if err != nil {
		return err
	}
	return VerifyDocument(data)
}

// VerifyDocument validates an already rendered payload.
func VerifyDocument(data []byte) error {
	schema, err := payloadValidator()
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("filing payload is not valid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("filing payload schema validation failed: %w", err)
	}
	return nil
}
