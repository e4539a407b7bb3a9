package boq

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const boqSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["section", "items"],
    "properties": {
      "section": {"type": "string", "minLength": 1},
      "items": {
        "type": "array",
        "minItems": 1,
        "items": {
          "type": "object",
          "required": ["description", "quantity", "unit", "rate", "total"],
          "properties": {
            "ref": {"type": "string"},
            "description": {"type": "string", "minLength": 1},
            "quantity": {"type": "string", "minLength": 1},
            "unit": {"type": "string"},
            "rate": {"type": "string", "pattern": "^-?[0-9][0-9,]*(\\.[0-9]+)?$"},
            "rateRef": {"type": "string"},
            "total": {"type": "string", "pattern": "^-?[0-9][0-9,]*(\\.[0-9]+)?$"}
          }
        }
      }
    }
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("boq.json", strings.NewReader(boqSchema)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("boq.json")
	})
	return compiledSchema, compileErr
}

// ValidateBoq checks a normalized BOQ has at least one section, every section has
// items, and every amount is a plain decimal.
func ValidateBoq(b Boq) error {
	s, err := schema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal boq: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal boq: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("boq does not match schema: %w", err)
	}
	return nil
}
