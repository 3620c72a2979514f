package tool

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/mitchellh/mapstructure"
)

// ParameterError is returned when a request does not satisfy a tool's schema.
type ParameterError struct {
	Tool   Name
	Param  string
	Reason string
}

func (e *ParameterError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("invalid parameters for %s: %s", e.Tool, e.Reason)
	}
	return fmt.Sprintf("invalid parameter %q for %s: %s", e.Param, e.Tool, e.Reason)
}

func (e *ParameterError) InvalidInput() bool { return true }

// Check verifies the descriptor is internally consistent.
func (d Descriptor) Check() error {
	seen := make(map[string]bool, len(d.Parameters.Properties))
	for _, p := range d.Parameters.Properties {
		if seen[p.Name] {
			return fmt.Errorf("tool %s declares parameter %q twice", d.Name, p.Name)
		}
		seen[p.Name] = true
	}
	for _, r := range d.Parameters.Required {
		if !seen[r] {
			return fmt.Errorf("tool %s requires undeclared parameter %q", d.Name, r)
		}
	}
	return nil
}

// Validate checks params against the schema and returns a copy with defaults applied.
// Undeclared parameters are rejected.
func (d Descriptor) Validate(params map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(d.Parameters.Properties))

	for name, value := range params {
		prop, ok := d.Parameters.Lookup(name)
		if !ok {
			return nil, &ParameterError{Tool: d.Name, Param: name, Reason: "unknown parameter"}
		}
		if value == nil {
			continue
		}
		if err := checkType(prop, value); err != nil {
			return nil, &ParameterError{Tool: d.Name, Param: name, Reason: err.Error()}
		}
		out[name] = value
	}

	for _, prop := range d.Parameters.Properties {
		if _, ok := out[prop.Name]; ok {
			continue
		}
		if slices.Contains(d.Parameters.Required, prop.Name) {
			return nil, &ParameterError{Tool: d.Name, Param: prop.Name, Reason: "required parameter is missing"}
		}
		if prop.Default != nil {
			out[prop.Name] = prop.Default
		}
	}

	return out, nil
}

func checkType(prop Property, value any) error {
	switch prop.Type {
	case TypeString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", value)
		}
	case TypeInteger:
		f, ok := numeric(value)
		if !ok {
			return fmt.Errorf("expected integer, got %T", value)
		}
		if f != math.Trunc(f) {
			return fmt.Errorf("expected integer, got %v", f)
		}
	case TypeNumber:
		if _, ok := numeric(value); !ok {
			return fmt.Errorf("expected number, got %T", value)
		}
	case TypeObject:
		if _, ok := value.(map[string]any); !ok {
			return fmt.Errorf("expected object, got %T", value)
		}
	case TypeArray:
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice {
			return fmt.Errorf("expected array, got %T", value)
		}
		if prop.Items == nil {
			return nil
		}
		for i := 0; i < rv.Len(); i++ {
			if err := checkType(*prop.Items, rv.Index(i).Interface()); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
	}
	return nil
}

func numeric(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// Decode copies validated params into the typed request pointed to by out.
// Field names come from json tags; params without a matching field are an error.
func Decode(name Name, params map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		TagName:     "json",
		ErrorUnused: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder for %s: %w", name, err)
	}
	if err := decoder.Decode(params); err != nil {
		return &ParameterError{Tool: name, Reason: err.Error()}
	}
	return nil
}
