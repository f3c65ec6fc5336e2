package multistorage

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// Serializer converts the namespaced mapping to and from its stored text.
// Encode must fail, not silently drop data, on values it cannot represent.
type Serializer interface {
	Encode(v any) (string, error)
	Decode(data string, v any) error
}

var (
	// JSON is the default serializer.
	JSON Serializer = jsonSerializer{}
	// YAML stores the mapping as a YAML document.
	YAML Serializer = yamlSerializer{}
)

// SerializerFor returns the serializer registered under format.
// An empty format selects JSON.
func SerializerFor(format string) (Serializer, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

type jsonSerializer struct{}

func (jsonSerializer) Encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (jsonSerializer) Decode(data string, v any) error {
	return json.Unmarshal([]byte(data), v)
}

type yamlSerializer struct{}

func (yamlSerializer) Encode(v any) (string, error) {
	// yaml.v3 recurses into cycles until the stack is exhausted
	if err := checkCycles(reflect.ValueOf(v), map[cycleKey]bool{}); err != nil {
		return "", err
	}
	b, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (yamlSerializer) Decode(data string, v any) error {
	return yaml.Unmarshal([]byte(data), v)
}

type cycleKey struct {
	ptr uintptr
	typ reflect.Type
	len int
}

// checkCycles reports a value that contains itself. path holds the
// references on the way down from the root, so shared but acyclic values
// pass.
func checkCycles(v reflect.Value, path map[cycleKey]bool) error {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return checkCycles(v.Elem(), path)
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() || (v.Kind() == reflect.Slice && v.Len() == 0) {
			return nil
		}
		key := cycleKey{ptr: v.Pointer(), typ: v.Type()}
		if v.Kind() == reflect.Slice {
			key.len = v.Len()
		}
		if path[key] {
			return fmt.Errorf("encountered a cycle via %s", v.Type())
		}
		path[key] = true
		defer delete(path, key)

		switch v.Kind() {
		case reflect.Pointer:
			return checkCycles(v.Elem(), path)
		case reflect.Map:
			iter := v.MapRange()
			for iter.Next() {
				if err := checkCycles(iter.Value(), path); err != nil {
					return err
				}
			}
			return nil
		}
		return checkElems(v, path)
	case reflect.Array:
		return checkElems(v, path)
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			if err := checkCycles(v.Field(i), path); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkElems(v reflect.Value, path map[cycleKey]bool) error {
	for i := 0; i < v.Len(); i++ {
		if err := checkCycles(v.Index(i), path); err != nil {
			return err
		}
	}
	return nil
}
