// Package schema loads a structural contract for JSON payloads and checks
// parsed JSON values against it.
//
// Documents use a JSON Schema shaped subset: type, properties, required,
// additionalProperties, items, minItems, maxItems, minLength, maxLength,
// pattern and enum. Other keywords are accepted by the loader and ignored by
// the matcher.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a schema document on disk.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Anything that is
// not .yaml or .yml is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

var knownTypes = map[string]struct{}{
	"string":  {},
	"number":  {},
	"integer": {},
	"boolean": {},
	"null":    {},
	"array":   {},
	"object":  {},
}

// Node is one level of a parsed schema. A zero Node accepts any value.
type Node struct {
	Types                []string
	Properties           map[string]*Node
	Required             []string
	Closed               bool
	AdditionalProperties *Node
	Items                *Node
	MinItems             *int
	MaxItems             *int
	MinLength            *int
	MaxLength            *int
	Pattern              *regexp.Regexp
	Enum                 []any

	// Never is set for the boolean schema false.
	Never bool
}

// Document is a parsed, immutable schema.
type Document struct {
	Source string
	Root   *Node
}

// LoadError reports a schema that could not be read or is not well formed.
// It only occurs while loading; validation never returns it.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load schema %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads and parses the schema file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return parse(path, data, FormatFromPath(path))
}

// LoadFS reads and parses the schema file name from fsys.
func LoadFS(fsys fs.FS, name string) (*Document, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, &LoadError{Source: name, Err: err}
	}
	return parse(name, data, FormatFromPath(name))
}

// Parse builds a Document from raw bytes in the given format.
func Parse(data []byte, format Format) (*Document, error) {
	return parse("inline", data, format)
}

func parse(source string, data []byte, format Format) (*Document, error) {
	jsonData, err := toJSON(data, format)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	if err := compile(jsonData); err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("decode: %w", err)}
	}

	root, err := parseNode(raw, "")
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	return &Document{Source: source, Root: root}, nil
}

func toJSON(data []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		if !json.Valid(data) {
			return nil, fmt.Errorf("schema is not valid JSON")
		}
		return data, nil
	case FormatYAML:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		out, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("convert yaml to json: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported schema format %q", format)
	}
}

// compile checks the document against the Draft 7 meta-schema.
func compile(jsonData []byte) error {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource("schema.json", bytes.NewReader(jsonData)); err != nil {
		return fmt.Errorf("add resource: %w", err)
	}
	if _, err := compiler.Compile("schema.json"); err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	return nil
}

func parseNode(v any, at string) (*Node, error) {
	switch s := v.(type) {
	case bool:
		return &Node{Never: !s}, nil
	case map[string]any:
		return parseObjectNode(s, at)
	default:
		return nil, fmt.Errorf("%s: schema must be an object or boolean, got %T", pointer(at), v)
	}
}

func parseObjectNode(s map[string]any, at string) (*Node, error) {
	n := &Node{}

	if t, ok := s["type"]; ok {
		types, err := parseTypes(t)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pointer(at+"/type"), err)
		}
		n.Types = types
	}

	if p, ok := s["properties"]; ok {
		props, ok := p.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: properties must be an object", pointer(at+"/properties"))
		}
		n.Properties = make(map[string]*Node, len(props))
		keys := sortedKeys(props)
		for _, k := range keys {
			child, err := parseNode(props[k], at+"/properties/"+escape(k))
			if err != nil {
				return nil, err
			}
			n.Properties[k] = child
		}
	}

	if r, ok := s["required"]; ok {
		list, ok := r.([]any)
		if !ok {
			return nil, fmt.Errorf("%s: required must be an array", pointer(at+"/required"))
		}
		for i, item := range list {
			key, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s/%d: required entries must be strings", pointer(at+"/required"), i)
			}
			n.Required = append(n.Required, key)
		}
	}

	if ap, ok := s["additionalProperties"]; ok {
		switch a := ap.(type) {
		case bool:
			n.Closed = !a
		default:
			child, err := parseNode(a, at+"/additionalProperties")
			if err != nil {
				return nil, err
			}
			n.AdditionalProperties = child
		}
	}

	if it, ok := s["items"]; ok {
		if _, tuple := it.([]any); tuple {
			return nil, fmt.Errorf("%s: tuple items are not supported", pointer(at+"/items"))
		}
		child, err := parseNode(it, at+"/items")
		if err != nil {
			return nil, err
		}
		n.Items = child
	}

	for key, dst := range map[string]**int{
		"minItems":  &n.MinItems,
		"maxItems":  &n.MaxItems,
		"minLength": &n.MinLength,
		"maxLength": &n.MaxLength,
	} {
		raw, ok := s[key]
		if !ok {
			continue
		}
		bound, err := parseBound(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pointer(at+"/"+key), err)
		}
		*dst = &bound
	}

	if p, ok := s["pattern"]; ok {
		expr, ok := p.(string)
		if !ok {
			return nil, fmt.Errorf("%s: pattern must be a string", pointer(at+"/pattern"))
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pointer(at+"/pattern"), err)
		}
		n.Pattern = re
	}

	if e, ok := s["enum"]; ok {
		list, ok := e.([]any)
		if !ok || len(list) == 0 {
			return nil, fmt.Errorf("%s: enum must be a non-empty array", pointer(at+"/enum"))
		}
		n.Enum = list
	}

	return n, nil
}

func parseTypes(v any) ([]string, error) {
	var names []string
	switch t := v.(type) {
	case string:
		names = []string{t}
	case []any:
		for _, item := range t {
			name, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("type entries must be strings, got %T", item)
			}
			names = append(names, name)
		}
	default:
		return nil, fmt.Errorf("type must be a string or array, got %T", v)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("type list is empty")
	}
	for _, name := range names {
		if _, ok := knownTypes[name]; !ok {
			return nil, fmt.Errorf("unknown type %q", name)
		}
	}
	return names, nil
}

func parseBound(v any) (int, error) {
	num, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("bound must be a number, got %T", v)
	}
	i, err := num.Int64()
	if err != nil {
		f, ferr := num.Float64()
		if ferr != nil || f != float64(int64(f)) {
			return 0, fmt.Errorf("bound must be an integer, got %s", num)
		}
		i = int64(f)
	}
	if i < 0 {
		return 0, fmt.Errorf("bound must not be negative, got %d", i)
	}
	return int(i), nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
