package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"unicode/utf8"
)

// Violation is a single conformance defect at a location in the data.
type Violation struct {
	// Path is a JSON pointer into the validated value; "/" is the root.
	Path   string `json:"path"`
	Reason string `json:"reason"`

	// Expected and Observed are set for type mismatches.
	Expected string `json:"expected,omitempty"`
	Observed string `json:"observed,omitempty"`
}

func (v Violation) String() string {
	return v.Path + ": " + v.Reason
}

// Result is the outcome of one validation. It conforms iff it holds no
// violations.
type Result struct {
	Violations []Violation `json:"violations"`
}

// Conforms reports whether no violation was recorded.
func (r Result) Conforms() bool {
	return len(r.Violations) == 0
}

func (r Result) String() string {
	if r.Conforms() {
		return "conforms"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "does not conform: %d violation(s)", len(r.Violations))
	for _, v := range r.Violations {
		b.WriteString("\n  ")
		b.WriteString(v.String())
	}
	return b.String()
}

// Validate walks doc and data together and records every violation. It
// never fails: data may be any value produced by encoding/json, and a nil
// document accepts everything.
func Validate(doc *Document, data any) Result {
	var res Result
	if doc == nil || doc.Root == nil {
		return res
	}
	w := walker{res: &res}
	w.walk(doc.Root, data, "")
	return res
}

type walker struct {
	res *Result
}

func (w walker) add(at, reason string) {
	w.res.Violations = append(w.res.Violations, Violation{Path: pointer(at), Reason: reason})
}

func (w walker) walk(n *Node, v any, at string) {
	if n.Never {
		w.add(at, "no value is allowed here")
		return
	}

	if len(n.Types) > 0 {
		observed := typeOf(v)
		if !typeAllowed(n.Types, observed) {
			expected := strings.Join(n.Types, "|")
			w.res.Violations = append(w.res.Violations, Violation{
				Path:     pointer(at),
				Reason:   fmt.Sprintf("expected type %s, got %s", expected, observed),
				Expected: expected,
				Observed: observed,
			})
			return
		}
	}

	if len(n.Enum) > 0 && !enumContains(n.Enum, v) {
		w.add(at, fmt.Sprintf("value %s is not one of the allowed values", render(v)))
	}

	switch val := v.(type) {
	case map[string]any:
		w.object(n, val, at)
	case []any:
		w.array(n, val, at)
	case string:
		w.str(n, val, at)
	}
}

func (w walker) object(n *Node, obj map[string]any, at string) {
	for _, key := range n.Required {
		if _, ok := obj[key]; !ok {
			w.add(at+"/"+escape(key), "missing required key")
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		child := at + "/" + escape(k)
		if prop, ok := n.Properties[k]; ok {
			w.walk(prop, obj[k], child)
			continue
		}
		switch {
		case n.AdditionalProperties != nil:
			w.walk(n.AdditionalProperties, obj[k], child)
		case n.Closed:
			w.add(child, "key is not allowed by a closed object")
		}
	}
}

func (w walker) array(n *Node, arr []any, at string) {
	if n.MinItems != nil && len(arr) < *n.MinItems {
		w.add(at, fmt.Sprintf("expected at least %d items, got %d", *n.MinItems, len(arr)))
	}
	if n.MaxItems != nil && len(arr) > *n.MaxItems {
		w.add(at, fmt.Sprintf("expected at most %d items, got %d", *n.MaxItems, len(arr)))
	}
	if n.Items == nil {
		return
	}
	for i, item := range arr {
		w.walk(n.Items, item, fmt.Sprintf("%s/%d", at, i))
	}
}

func (w walker) str(n *Node, s string, at string) {
	length := utf8.RuneCountInString(s)
	if n.MinLength != nil && length < *n.MinLength {
		w.add(at, fmt.Sprintf("expected length >= %d, got %d", *n.MinLength, length))
	}
	if n.MaxLength != nil && length > *n.MaxLength {
		w.add(at, fmt.Sprintf("expected length <= %d, got %d", *n.MaxLength, length))
	}
	if n.Pattern != nil && !n.Pattern.MatchString(s) {
		w.add(at, fmt.Sprintf("value %q does not match pattern %s", s, n.Pattern))
	}
}

// typeOf names the JSON type of a decoded value. Whole numbers are
// "integer", other numbers "number". Values that encoding/json never
// produces are named by their Go type.
func typeOf(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case json.Number:
		if _, err := x.Int64(); err == nil {
			return "integer"
		}
		f, err := x.Float64()
		if err == nil && isWhole(f) {
			return "integer"
		}
		return "number"
	case float64:
		if isWhole(x) {
			return "integer"
		}
		return "number"
	case float32:
		if isWhole(float64(x)) {
			return "integer"
		}
		return "number"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func isWhole(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f)
}

func typeAllowed(types []string, observed string) bool {
	for _, t := range types {
		if t == observed || (t == "number" && observed == "integer") {
			return true
		}
	}
	return false
}

func enumContains(enum []any, v any) bool {
	for _, e := range enum {
		if jsonEqual(e, v) {
			return true
		}
	}
	return false
}

func jsonEqual(a, b any) bool {
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	if aNum || bNum {
		return aNum && bNum && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}

func render(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// pointer turns an internal path into a JSON pointer, using "/" for the root.
func pointer(at string) string {
	if at == "" {
		return "/"
	}
	return at
}

func escape(seg string) string {
	seg = strings.ReplaceAll(seg, "~", "~0")
	return strings.ReplaceAll(seg, "/", "~1")
}
