package types

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Violation is one failed field constraint, addressed by a dotted path
// such as "scenes[0].rows[0].actions[1].type".
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Path == "" {
		return v.Message
	}
	return v.Path + ": " + v.Message
}

// SchemaValidationError carries every violation found in one document.
type SchemaValidationError struct {
	Violations []Violation
}

func (e *SchemaValidationError) Error() string {
	msgs := e.Messages()
	return fmt.Sprintf("schema: %d violation(s): %s", len(msgs), strings.Join(msgs, "; "))
}

// Messages renders each violation as "path: message".
func (e *SchemaValidationError) Messages() []string {
	out := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		out = append(out, v.String())
	}
	return out
}

// Validate types an untyped value (maps, slices, scalars as produced by
// encoding/json) into a SceneDocument. Unknown keys are ignored, except in
// props bags, which are carried through untouched.
func Validate(v any) (*SceneDocument, error) {
	c := &checker{}
	doc := c.document(v)
	if len(c.violations) > 0 {
		return nil, &SchemaValidationError{Violations: c.violations}
	}
	return doc, nil
}

type checker struct {
	violations []Violation
}

func (c *checker) fail(path, format string, args ...any) {
	c.violations = append(c.violations, Violation{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) document(v any) *SceneDocument {
	m, ok := v.(map[string]any)
	if !ok {
		c.fail("", "document must be an object, got %s", kindOf(v))
		return nil
	}
	doc := &SceneDocument{Scenes: []Scene{}}
	for i, raw := range c.list("scenes", m["scenes"], true) {
		doc.Scenes = append(doc.Scenes, c.scene(index("scenes", i), raw))
	}
	if mm, ok := c.object("meta", m["meta"], true); ok {
		doc.Meta = c.meta("meta", mm)
	}
	return doc
}

func (c *checker) scene(path string, v any) Scene {
	m, ok := c.object(path, v, true)
	if !ok {
		return Scene{}
	}
	s := Scene{
		ID:          c.reqString(path, m, "id"),
		Title:       c.optString(path, m, "title", ""),
		Description: c.optString(path, m, "description", ""),
		DurationSec: c.duration(path, m, "durationSec"),
		Rows:        []Row{},
	}
	for i, raw := range c.list(join(path, "rows"), m["rows"], true) {
		s.Rows = append(s.Rows, c.row(index(join(path, "rows"), i), raw))
	}
	return s
}

func (c *checker) row(path string, v any) Row {
	m, ok := c.object(path, v, true)
	if !ok {
		return Row{}
	}
	r := Row{
		ID:          c.reqString(path, m, "id"),
		Kind:        c.enum(path, m, "kind", RowKinds),
		Actions:     []Action{},
		Transitions: c.effects(join(path, "transitions"), m["transitions"]),
	}
	for i, raw := range c.list(join(path, "actions"), m["actions"], true) {
		r.Actions = append(r.Actions, c.action(index(join(path, "actions"), i), raw))
	}
	return r
}

func (c *checker) action(path string, v any) Action {
	m, ok := c.object(path, v, true)
	if !ok {
		return Action{}
	}
	a := Action{
		ID:          c.reqString(path, m, "id"),
		Type:        c.enum(path, m, "type", ActionTypes),
		StartSec:    c.duration(path, m, "startSec"),
		DurationSec: c.duration(path, m, "durationSec"),
		Effects:     c.effects(join(path, "effects"), m["effects"]),
	}
	if props, ok := c.object(join(path, "props"), m["props"], true); ok {
		a.Props = props
		c.license(join(path, "props.license"), props["license"])
	}
	return a
}

// effects reads an optional list of effect records; null means empty.
func (c *checker) effects(path string, v any) []Effect {
	out := []Effect{}
	for i, raw := range c.list(path, v, false) {
		p := index(path, i)
		em, ok := c.object(p, raw, true)
		if !ok {
			continue
		}
		e := Effect{Name: c.reqString(p, em, "name")}
		if pv, has := em["props"]; has && pv != nil {
			if props, ok := c.object(join(p, "props"), pv, true); ok {
				e.Props = props
			}
		} else {
			// Flat records carry their parameters beside the name.
			e.Props = map[string]any{}
			for k, vv := range em {
				if k != "name" && k != "props" {
					e.Props[k] = vv
				}
			}
		}
		out = append(out, e)
	}
	return out
}

func (c *checker) license(path string, v any) {
	m, ok := v.(map[string]any)
	if !ok {
		return
	}
	c.reqString(path, m, "source")
	for _, k := range []string{"author", "url", "license"} {
		c.optString(path, m, k, "")
	}
}

func (c *checker) meta(path string, m map[string]any) Meta {
	return Meta{
		AspectRatio:      c.optString(path, m, "aspectRatio", DefaultAspectRatio),
		FPS:              c.optPositiveInt(path, m, "fps", DefaultFPS),
		TotalDurationSec: c.duration(path, m, "totalDurationSec"),
		Generator:        c.optString(path, m, "generator", DefaultGenerator),
		Version:          c.optString(path, m, "version", DefaultVersion),
		Language:         c.optString(path, m, "language", ""),
		Deterministic:    c.optBool(path, m, "deterministic", false),
	}
}

// Field helpers -------------------------------------------------------------------

func (c *checker) object(path string, v any, required bool) (map[string]any, bool) {
	if v == nil {
		if required {
			c.fail(path, "field required")
		}
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		c.fail(path, "must be an object, got %s", kindOf(v))
		return nil, false
	}
	return m, true
}

// list reads v as a list. A missing required list is a violation; a missing
// optional list is empty.
func (c *checker) list(path string, v any, required bool) []any {
	if v == nil {
		if required {
			c.fail(path, "field required")
		}
		return nil
	}
	l, ok := v.([]any)
	if !ok {
		c.fail(path, "must be a list, got %s", kindOf(v))
		return nil
	}
	return l
}

func (c *checker) reqString(path string, m map[string]any, key string) string {
	v, has := m[key]
	if !has || v == nil {
		c.fail(join(path, key), "field required")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		c.fail(join(path, key), "must be a string, got %s", kindOf(v))
	}
	return s
}

func (c *checker) optString(path string, m map[string]any, key, def string) string {
	v, has := m[key]
	if !has || v == nil {
		return def
	}
	s, ok := v.(string)
	if !ok {
		c.fail(join(path, key), "must be a string, got %s", kindOf(v))
		return def
	}
	return s
}

func (c *checker) enum(path string, m map[string]any, key string, allowed []string) string {
	s := c.reqString(path, m, key)
	if _, isStr := m[key].(string); isStr && !slices.Contains(allowed, s) {
		c.fail(join(path, key), "invalid value %q (allowed: %s)", s, strings.Join(allowed, ", "))
	}
	return s
}

// duration reads a required non-negative number.
func (c *checker) duration(path string, m map[string]any, key string) float64 {
	v, has := m[key]
	if !has || v == nil {
		c.fail(join(path, key), "field required")
		return 0
	}
	f, ok := ToFloat(v)
	if !ok {
		c.fail(join(path, key), "must be a number, got %s", kindOf(v))
		return 0
	}
	if f < 0 {
		c.fail(join(path, key), "must be non-negative, got %v", f)
	}
	return f
}

// optPositiveInt reads a whole number in 1..math.MaxInt32.
func (c *checker) optPositiveInt(path string, m map[string]any, key string, def int) int {
	v, has := m[key]
	if !has || v == nil {
		return def
	}
	f, ok := ToFloat(v)
	if !ok || f != math.Trunc(f) {
		c.fail(join(path, key), "must be an integer, got %v", v)
		return def
	}
	if f < 1 || f > math.MaxInt32 {
		c.fail(join(path, key), "must be between 1 and %d, got %v", math.MaxInt32, v)
		return def
	}
	return int(f)
}

func (c *checker) optBool(path string, m map[string]any, key string, def bool) bool {
	v, has := m[key]
	if !has || v == nil {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		c.fail(join(path, key), "must be a boolean, got %s", kindOf(v))
		return def
	}
	return b
}

// ToFloat coerces JSON numbers and numeric strings.
func ToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func join(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

func index(base string, i int) string {
	return fmt.Sprintf("%s[%d]", base, i)
}
