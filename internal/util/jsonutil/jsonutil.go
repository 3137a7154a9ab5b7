package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ParseError reports text that could not be decoded as JSON.
type ParseError struct {
	Err     error
	Snippet string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("jsonutil: invalid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

const snippetLen = 120

// Parse decodes text into maps, slices and scalars. A double-encoded
// document (see UnwrapString) decodes to the inner document.
func Parse(text string) (any, error) {
	text = UnwrapString(text)
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, &ParseError{Err: describe(text, err), Snippet: snippet(text)}
	}
	return v, nil
}

// UnwrapString returns the inner document when text is a JSON string literal
// whose content is itself an object or array, e.g. "{\"scenes\":[]}".
// Any other text comes back unchanged.
func UnwrapString(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, `"`) {
		return text
	}
	var s string
	if err := json.Unmarshal([]byte(trimmed), &s); err != nil {
		return text
	}
	inner := strings.TrimSpace(s)
	if (strings.HasPrefix(inner, "{") || strings.HasPrefix(inner, "[")) && json.Valid([]byte(inner)) {
		return inner
	}
	return text
}

// describe adds the byte offset to syntax errors.
func describe(text string, err error) error {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return fmt.Errorf("%w (offset %d)", err, syn.Offset)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w (empty input)", err)
	}
	return err
}

func snippet(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= snippetLen {
		return text
	}
	return text[:snippetLen] + "..."
}

// MarshalNoEscape encodes v into JSON without escaping <, >, & into \u003c, etc.
func MarshalNoEscape(v any) ([]byte, error) {
	return encode(v, "")
}

// MarshalNoEscapeIndent is MarshalNoEscape with indentation.
func MarshalNoEscapeIndent(v any, indent string) ([]byte, error) {
	return encode(v, indent)
}

func encode(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Remove trailing newline from json.Encoder.Encode
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
