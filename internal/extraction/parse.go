package extraction

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"docintake/internal/model"
)

var errNotObject = errors.New("response is not a JSON object")

// ParseExtraction decodes an upstream answer into a PageExtraction.
//
// The body must be a JSON object (optionally wrapped in a markdown code fence), otherwise a
// *ParseError is returned. Answers that do not match Schema are coerced instead of rejected:
// missing or mistyped scalars become nil, authors falls back to an empty list. String values
// are kept verbatim, blank ones included. The second return value is the schema violation
// that forced coercion, or "" when the answer is compliant.
func ParseExtraction(raw []byte) (model.PageExtraction, string, error) {
	body := stripCodeFence(bytes.TrimSpace(raw))

	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return model.PageExtraction{}, "", &ParseError{Content: truncate(string(raw), 512), Err: err}
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return model.PageExtraction{}, "", &ParseError{Content: truncate(string(raw), 512), Err: errNotObject}
	}

	out := model.PageExtraction{
		Title:      scalar(doc["title"]),
		Authors:    authors(doc["authors"]),
		Department: scalar(doc["department"]),
		Data:       scalar(doc["data"]),
	}
	var mismatch string
	if err := Validate(doc); err != nil {
		mismatch = err.Error()
	}
	return out, mismatch, nil
}

func stripCodeFence(b []byte) []byte {
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	s := string(b)
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop an info string such as "json"
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return []byte(strings.TrimSpace(s))
}

// scalar keeps any string as is and maps everything else to nil.
func scalar(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

// authors keeps string members in their original order. A bare string is one author.
func authors(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case string:
		out = append(out, t)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}
