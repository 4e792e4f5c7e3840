package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RawRequest is the decoded request body. A nil map means the body was absent.
type RawRequest map[string]any

// Prompt is a trimmed, non-empty prompt. Only Validate produces one.
type Prompt string

const promptField = "prompt"

const errPromptRequired = `please provide a "prompt" in the request body`

// DecodeRawRequest parses a JSON object body. Numbers are kept as json.Number
// so that coercion in Validate sees the literal the caller sent.
func DecodeRawRequest(body []byte) (RawRequest, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, InvalidInput(errPromptRequired)
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw RawRequest
	if err := dec.Decode(&raw); err != nil {
		return nil, &Error{Kind: KindInvalidInput, Detail: "request body must be a JSON object", Err: err}
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, &Error{Kind: KindInvalidInput, Detail: "request body must be a single JSON object", Err: err}
	}
	return raw, nil
}

// Validate extracts the prompt field, coercing non-string values to their
// string form.
func Validate(raw RawRequest) (Prompt, error) {
	if raw == nil {
		return "", InvalidInput(errPromptRequired)
	}
	value, ok := raw[promptField]
	if !ok {
		return "", InvalidInput(errPromptRequired)
	}
	s, err := coerceString(value)
	if err != nil {
		return "", err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", InvalidInput(errPromptRequired)
	}
	return Prompt(s), nil
}

func coerceString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t), nil
	case bool:
		if t {
			return "True", nil
		}
		return "False", nil
	case nil:
		return "", InvalidInput(errPromptRequired)
	default:
		// Lists and objects are embedded in their compact JSON form.
		b, err := json.Marshal(t)
		if err != nil {
			return "", &Error{Kind: KindInvalidInput, Detail: "prompt has no string form", Err: err}
		}
		return string(b), nil
	}
}
