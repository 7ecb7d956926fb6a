package orderclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the order API. Message is the
// response's detail flattened into one human-readable line.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{StatusCode: status, Message: FlattenDetail(status, body)}
}

// FlattenDetail turns an error body of the form {"detail": ...} into a single
// message. detail may be a string, an object, or a list of {loc, msg}
// validation errors.
func FlattenDetail(status int, body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if msg := flattenValue(envelope.Detail); msg != "" {
			return msg
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("Request failed: %s", text)
	}
	return fmt.Sprintf("Request failed with status %d", status)
}

func flattenValue(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return s
		}
	case '[':
		var list []json.RawMessage
		if json.Unmarshal(raw, &list) == nil {
			parts := make([]string, 0, len(list))
			for _, el := range list {
				if msg := flattenEntry(el); msg != "" {
					parts = append(parts, msg)
				}
			}
			return strings.Join(parts, "; ")
		}
	case '{':
		var obj map[string]json.RawMessage
		if json.Unmarshal(raw, &obj) == nil {
			for _, key := range []string{"message", "msg", "detail"} {
				if v, ok := obj[key]; ok {
					if msg := flattenValue(v); msg != "" {
						return msg
					}
				}
			}
		}
		var compact bytes.Buffer
		if json.Compact(&compact, raw) == nil {
			return compact.String()
		}
	}
	return string(raw)
}

// flattenEntry renders one validation error as "loc: msg".
func flattenEntry(raw json.RawMessage) string {
	var entry struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Msg == "" {
		return flattenValue(raw)
	}

	loc := make([]string, 0, len(entry.Loc))
	for i, part := range entry.Loc {
		s := fmt.Sprint(part)
		if i == 0 && s == "body" {
			continue
		}
		loc = append(loc, s)
	}
	if len(loc) == 0 {
		return entry.Msg
	}
	return strings.Join(loc, ".") + ": " + entry.Msg
}
