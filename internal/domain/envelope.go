package domain

import (
	"encoding/json"
	"strings"
)

// Deprecation signal shared by the mock server and the classifier.
const (
	ErrorAPIVersionDeprecated = "API_VERSION_DEPRECATED"
	DeprecationMessage        = "Please migrate to /api/v2/orders"
)

// ResponseEnvelope is the minimal view of an HTTP response the core consumes.
// Body is nil when the payload was not a JSON object.
type ResponseEnvelope struct {
	StatusCode int            `json:"statusCode"`
	Body       map[string]any `json:"body"`
}

// ParseEnvelope builds an envelope from a status code and a raw body.
// Bodies that are not JSON objects leave Body nil instead of failing.
func ParseEnvelope(status int, body []byte) ResponseEnvelope {
	env := ResponseEnvelope{StatusCode: status}
	if m, err := decodeObject(body); err == nil {
		env.Body = m
	}
	return env
}

// ParseEnvelopeDocument decodes a {statusCode, body} document as written in
// fixture files and by external harnesses.
func ParseEnvelopeDocument(data []byte) (ResponseEnvelope, error) {
	var raw struct {
		StatusCode int             `json:"statusCode"`
		Body       json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return ResponseEnvelope{}, &OpError{
			Op:   "envelope.parse",
			Kind: KindInvalidPayload,
			Err:  err,
		}
	}
	return ParseEnvelope(raw.StatusCode, raw.Body), nil
}

// ParseIncludeItems resolves the boolean-ish includeItems query value.
func ParseIncludeItems(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
