package extractor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/oliveagle/jsonpath"
)

var (
	// ErrMalformedBody is returned when the request body is not valid JSON
	ErrMalformedBody = errors.New("request body is not valid JSON")
	// ErrMissingKey is returned when the key is absent, null or empty
	ErrMissingKey = errors.New("job key is missing")
	// ErrInvalidKey is returned when the key is not a string
	ErrInvalidKey = errors.New("job key must be a string")
)

// KeyExtractor pulls the job key out of a submit request body
type KeyExtractor struct {
	expression string
	pattern    *jsonpath.Compiled
}

// New compiles the JSONPath expression that locates the job key
func New(expression string) (*KeyExtractor, error) {
	pattern, err := jsonpath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath expression '%s': %w", expression, err)
	}

	return &KeyExtractor{
		expression: expression,
		pattern:    pattern,
	}, nil
}

// Expression returns the JSONPath expression the extractor was built with
func (e *KeyExtractor) Expression() string {
	return e.expression
}

// Extract returns the job key found in body
func (e *KeyExtractor) Extract(body []byte) (string, error) {
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	// Lookup fails for missing fields and for non-object documents alike.
	value, err := e.pattern.Lookup(data)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrMissingKey, e.expression)
	}

	switch v := value.(type) {
	case nil:
		return "", fmt.Errorf("%w: %s", ErrMissingKey, e.expression)
	case []interface{}:
		// Key lookups on arrays collect matches from each element.
		if len(v) == 0 {
			return "", fmt.Errorf("%w: %s", ErrMissingKey, e.expression)
		}
		return "", fmt.Errorf("%w: got %T", ErrInvalidKey, value)
	case string:
		if strings.TrimSpace(v) == "" {
			return "", fmt.Errorf("%w: %s", ErrMissingKey, e.expression)
		}
		return v, nil
	default:
		return "", fmt.Errorf("%w: got %T", ErrInvalidKey, value)
	}
}
