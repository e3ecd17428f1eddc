package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// RefOf returns a pointer to the specified value
func RefOf[T any](value T) *T {
	return &value
}

// Converts a pointer to a value type
// If the ptr is nil returns default value, otherwise the value of the pointer
func ToValueWithDefault[T any](ptr *T, defaultValue T) T {
	if ptr == nil {
		return defaultValue
	}

	if str, ok := any(ptr).(*string); ok && *str == "" {
		return defaultValue
	}

	return *ptr
}

// Serializes the specified value into a ReadCloser suitable for a raw HTTP request body
func ToHttpRequestBody(value any) (io.ReadCloser, error) {
	jsonBytes, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed serializing request body: %w", err)
	}

	return io.NopCloser(bytes.NewBuffer(jsonBytes)), nil
}
