package mocks

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// RefOf returns a pointer for the specified value.
func RefOf[T any](value T) *T {
	return &value
}

// CreateEmptyHttpResponse builds a bodyless response for the request.
func CreateEmptyHttpResponse(request *http.Request, statusCode int) (*http.Response, error) {
	return &http.Response{
		Request:    request,
		StatusCode: statusCode,
		Header:     http.Header{},
		Body:       http.NoBody,
	}, nil
}

// CreateHttpResponseWithBody builds a response carrying the JSON encoding of body.
func CreateHttpResponseWithBody[T any](
	request *http.Request,
	statusCode int,
	body T,
) (*http.Response, error) {
	jsonBytes, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	return &http.Response{
		Request:    request,
		StatusCode: statusCode,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBuffer(jsonBytes)),
	}, nil
}
