package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/ardanlabs/ledger/foundation/validate"
	"github.com/dimfeld/httptreemux/v5"
)

// Param returns the web call parameters from the request.
func Param(r *http.Request, key string) string {
	m := httptreemux.ContextParams(r.Context())
	return m[key]
}

// Decode reads the body of an HTTP request looking for a JSON document. The
// body is decoded into the provided value.
//
// If the provided value is a struct then it is checked for validation tags.
func Decode(r *http.Request, val any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(val); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	if !isStruct(val) {
		return nil
	}

	if err := validate.Check(val); err != nil {
		return err
	}

	return nil
}

// maxBodyBytes caps the size of a raw request body.
const maxBodyBytes = 32 << 20

// ReadBody returns the raw body of an HTTP request for handlers that need to
// decode the document themselves.
func ReadBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("unable to read payload: %w", err)
	}

	if len(data) > maxBodyBytes {
		return nil, fmt.Errorf("payload is larger than %d bytes", maxBodyBytes)
	}

	return data, nil
}

// isStruct reports whether the value is a struct or a pointer to one.
func isStruct(val any) bool {
	t := reflect.TypeOf(val)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t != nil && t.Kind() == reflect.Struct
}
