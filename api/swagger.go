// Package api holds the OpenAPI document of the HTTP server and the
// request plumbing derived from it.
package api

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	nethttpmiddleware "github.com/oapi-codegen/nethttp-middleware"
)

//go:embed openapi.yaml
var document []byte

// GetSwagger returns the parsed and validated OpenAPI document. Each call
// returns a new copy the caller may modify.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("error loading OpenAPI document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}
	return doc, nil
}

// ErrorHandler writes a validation failure.
type ErrorHandler func(w http.ResponseWriter, message string, statusCode int)

// RequestValidator returns middleware that rejects requests which do not
// match the document. Servers are dropped so any host is accepted.
func RequestValidator(onError ErrorHandler) (func(http.Handler) http.Handler, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	doc.Servers = nil

	opts := &nethttpmiddleware.Options{}
	if onError != nil {
		opts.ErrorHandler = nethttpmiddleware.ErrorHandler(onError)
	}
	return nethttpmiddleware.OapiRequestValidatorWithOptions(doc, opts), nil
}
