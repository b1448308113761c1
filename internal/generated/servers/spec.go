package servers

import (
	"fmt"

	"sendit/api"

	"github.com/getkin/kin-openapi/openapi3"
)

// GetSwagger parses the embedded contract. Each call returns a fresh
// document, so callers may mutate it.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	swagger, err := loader.LoadFromData(api.OpenAPI)
	if err != nil {
		return nil, fmt.Errorf("error loading openapi document: %w", err)
	}
	return swagger, nil
}
