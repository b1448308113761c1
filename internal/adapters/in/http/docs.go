package http

import (
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

var registerDocOnce sync.Once

// openAPIDoc serves the contract the router validates against, so the
// swagger UI and the validator never drift apart.
type openAPIDoc struct {
	json string
}

func (d openAPIDoc) ReadDoc() string {
	return d.json
}

// registerDoc publishes swagger to swaggo once per process. swag panics on
// a second registration under the same name.
func registerDoc(swagger *openapi3.T) error {
	raw, err := swagger.MarshalJSON()
	if err != nil {
		return err
	}

	registerDocOnce.Do(func() {
		swag.Register(swag.Name, openAPIDoc{json: string(raw)})
	})
	return nil
}
