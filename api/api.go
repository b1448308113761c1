// Package api carries the HTTP contract. The servers package mirrors it and
// the HTTP adapter validates requests against it.
package api

import _ "embed"

//go:embed openapi.yaml
var OpenAPI []byte
