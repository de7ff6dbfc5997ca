// Package api carries the OpenAPI document of the REST service.
package api

import _ "embed"

//go:embed openapi.yml
var OpenAPI []byte
