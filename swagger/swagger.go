package swagger

import (
	"embed"
	"net/http"
)

//go:embed openapi.yaml
var content embed.FS

// Handler serves the embedded OpenAPI document at /openapi.yaml.
func Handler() http.Handler {
	return http.FileServer(http.FS(content))
}
