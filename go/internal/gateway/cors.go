package gateway

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORS builds the CORS middleware for the HTTP surface. An empty origin
// list allows every origin.
func NewCORS(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: origins,
		AllowedHeaders: []string{"*"},
	})
}
