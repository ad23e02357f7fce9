package app

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// APIKeyHeader is accepted in place of the key query parameter.
const APIKeyHeader = "X-API-Key"

// APIKey returns the key a request authenticates with. The query parameter
// takes precedence over the header.
func APIKey(r *http.Request) string {
	if key := r.URL.Query().Get("key"); key != "" {
		return key
	}
	return strings.TrimSpace(r.Header.Get(APIKeyHeader))
}

func (app *Application) RequestHasInvalidAPIKey(r *http.Request) bool {
	return app.IsInvalidAPIKey(APIKey(r))
}

func (app *Application) IsInvalidAPIKey(key string) bool {
	if key == "" {
		return true
	}

	for _, validKey := range app.Config.ApiKeys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(validKey)) == 1 {
			return false
		}
	}
	return true
}
