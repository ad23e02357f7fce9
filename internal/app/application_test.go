package app

import (
	"net/http/httptest"
	"testing"

	"disruptions.onebusaway.org/internal/appconf"
	"disruptions.onebusaway.org/internal/gtfs"
	"github.com/stretchr/testify/assert"
)

func TestIsInvalidAPIKey(t *testing.T) {
	application := &Application{Config: appconf.Config{ApiKeys: []string{"alpha", "beta"}}}

	assert.False(t, application.IsInvalidAPIKey("alpha"))
	assert.False(t, application.IsInvalidAPIKey("beta"))
	assert.True(t, application.IsInvalidAPIKey("gamma"))
	assert.True(t, application.IsInvalidAPIKey(""))
}

func TestRequestHasInvalidAPIKey(t *testing.T) {
	application := &Application{Config: appconf.Config{ApiKeys: []string{"alpha"}}}

	assert.False(t, application.RequestHasInvalidAPIKey(httptest.NewRequest("GET", "/api/disruptions?key=alpha", nil)))
	assert.True(t, application.RequestHasInvalidAPIKey(httptest.NewRequest("GET", "/api/disruptions", nil)))

	withHeader := httptest.NewRequest("GET", "/api/disruptions", nil)
	withHeader.Header.Set(APIKeyHeader, " alpha ")
	assert.False(t, application.RequestHasInvalidAPIKey(withHeader))

	queryWins := httptest.NewRequest("GET", "/api/disruptions?key=wrong", nil)
	queryWins.Header.Set(APIKeyHeader, "alpha")
	assert.True(t, application.RequestHasInvalidAPIKey(queryWins))
}

func TestHasCatalog(t *testing.T) {
	assert.False(t, (&Application{}).HasCatalog())
	assert.False(t, (&Application{GtfsManager: &gtfs.Manager{}}).HasCatalog())
}
