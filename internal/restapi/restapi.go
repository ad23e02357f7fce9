// Package restapi serves the JSON API the disruption forms talk to.
package restapi

import (
	"time"

	"disruptions.onebusaway.org/internal/app"
	"disruptions.onebusaway.org/internal/clock"
	"github.com/go-playground/validator/v10"
)

// RestAPI binds the HTTP handlers to the application dependencies.
type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
	validate    *validator.Validate
}

// NewRestAPI creates the API. Call Shutdown to stop the rate limiter cleanup.
func NewRestAPI(application *app.Application) *RestAPI {
	if application.Clock == nil {
		application.Clock = clock.RealClock{}
	}
	return &RestAPI{
		Application: application,
		rateLimiter: NewRateLimitMiddleware(application.Config.RateLimit, time.Second, application.Config.ExemptApiKeys, application.Clock),
		validate:    newValidator(),
	}
}

func (api *RestAPI) Shutdown() {
	if api.rateLimiter != nil {
		api.rateLimiter.Stop()
	}
}
