// Package webui serves the developer debug pages.
package webui

import (
	"net/http"

	"disruptions.onebusaway.org/internal/app"
)

type WebUI struct {
	*app.Application
}

func (webUI *WebUI) SetWebUIRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /debug", webUI.debugIndexHandler)
}
