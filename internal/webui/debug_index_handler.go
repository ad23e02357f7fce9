package webui

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"disruptions.onebusaway.org/internal/appconf"
	"disruptions.onebusaway.org/internal/gtfs"
	"disruptions.onebusaway.org/internal/logging"
	"github.com/davecgh/go-spew/spew"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

var debugDataTypes = []string{"disruptions", "tables", "routes", "stops", "warnings"}

type debugData struct {
	Title     string
	Pre       string
	DataTypes []string
}

func (webUI *WebUI) logger() *slog.Logger {
	if webUI.Application == nil || webUI.Logger == nil {
		return slog.Default()
	}
	return webUI.Logger
}

func (webUI *WebUI) writeDebugData(w http.ResponseWriter, title string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := debugTemplate.Execute(w, debugData{
		Title:     title,
		Pre:       spew.Sdump(data),
		DataTypes: debugDataTypes,
	})
	if err != nil {
		logging.LogError(webUI.logger(), "failed to execute debug template", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	if webUI.Application == nil || webUI.Config.Env == appconf.Production {
		http.NotFound(w, r)
		return
	}

	var data any
	var title string

	switch r.URL.Query().Get("dataType") {
	case "disruptions":
		title = "Disruptions"
		if webUI.Disruptions == nil {
			data = "disruption service not configured"
			break
		}
		list, err := webUI.Disruptions.List(r.Context(), "")
		if err != nil {
			logging.LogError(webUI.logger(), "debug page failed to list disruptions", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		data = list
	case "tables":
		title = "Database - Row Counts"
		if webUI.Store == nil {
			data = "database not configured"
			break
		}
		counts, err := webUI.Store.TableCounts()
		if err != nil {
			logging.LogError(webUI.logger(), "debug page failed to count rows", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		data = counts
	case "routes":
		title = "GTFS Static - Routes"
		data = webUI.staticData(func(m *gtfs.Manager) any { return m.GetRoutes() })
	case "stops":
		title = "GTFS Static - Stops"
		data = webUI.staticData(func(m *gtfs.Manager) any { return m.GetStops() })
	case "warnings":
		title = "GTFS Static - Parse Warnings"
		data = webUI.staticData(func(m *gtfs.Manager) any {
			if static := m.GetStaticData(); static != nil {
				return static.Warnings
			}
			return nil
		})
	default:
		title = "Choose a data type"
		data = map[string]any{
			"error":     "Please use one of the following data types.",
			"dataTypes": debugDataTypes,
		}
	}

	webUI.writeDebugData(w, title, data)
}

func (webUI *WebUI) staticData(pick func(m *gtfs.Manager) any) any {
	if !webUI.HasCatalog() {
		return "transit catalog not loaded"
	}
	return pick(webUI.GtfsManager)
}
