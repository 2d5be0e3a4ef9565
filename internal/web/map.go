// Package web renders the static map page.
package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/ekomapa/geolayers/internal/layers"
)

//go:embed templates/map.html
var templates embed.FS

var mapTmpl = template.Must(template.ParseFS(templates, "templates/map.html"))

// MapPage serves the Leaflet viewer listing every registered layer.
func MapPage(logger *slog.Logger) http.HandlerFunc {
	type layerView struct {
		Slug string
		Name string
	}
	return func(w http.ResponseWriter, r *http.Request) {
		views := make([]layerView, 0, 2)
		for _, l := range layers.All() {
			views = append(views, layerView{Slug: l.Slug, Name: l.Name})
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := mapTmpl.Execute(w, views); err != nil {
			logger.Error("render map page", "err", err)
		}
	}
}
