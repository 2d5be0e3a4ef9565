// Package layers holds the fixed layer query definitions. These are
// configuration data, not logic: one static SQL string per layer, selecting
// every column plus the geometry serialized to GeoJSON by the database.
package layers

import "fmt"

type Layer struct {
	// Slug is the URL path segment under /api/layers/.
	Slug string
	// Name is a human-readable dataset name.
	Name string
	// SQL selects all columns plus ST_AsGeoJSON(geom) aliased "geometry".
	SQL string
}

var registry = []Layer{
	{
		Slug: "korytarze",
		Name: "Korytarze ekologiczne",
		SQL:  `SELECT *, ST_AsGeoJSON(geom) AS geometry FROM public."KorytarzeEkologiczne"`,
	},
	{
		Slug: "jcwprzeczne",
		Name: "JCWP rzeczne",
		SQL:  `SELECT *, ST_AsGeoJSON(geom) AS geometry FROM public."JCWPRzeczne"`,
	},
}

// ErrUnknownLayer is returned by Lookup for slugs outside the registry.
type ErrUnknownLayer struct {
	Slug string
}

func (e *ErrUnknownLayer) Error() string {
	return fmt.Sprintf("unknown layer %q", e.Slug)
}

func Lookup(slug string) (Layer, error) {
	for _, l := range registry {
		if l.Slug == slug {
			return l, nil
		}
	}
	return Layer{}, &ErrUnknownLayer{Slug: slug}
}

// All returns the registered layers in declaration order.
func All() []Layer {
	out := make([]Layer, len(registry))
	copy(out, registry)
	return out
}
