// Package geojson turns query result rows into GeoJSON feature collections.
package geojson

import (
	"encoding/json"
	"fmt"
)

// Column names excluded from feature properties. Both may be present at once
// when a raw geometry column is selected alongside the computed one.
const (
	geometryColumn = "geometry"
	rawGeomColumn  = "geom"
)

// Row is an ordered column-name-to-value mapping produced by a single query.
// Column order comes from the statement descriptor. Rows are not mutated
// after construction.
type Row struct {
	columns []string
	values  map[string]any
}

func NewRow(columns []string, values map[string]any) Row {
	cols := make([]string, len(columns))
	copy(cols, columns)
	vals := make(map[string]any, len(values))
	for k, v := range values {
		vals[k] = v
	}
	return Row{columns: cols, values: vals}
}

// Columns returns the column names in result-descriptor order.
func (r Row) Columns() []string {
	cols := make([]string, len(r.columns))
	copy(cols, r.columns)
	return cols
}

func (r Row) Value(column string) (any, bool) {
	v, ok := r.values[column]
	return v, ok
}

type Feature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// MalformedGeometryError reports a present geometry value that is not valid JSON.
type MalformedGeometryError struct {
	RowIndex int
	Value    string
	Err      error
}

func (e *MalformedGeometryError) Error() string {
	return fmt.Sprintf("row %d: malformed geometry: %v", e.RowIndex, e.Err)
}

func (e *MalformedGeometryError) Unwrap() error { return e.Err }

// Translate maps rows into a FeatureCollection. Rows whose geometry column is
// missing, nil, or an empty string are dropped; a present geometry that does
// not parse as JSON fails the whole translation with *MalformedGeometryError.
// Feature order matches row order.
func Translate(rows []Row) (*FeatureCollection, error) {
	fc := &FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]Feature, 0, len(rows)),
	}

	for i, row := range rows {
		geomText, ok := geometryText(row)
		if !ok {
			continue
		}

		geom, err := parseGeometry(geomText)
		if err != nil {
			return nil, &MalformedGeometryError{RowIndex: i, Value: geomText, Err: err}
		}

		props := make(map[string]any, len(row.columns))
		for _, col := range row.columns {
			if col == geometryColumn || col == rawGeomColumn {
				continue
			}
			props[col] = row.values[col]
		}

		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			Properties: props,
			Geometry:   geom,
		})
	}

	return fc, nil
}

// geometryText reports the geometry column's text, with ok=false when the
// row carries no usable geometry (absent, nil, or empty string).
func geometryText(row Row) (string, bool) {
	v, ok := row.values[geometryColumn]
	if !ok || v == nil {
		return "", false
	}
	s, isString := v.(string)
	if !isString {
		// Non-string geometry values come from drivers that decode bytea
		// upstream; stringify and let the JSON parse decide.
		s = fmt.Sprint(v)
	}
	if s == "" {
		return "", false
	}
	return s, true
}

func parseGeometry(text string) (json.RawMessage, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if probe.Type == "" {
		return nil, fmt.Errorf(`missing geometry "type"`)
	}
	return json.RawMessage(text), nil
}
