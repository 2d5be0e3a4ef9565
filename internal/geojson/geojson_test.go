package geojson

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func row(cols []string, vals map[string]any) Row {
	return NewRow(cols, vals)
}

func TestTranslate_EmptyInput_ReturnsEmptyCollection(t *testing.T) {
	fc, err := Translate(nil)
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	if fc.Type != "FeatureCollection" {
		t.Fatalf("type=%q want FeatureCollection", fc.Type)
	}
	if len(fc.Features) != 0 {
		t.Fatalf("features len=%d want 0", len(fc.Features))
	}

	b, err := json.Marshal(fc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"type":"FeatureCollection","features":[]}` {
		t.Fatalf("marshaled=%s", b)
	}
}

func TestTranslate_DropsRowsWithoutGeometry(t *testing.T) {
	rows := []Row{
		row([]string{"id", "name", "geometry"}, map[string]any{
			"id": 1, "name": "A", "geometry": `{"type":"Point","coordinates":[1,2]}`,
		}),
		row([]string{"id", "name", "geometry"}, map[string]any{
			"id": 2, "name": "B", "geometry": "",
		}),
		row([]string{"id", "name", "geometry"}, map[string]any{
			"id": 3, "name": "C", "geometry": nil,
		}),
		row([]string{"id", "name"}, map[string]any{
			"id": 4, "name": "D",
		}),
	}

	fc, err := Translate(rows)
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("features len=%d want 1", len(fc.Features))
	}
	if got := fc.Features[0].Properties["id"]; got != 1 {
		t.Fatalf("surviving feature id=%v want 1", got)
	}
}

func TestTranslate_ExcludesGeometryKeysFromProperties(t *testing.T) {
	rows := []Row{
		row([]string{"id", "name", "geom", "geometry"}, map[string]any{
			"id":       3,
			"name":     "C",
			"geom":     "raw",
			"geometry": `{"type":"Point","coordinates":[0,0]}`,
		}),
	}

	fc, err := Translate(rows)
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	want := map[string]any{"id": 3, "name": "C"}
	if !reflect.DeepEqual(fc.Features[0].Properties, want) {
		t.Fatalf("properties=%v want %v", fc.Features[0].Properties, want)
	}
}

func TestTranslate_PreservesRowOrder(t *testing.T) {
	point := `{"type":"Point","coordinates":[0,0]}`
	rows := []Row{
		row([]string{"id", "geometry"}, map[string]any{"id": "x", "geometry": point}),
		row([]string{"id", "geometry"}, map[string]any{"id": "skip", "geometry": ""}),
		row([]string{"id", "geometry"}, map[string]any{"id": "y", "geometry": point}),
		row([]string{"id", "geometry"}, map[string]any{"id": "z", "geometry": point}),
	}

	fc, err := Translate(rows)
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	var ids []string
	for _, f := range fc.Features {
		ids = append(ids, f.Properties["id"].(string))
	}
	want := []string{"x", "y", "z"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("ids=%v want %v", ids, want)
	}
}

func TestTranslate_GeometryRoundTrip(t *testing.T) {
	src := `{"type":"MultiPolygon","coordinates":[[[[19.1,52.2],[19.3,52.2],[19.3,52.4],[19.1,52.2]]]]}`
	rows := []Row{
		row([]string{"id", "geometry"}, map[string]any{"id": 1, "geometry": src}),
	}

	fc, err := Translate(rows)
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}

	reSerialized, err := json.Marshal(fc.Features[0].Geometry)
	if err != nil {
		t.Fatalf("marshal geometry: %v", err)
	}

	var got, want any
	if err := json.Unmarshal(reSerialized, &got); err != nil {
		t.Fatalf("unmarshal re-serialized: %v", err)
	}
	if err := json.Unmarshal([]byte(src), &want); err != nil {
		t.Fatalf("unmarshal source: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round-trip mismatch:\ngot  %v\nwant %v", got, want)
	}
}

func TestTranslate_MalformedGeometry_SurfacesError(t *testing.T) {
	tests := []struct {
		name string
		geom string
	}{
		{"truncated", `{not valid json`},
		{"typeless-object", `{"coordinates":[0,0]}`},
		{"bare-array", `[1,2]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rows := []Row{
				row([]string{"id", "geometry"}, map[string]any{"id": 9, "geometry": tc.geom}),
			}
			_, err := Translate(rows)
			var me *MalformedGeometryError
			if !errors.As(err, &me) {
				t.Fatalf("err=%v want *MalformedGeometryError", err)
			}
			if me.RowIndex != 0 {
				t.Fatalf("RowIndex=%d want 0", me.RowIndex)
			}
		})
	}
}

func TestRow_IsCopiedOnConstruction(t *testing.T) {
	cols := []string{"id"}
	vals := map[string]any{"id": 1}
	r := NewRow(cols, vals)

	cols[0] = "mutated"
	vals["id"] = 99

	if got := r.Columns()[0]; got != "id" {
		t.Fatalf("columns[0]=%q want id", got)
	}
	if v, _ := r.Value("id"); v != 1 {
		t.Fatalf("value=%v want 1", v)
	}
}
