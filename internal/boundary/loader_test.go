package boundary

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

const dataset = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"NAME": "Francia", "ADMIN": "France", "name": "fr"},
     "geometry": {"type": "Polygon", "coordinates": [
        [[2,48],[3,48],[3,49],[2,49],[2,48]],
        [[2.4,48.4],[2.6,48.4],[2.6,48.6],[2.4,48.6],[2.4,48.4]]
     ]}},
    {"type": "Feature", "properties": {"ADMIN": "Islands"},
     "geometry": {"type": "MultiPolygon", "coordinates": [
        [[[10,10],[11,10],[11,11],[10,11],[10,10]]],
        [[[20,20],[21,20],[21,21,5],[20,21],[20,20]], [[20.2,20.2],[20.4,20.2],[20.4,20.4],[20.2,20.2]]]
     ]}},
    {"type": "Feature", "properties": {"name": "Pin"},
     "geometry": {"type": "Point", "coordinates": [1, 1]}},
    {"type": "Feature", "properties": {"NAME": "", "ADMIN": 7},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}},
    {"type": "Feature", "properties": null, "geometry": null}
  ]
}`

func TestLoad(t *testing.T) {
	t.Parallel()

	regions, err := Load(writeDataset(t, dataset))
	require.NoError(t, err)
	require.Len(t, regions, 3)

	fr := regions[0]
	assert.Equal(t, "Francia", fr.Name)
	assert.Equal(t, KindPolygon, fr.Kind)
	require.Len(t, fr.Groups, 1, "only the exterior ring is kept")
	assert.Len(t, fr.Groups[0].Ring, 5)
	assert.Equal(t, Point{Lon: 2, Lat: 48}, fr.Groups[0].Ring[0])
	assert.Equal(t, [4]float64{2, 48, 3, 49}, fr.Groups[0].BBox)

	isl := regions[1]
	assert.Equal(t, "Islands", isl.Name)
	assert.Equal(t, KindMultiPolygon, isl.Kind)
	require.Len(t, isl.Groups, 2)
	assert.Equal(t, Point{Lon: 21, Lat: 21}, isl.Groups[1].Ring[2], "extra position values are ignored")

	assert.Equal(t, UnknownName, regions[2].Name, "empty and non-string names collapse to Unknown")
}

func TestRegionName(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		props map[string]any
		want  string
	}{
		"NAME wins":        {map[string]any{"NAME": "A", "ADMIN": "B", "name": "C"}, "A"},
		"ADMIN over name":  {map[string]any{"ADMIN": "B", "name": "C"}, "B"},
		"lowercase name":   {map[string]any{"name": "C"}, "C"},
		"empty NAME skips": {map[string]any{"NAME": "", "name": "C"}, "C"},
		"nothing":          {map[string]any{}, UnknownName},
		"nil props":        {nil, UnknownName},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, regionName(tt.props))
		})
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeDataset(t, `{"features": [`))
		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.False(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("not a collection", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeDataset(t, `{}`))
		assert.Error(t, err)
	})

	t.Run("bad coordinates", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeDataset(t, `{"type":"FeatureCollection","features":[
			{"properties":{},"geometry":{"type":"Polygon","coordinates":"x"}}]}`))
		assert.Error(t, err)
	})
}

func TestLoadOrEmpty(t *testing.T) {
	t.Parallel()

	regions, err := LoadOrEmpty(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Empty(t, regions)

	_, err = LoadOrEmpty(writeDataset(t, `not json`))
	assert.Error(t, err, "only a missing file is tolerated")
}
