package strategy

import (
	"balloon-geo/internal/boundary"
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(name string, x0, y0, s float64) boundary.Region {
	return boundary.Region{Name: name, Kind: boundary.KindPolygon, Groups: []boundary.Polygon{
		boundary.NewPolygon(boundary.Ring{{Lon: x0, Lat: y0}, {Lon: x0 + s, Lat: y0}, {Lon: x0 + s, Lat: y0 + s}, {Lon: x0, Lat: y0 + s}}),
	}}
}

func allStrategies(t *testing.T, regions []boundary.Region) []Strategy {
	t.Helper()
	p, err := NewPrecise(regions)
	require.NoError(t, err)
	return []Strategy{p, NewPure(regions), NewDegraded(regions)}
}

const francia = `{"type":"FeatureCollection","features":[
  {"type":"Feature","properties":{"NAME":"Francia"},
   "geometry":{"type":"Polygon","coordinates":[[[2,48],[3,48],[3,49],[2,49]]]}}]}`

func writeDataset(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestFrancia(t *testing.T) {
	t.Parallel()

	regions, err := boundary.Load(writeDataset(t, francia))
	require.NoError(t, err)

	for _, s := range allStrategies(t, regions) {
		assert.Equal(t, "Francia", s.Resolve(48.5, 2.5), s.Name())
		assert.Equal(t, boundary.UnknownName, s.Resolve(10, 10), s.Name())
	}
}

func TestDisjointSameName(t *testing.T) {
	t.Parallel()

	regions := []boundary.Region{square("Disjoint", 0, 0, 1), square("Disjoint", 10, 10, 1)}
	for _, s := range allStrategies(t, regions) {
		assert.Equal(t, "Disjoint", s.Resolve(10.5, 10.5), s.Name())
		assert.Equal(t, "Disjoint", s.Resolve(0.5, 0.5), s.Name())
		assert.Equal(t, boundary.UnknownName, s.Resolve(5, 5), s.Name())
	}
}

func TestFirstRegionWins(t *testing.T) {
	t.Parallel()

	// 第二个区域完全覆盖第一个；源顺序在前者优先
	regions := []boundary.Region{square("Inner", 1, 1, 1), square("Outer", 0, 0, 5)}
	for _, s := range allStrategies(t, regions) {
		assert.Equal(t, "Inner", s.Resolve(1.5, 1.5), s.Name())
		assert.Equal(t, "Outer", s.Resolve(4, 4), s.Name())
	}

	regions = []boundary.Region{square("Outer", 0, 0, 5), square("Inner", 1, 1, 1)}
	for _, s := range allStrategies(t, regions) {
		assert.Equal(t, "Outer", s.Resolve(1.5, 1.5), s.Name())
	}
}

func TestStrategiesAgreeOnSimplePolygons(t *testing.T) {
	t.Parallel()

	rnd := rand.New(rand.NewSource(7))
	var regions []boundary.Region
	for i := 0; i < 40; i++ {
		x0 := float64(i%8)*20 - 80
		y0 := float64(i/8)*20 - 50
		if i%2 == 0 {
			regions = append(regions, square("sq", x0, y0, 5+rnd.Float64()*5))
			continue
		}
		regions = append(regions, boundary.Region{Name: "tri", Groups: []boundary.Polygon{boundary.NewPolygon(boundary.Ring{
			{Lon: x0, Lat: y0}, {Lon: x0 + 10, Lat: y0}, {Lon: x0 + 5, Lat: y0 + 10},
		})}})
	}
	ss := allStrategies(t, regions)
	for i := 0; i < 3000; i++ {
		lat := rnd.Float64()*120 - 60
		lon := rnd.Float64()*200 - 100
		want := ss[1].Resolve(lat, lon)
		assert.Equal(t, want, ss[0].Resolve(lat, lon), "precise vs pure at %v,%v", lat, lon)
		assert.Equal(t, want, ss[2].Resolve(lat, lon), "degraded vs pure at %v,%v", lat, lon)
	}
}

func TestNewPreciseRejectsNonFinite(t *testing.T) {
	t.Parallel()

	_, err := NewPrecise([]boundary.Region{square("bad", math.NaN(), 0, 1)})
	assert.True(t, errors.Is(err, ErrIndexBuild))
}

func TestSelect(t *testing.T) {
	t.Parallel()

	good := writeDataset(t, francia)

	t.Run("precise preferred", func(t *testing.T) {
		t.Parallel()
		s, err := Select(good, VariantPrecise)
		require.NoError(t, err)
		assert.Equal(t, "precise", s.Name())
		assert.Equal(t, 1, s.Regions())
	})

	t.Run("pure preferred", func(t *testing.T) {
		t.Parallel()
		s, err := Select(good, VariantPure)
		require.NoError(t, err)
		assert.Equal(t, "pure", s.Name())
	})

	t.Run("missing file degrades", func(t *testing.T) {
		t.Parallel()
		s, err := Select(filepath.Join(t.TempDir(), "absent.json"), VariantPrecise)
		require.NoError(t, err)
		assert.Equal(t, "degraded", s.Name())
		assert.Equal(t, 0, s.Regions())
		assert.Equal(t, boundary.UnknownName, s.Resolve(48.5, 2.5))
	})

	t.Run("malformed file has no strategy", func(t *testing.T) {
		t.Parallel()
		s, err := Select(writeDataset(t, `{"features":`), VariantPrecise)
		assert.Error(t, err)
		assert.Nil(t, s)
	})
}

func TestParseVariant(t *testing.T) {
	t.Parallel()

	assert.Equal(t, VariantPure, ParseVariant("pure"))
	assert.Equal(t, VariantDegraded, ParseVariant("degraded"))
	assert.Equal(t, VariantPrecise, ParseVariant(""))
	assert.Equal(t, VariantPrecise, ParseVariant("shapely"))
}
