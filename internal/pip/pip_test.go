package pip

import (
	"balloon-geo/internal/boundary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ring(pts ...float64) boundary.Ring {
	r := make(boundary.Ring, 0, len(pts)/2)
	for i := 0; i+1 < len(pts); i += 2 {
		r = append(r, boundary.Point{Lon: pts[i], Lat: pts[i+1]})
	}
	return r
}

func region(name string, rings ...boundary.Ring) boundary.Region {
	r := boundary.Region{Name: name, Kind: boundary.KindPolygon}
	if len(rings) > 1 {
		r.Kind = boundary.KindMultiPolygon
	}
	for _, rg := range rings {
		r.Groups = append(r.Groups, boundary.Polygon{Ring: rg})
	}
	return r
}

func TestRingContains(t *testing.T) {
	t.Parallel()

	square := ring(2, 48, 3, 48, 3, 49, 2, 49)
	triangle := ring(0, 0, 10, 0, 5, 10)
	// concave "U": notch between x=1..2 above y=1
	u := ring(0, 0, 3, 0, 3, 3, 2, 3, 2, 1, 1, 1, 1, 3, 0, 3)

	tests := map[string]struct {
		ring     boundary.Ring
		lat, lon float64
		want     bool
	}{
		"square inside":      {square, 48.5, 2.5, true},
		"square outside":     {square, 10, 10, false},
		"square left":        {square, 48.5, 1.5, false},
		"square above":       {square, 49.5, 2.5, false},
		"triangle inside":    {triangle, 2, 5, true},
		"triangle outside":   {triangle, 9, 1, false},
		"u left arm":         {u, 2, 0.5, true},
		"u notch":            {u, 2, 1.5, false},
		"u right arm":        {u, 2, 2.5, true},
		"u base":             {u, 0.5, 1.5, true},
		"closed ring inside": {ring(2, 48, 3, 48, 3, 49, 2, 49, 2, 48), 48.5, 2.5, true},
		"empty ring":         {nil, 0, 0, false},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, RingContains(tt.ring, tt.lat, tt.lon))
		})
	}
}

// 随机轴对齐正方形：严格内部点必然命中，严格外部点必然不命中
func TestRingContainsSquaresProperty(t *testing.T) {
	t.Parallel()

	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		x0 := rnd.Float64()*300 - 150
		y0 := rnd.Float64()*140 - 70
		s := rnd.Float64()*10 + 0.01
		sq := ring(x0, y0, x0+s, y0, x0+s, y0+s, x0, y0+s)

		fx, fy := 0.01+rnd.Float64()*0.98, 0.01+rnd.Float64()*0.98
		assert.True(t, RingContains(sq, y0+fy*s, x0+fx*s), "inside case %d", i)
		assert.False(t, RingContains(sq, y0+fy*s, x0+s+1+rnd.Float64()), "right case %d", i)
		assert.False(t, RingContains(sq, y0+fy*s, x0-1-rnd.Float64()), "left case %d", i)
		assert.False(t, RingContains(sq, y0+s+1, x0+fx*s), "above case %d", i)
		assert.False(t, RingContains(sq, y0-1, x0+fx*s), "below case %d", i)
	}
}

func TestContainsMultiPolygon(t *testing.T) {
	t.Parallel()

	r := region("Disjoint", ring(0, 0, 1, 0, 1, 1, 0, 1), ring(5, 5, 6, 5, 6, 6, 5, 6))
	assert.True(t, Contains(r, 0.5, 0.5))
	assert.True(t, Contains(r, 5.5, 5.5), "any group counts")
	assert.False(t, Contains(r, 3, 3))
	assert.False(t, Contains(boundary.Region{Name: "empty"}, 0, 0))
}

func TestInBBox(t *testing.T) {
	t.Parallel()

	b := [4]float64{2, 48, 3, 49}
	assert.True(t, InBBox(b, 48.5, 2.5))
	assert.True(t, InBBox(b, 48, 2), "closed interval")
	assert.False(t, InBBox(b, 47.9, 2.5))
}
