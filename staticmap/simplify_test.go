package staticmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Simplify(t *testing.T) {
	points := []Point{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 2, Y: 0},
		{X: 10, Y: 0},
		{X: 10.5, Y: 0},
		{X: 20, Y: 0},
	}

	got := Simplify(points, 5)

	expected := []Point{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 20, Y: 0},
	}
	assert.Equal(t, expected, got)
}

func Test_Simplify_Idempotent(t *testing.T) {
	points := []Point{
		{X: 0, Y: 0},
		{X: 3, Y: 4},
		{X: 6, Y: 8},
		{X: 30, Y: 40},
		{X: 31, Y: 41},
	}

	for _, tolerance := range []float64{0, 1, 5, 100} {
		once := Simplify(points, tolerance)
		twice := Simplify(once, tolerance)
		assert.Equal(t, once, twice, "tolerance %f", tolerance)
	}
}

func Test_Simplify_EndpointsPreserved(t *testing.T) {
	points := []Point{
		{X: 0, Y: 0},
		{X: 0.1, Y: 0.1},
		{X: 0.2, Y: 0.2},
	}

	got := Simplify(points, 1000)

	assert.Equal(t, points[0], got[0])
	assert.Equal(t, points[len(points)-1], got[len(got)-1])
}

func Test_Simplify_ShortInputsUnchanged(t *testing.T) {
	assert.Empty(t, Simplify(nil, 5))

	onePoint := []Point{{X: 1, Y: 2}}
	assert.Equal(t, onePoint, Simplify(onePoint, 5))

	twoPoints := []Point{{X: 1, Y: 2}, {X: 1.5, Y: 2.5}}
	assert.Equal(t, twoPoints, Simplify(twoPoints, 5))
}
