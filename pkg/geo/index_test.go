package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const originLat, originLon = 46.94897, 7.43915

func offsetPoint(id string, north float64, east float64) IndexPoint {
	lat, lon := Offset(originLat, originLon, north, east)
	return IndexPoint{ID: id, Latitude: lat, Longitude: lon}
}

func TestIndexWithin(t *testing.T) {
	index := NewIndex([]IndexPoint{
		offsetPoint("far", 0, 400),
		offsetPoint("b", 30, 0),
		offsetPoint("a", 0, 10),
		offsetPoint("edge", -60, 0),
	})

	neighbours := index.Within(originLat, originLon, 50, nil)
	require.Len(t, neighbours, 2)
	assert.Equal(t, "a", neighbours[0].ID)
	assert.InDelta(t, 10, neighbours[0].Distance, 0.01)
	assert.Equal(t, "b", neighbours[1].ID)

	filtered := index.Within(originLat, originLon, 50, func(id string) bool { return id != "a" })
	require.Len(t, filtered, 1)
	assert.Equal(t, "b", filtered[0].ID)
}

func TestIndexNearest(t *testing.T) {
	index := NewIndex([]IndexPoint{
		offsetPoint("x", 0, 120),
		offsetPoint("y", 90, 0),
		offsetPoint("z", -200, 0),
	})

	nearest, found := index.Nearest(originLat, originLon, nil)
	require.True(t, found)
	assert.Equal(t, "y", nearest.ID)

	nearest, found = index.Nearest(originLat, originLon, func(id string) bool { return id == "z" })
	require.True(t, found)
	assert.Equal(t, "z", nearest.ID)
	assert.InDelta(t, 200, nearest.Distance, 0.1)

	neighbours := index.KNearest(originLat, originLon, 2, nil)
	require.Len(t, neighbours, 2)
	assert.Equal(t, []string{"y", "x"}, []string{neighbours[0].ID, neighbours[1].ID})
}

func TestIndexTiesOrderedByID(t *testing.T) {
	index := NewIndex([]IndexPoint{
		{ID: "2", Latitude: originLat, Longitude: originLon},
		{ID: "1", Latitude: originLat, Longitude: originLon},
	})

	neighbours := index.Within(originLat, originLon, 1, nil)
	require.Len(t, neighbours, 2)
	assert.Equal(t, "1", neighbours[0].ID)
}

func TestEmptyIndex(t *testing.T) {
	index := NewIndex(nil)

	_, found := index.Nearest(originLat, originLon, nil)
	assert.False(t, found)
	assert.Empty(t, index.Within(originLat, originLon, 50, nil))
	assert.Equal(t, 0, index.Len())
}
