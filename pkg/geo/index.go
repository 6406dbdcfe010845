package geo

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"
)

// Slack added to projected search boxes to absorb the error of the local projection
const projectionSlack = 1.05

type IndexPoint struct {
	ID        string
	Latitude  float64
	Longitude float64
}

type Neighbour struct {
	ID       string
	Distance float64
}

type indexEntry struct {
	IndexPoint
	projected orb.Point
}

func (e *indexEntry) Point() orb.Point {
	return e.projected
}

// Index is an immutable nearest-neighbour index over a point set.
// Points are stored in a local equirectangular projection (metres) so the quadtree
// can prune by planar distance; every returned distance is re-measured with Haversine.
type Index struct {
	tree      *quadtree.Quadtree
	cosOrigin float64
	size      int
}

func NewIndex(points []IndexPoint) *Index {
	index := &Index{cosOrigin: 1}

	latitudeSum := 0.0
	for _, point := range points {
		latitudeSum += point.Latitude
	}
	if len(points) > 0 {
		index.cosOrigin = math.Cos(latitudeSum / float64(len(points)) * math.Pi / 180)
	}

	entries := make([]*indexEntry, 0, len(points))
	bound := orb.Bound{Min: orb.Point{math.Inf(1), math.Inf(1)}, Max: orb.Point{math.Inf(-1), math.Inf(-1)}}
	for _, point := range points {
		entry := &indexEntry{IndexPoint: point, projected: index.project(point.Latitude, point.Longitude)}
		entries = append(entries, entry)
		bound = bound.Extend(entry.projected)
	}

	if len(entries) == 0 {
		bound = orb.Bound{}
	}
	index.tree = quadtree.New(bound.Pad(1))

	for _, entry := range entries {
		// Cannot fail, the bound was extended by every entry
		index.tree.Add(entry)
		index.size++
	}

	return index
}

func (i *Index) Len() int {
	return i.size
}

// Within returns every point accepted by filter whose distance is at most radius,
// sorted by distance then ID
func (i *Index) Within(latitude float64, longitude float64, radius float64, filter func(id string) bool) []Neighbour {
	if i.size == 0 {
		return nil
	}

	centre := i.project(latitude, longitude)
	half := radius*projectionSlack + 1
	bound := orb.Bound{
		Min: orb.Point{centre[0] - half, centre[1] - half},
		Max: orb.Point{centre[0] + half, centre[1] + half},
	}

	candidates := i.tree.InBoundMatching(nil, bound, i.matcher(filter))

	var neighbours []Neighbour
	for _, candidate := range candidates {
		entry := candidate.(*indexEntry)
		distance := Haversine(latitude, longitude, entry.Latitude, entry.Longitude)

		if distance <= radius {
			neighbours = append(neighbours, Neighbour{ID: entry.ID, Distance: distance})
		}
	}

	sortNeighbours(neighbours)

	return neighbours
}

// KNearest returns up to k points accepted by filter ordered by distance then ID
func (i *Index) KNearest(latitude float64, longitude float64, k int, filter func(id string) bool) []Neighbour {
	if i.size == 0 || k <= 0 {
		return nil
	}

	// Over-fetch a little as planar order and great-circle order can disagree on near ties
	candidates := i.tree.KNearestMatching(nil, i.project(latitude, longitude), k+4, i.matcher(filter))

	neighbours := make([]Neighbour, 0, len(candidates))
	for _, candidate := range candidates {
		entry := candidate.(*indexEntry)
		neighbours = append(neighbours, Neighbour{
			ID:       entry.ID,
			Distance: Haversine(latitude, longitude, entry.Latitude, entry.Longitude),
		})
	}

	sortNeighbours(neighbours)

	if len(neighbours) > k {
		neighbours = neighbours[:k]
	}

	return neighbours
}

// Nearest returns the closest point accepted by filter
func (i *Index) Nearest(latitude float64, longitude float64, filter func(id string) bool) (Neighbour, bool) {
	neighbours := i.KNearest(latitude, longitude, 1, filter)
	if len(neighbours) == 0 {
		return Neighbour{}, false
	}

	return neighbours[0], true
}

func (i *Index) project(latitude float64, longitude float64) orb.Point {
	return orb.Point{
		orb.EarthRadius * longitude * math.Pi / 180 * i.cosOrigin,
		orb.EarthRadius * latitude * math.Pi / 180,
	}
}

func (i *Index) matcher(filter func(id string) bool) quadtree.FilterFunc {
	return func(p orb.Pointer) bool {
		if filter == nil {
			return true
		}

		return filter(p.(*indexEntry).ID)
	}
}

func sortNeighbours(neighbours []Neighbour) {
	sort.SliceStable(neighbours, func(a, b int) bool {
		if neighbours[a].Distance != neighbours[b].Distance {
			return neighbours[a].Distance < neighbours[b].Distance
		}
		return neighbours[a].ID < neighbours[b].ID
	})
}
