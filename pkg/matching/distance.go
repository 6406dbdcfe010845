package matching

import (
	"github.com/travigo/stopmatch/pkg/model"
	"github.com/travigo/stopmatch/pkg/util"
)

// groupIdentifier pairs the ATLAS and OSM side of one stage 1 grouping key
type groupIdentifier struct {
	name  string
	atlas func(*model.AtlasStop) string
	osm   func(*model.OsmNode) string
}

var groupIdentifiers = []groupIdentifier{
	{
		name:  "uic_ref",
		atlas: func(stop *model.AtlasStop) string { return stop.UICRef },
		osm:   func(node *model.OsmNode) string { return node.UICRef },
	},
	{
		name:  "uic_name",
		atlas: func(stop *model.AtlasStop) string { return stop.DesignationOfficial },
		osm:   func(node *model.OsmNode) string { return node.UICName },
	},
	{
		name:  "name",
		atlas: func(stop *model.AtlasStop) string { return stop.DesignationOfficial },
		osm:   func(node *model.OsmNode) string { return node.Name },
	},
}

// GroupProximityStage matches whole groups sharing an identifier when every member's
// nearest counterpart agrees reciprocally and is within the match radius
type GroupProximityStage struct{}

func (s GroupProximityStage) Name() string {
	return "distance_1"
}

func (s GroupProximityStage) Run(pool *Pool) ([]model.MatchRecord, error) {
	start := len(pool.records)

	// Rows that formed a usable group under an earlier identifier are not regrouped
	settled := map[string]bool{}

	for _, identifier := range groupIdentifiers {
		remaining := pool.RemainingAtlas()
		util.InPlaceFilter(&remaining, func(stop *model.AtlasStop) bool {
			return !settled[stop.Sloid]
		})

		atlasGroups := groupAtlas(remaining, identifier.atlas)
		osmGroups := groupOsm(pool.AvailableOsm(), identifier.osm)

		for _, key := range util.SortedKeys(atlasGroups) {
			stops := atlasGroups[key]
			nodes := osmGroups[key]

			if len(stops) == len(nodes) {
				for _, stop := range stops {
					settled[stop.Sloid] = true
				}
			}

			pairs := reciprocalPairs(stops, nodes, pool.config.MatchRadius)
			if pairs == nil {
				var stopPositions []*model.OsmNode
				for _, node := range nodes {
					if node.PublicTransportKind == model.PublicTransportStopPosition {
						stopPositions = append(stopPositions, node)
					}
				}
				pairs = reciprocalPairs(stops, stopPositions, pool.config.MatchRadius)
			}

			for _, pair := range pairs {
				record := newRecord(pair.stop, pair.node, model.MatchTypeDistance1)
				record.AddNote("group %s=%s", identifier.name, key)

				if err := pool.accept(record); err != nil {
					return nil, err
				}
			}
		}
	}

	return recordsSince(pool, start), nil
}

type groupPair struct {
	stop     *model.AtlasStop
	node     *model.OsmNode
	distance float64
}

// reciprocalPairs returns the full assignment of the group or nil when any check fails
func reciprocalPairs(stops []*model.AtlasStop, nodes []*model.OsmNode, radius float64) []groupPair {
	if len(stops) == 0 || len(stops) != len(nodes) {
		return nil
	}

	distances := make([][]float64, len(stops))
	for i, stop := range stops {
		distances[i] = make([]float64, len(nodes))
		for j, node := range nodes {
			distances[i][j] = stop.Location.DistanceTo(node.Location)
		}
	}

	// Ties resolve to the lower index, inputs are already in id order
	nearestNode := func(i int) int {
		best := 0
		for j := range nodes {
			if distances[i][j] < distances[i][best] {
				best = j
			}
		}
		return best
	}
	nearestStop := func(j int) int {
		best := 0
		for i := range stops {
			if distances[i][j] < distances[best][j] {
				best = i
			}
		}
		return best
	}

	pairs := make([]groupPair, 0, len(stops))
	for i := range stops {
		j := nearestNode(i)
		if nearestStop(j) != i || distances[i][j] > radius {
			return nil
		}

		pairs = append(pairs, groupPair{stop: stops[i], node: nodes[j], distance: distances[i][j]})
	}

	return pairs
}

// LocalRefProximityStage matches a stop to the closest node within the radius whose
// local_ref equals its designation
type LocalRefProximityStage struct{}

func (s LocalRefProximityStage) Name() string {
	return "distance_2"
}

func (s LocalRefProximityStage) Run(pool *Pool) ([]model.MatchRecord, error) {
	start := len(pool.records)

	for _, stop := range pool.RemainingAtlas() {
		if stop.Designation == "" {
			continue
		}

		candidates := pool.OsmWithin(stop, pool.config.MatchRadius, func(node *model.OsmNode) bool {
			return pool.IsAvailable(node) && util.EqualFoldNonEmpty(stop.Designation, node.LocalRef)
		})
		if len(candidates) == 0 {
			continue
		}

		if err := pool.accept(newRecord(stop, pool.dataset.OsmNode(candidates[0].ID), model.MatchTypeDistance2)); err != nil {
			return nil, err
		}
	}

	return recordsSince(pool, start), nil
}

// ProximityStage matches a lone candidate within the radius, or the nearest of several
// when it is clearly closer than the runner up
type ProximityStage struct{}

func (s ProximityStage) Name() string {
	return "distance_3"
}

func (s ProximityStage) Run(pool *Pool) ([]model.MatchRecord, error) {
	start := len(pool.records)

	for _, stop := range pool.RemainingAtlas() {
		candidates := pool.OsmWithin(stop, pool.config.MatchRadius, pool.IsAvailable)

		var matchType model.MatchType
		switch {
		case len(candidates) == 1:
			matchType = model.MatchTypeDistance3
		case len(candidates) > 1 && acceptRelative(candidates[0].Distance, candidates[1].Distance, pool.config):
			matchType = model.MatchTypeDistance4
		default:
			continue
		}

		record := newRecord(stop, pool.dataset.OsmNode(candidates[0].ID), matchType)
		if matchType == model.MatchTypeDistance4 {
			record.AddNote("runner up at %.1fm", candidates[1].Distance)
		}

		if err := pool.accept(record); err != nil {
			return nil, err
		}
	}

	return recordsSince(pool, start), nil
}

// acceptRelative decides whether the nearest of several candidates is unambiguous,
// d1 <= d2 being the two smallest distances
func acceptRelative(d1 float64, d2 float64, config Config) bool {
	if d2 < config.MinSecondDistance {
		return false
	}
	if d1 == 0 {
		return true
	}

	return d2/d1 >= config.MinDistanceRatio
}

// IsolationStage annotates the stops still unmatched that have no OSM node at all
// within the isolation radius. It never produces a match.
type IsolationStage struct{}

func (s IsolationStage) Name() string {
	return "isolation"
}

func (s IsolationStage) Run(pool *Pool) ([]model.MatchRecord, error) {
	for _, stop := range pool.RemainingAtlas() {
		pool.isolation[stop.Sloid] = pool.atlasIsolation(stop)
	}

	return nil, nil
}

func (p *Pool) atlasIsolation(stop *model.AtlasStop) isolationResult {
	nearest, exists := p.osmIndex.Nearest(stop.Location.Latitude, stop.Location.Longitude, nil)
	if !exists {
		return isolationResult{isolated: true}
	}

	distance := nearest.Distance
	return isolationResult{
		isolated: distance > p.config.IsolationRadius,
		nearest:  &distance,
	}
}
