package matching

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/travigo/stopmatch/pkg/model"
	"github.com/travigo/stopmatch/pkg/util"
)

// routeStrategy extracts the route/direction combinations of one tier. Strategies are
// tried in order and a stop matched by one never reaches the next.
type routeStrategy struct {
	name      string
	matchType model.MatchType
	tier      model.RouteTier

	atlasCombos func(*model.AtlasStop) []string
	osmCombos   func(*model.OsmNode) []string
}

var routeStrategies = []routeStrategy{
	{
		name:      "gtfs_exact",
		matchType: model.MatchTypeRouteGTFS,
		tier:      model.RouteTierExact,
		atlasCombos: func(stop *model.AtlasStop) []string {
			return gtfsCombos(stop.RouteTokens, false)
		},
		osmCombos: func(node *model.OsmNode) []string {
			return gtfsCombos(node.RouteTokens, false)
		},
	},
	{
		name:      "gtfs_normalised",
		matchType: model.MatchTypeRouteGTFS,
		tier:      model.RouteTierNormalised,
		atlasCombos: func(stop *model.AtlasStop) []string {
			return gtfsCombos(stop.RouteTokens, true)
		},
		osmCombos: func(node *model.OsmNode) []string {
			return gtfsCombos(node.RouteTokens, true)
		},
	},
	{
		name:      "hrdf",
		matchType: model.MatchTypeRouteHRDF,
		tier:      model.RouteTierExact,
		atlasCombos: func(stop *model.AtlasStop) []string {
			// HRDF is only a fallback for stops GTFS knows nothing about
			if model.HasSource(stop.RouteTokens, model.RouteSourceGTFS) {
				return nil
			}
			return hrdfCombos(stop.RouteTokens)
		},
		osmCombos: func(node *model.OsmNode) []string {
			return hrdfCombos(node.RouteTokens)
		},
	},
}

func gtfsCombos(tokens []model.RouteToken, normalised bool) []string {
	var combos []string
	for _, token := range tokens {
		if token.Source != model.RouteSourceGTFS {
			continue
		}

		routeID := token.RouteID
		if normalised {
			routeID = token.RouteIDNormalised
		}
		if routeID == "" || token.DirectionID == "" {
			continue
		}

		combos = append(combos, routeID+"|"+token.DirectionID)
	}

	return util.RemoveDuplicateStrings(combos, []string{})
}

func hrdfCombos(tokens []model.RouteToken) []string {
	var combos []string
	for _, token := range tokens {
		if token.Source != model.RouteSourceHRDF || token.LineName == "" || token.DirectionUIC == "" {
			continue
		}

		combos = append(combos, token.LineName+"|"+token.DirectionUIC)
	}

	return util.RemoveDuplicateStrings(combos, []string{})
}

// RouteStage matches on the routes and directions served at both stops. It is the
// only stage that may give a stop more than one record.
type RouteStage struct{}

func (s RouteStage) Name() string {
	return "route"
}

func (s RouteStage) Run(pool *Pool) ([]model.MatchRecord, error) {
	if !pool.dataset.RouteTokensLoaded {
		log.Warn().Msg("Route tokens not loaded, skipping route matching")
		return nil, nil
	}

	start := len(pool.records)

	run := routeRun{
		pool:       pool,
		candidates: map[string]bool{},
		matchedBy:  map[string]int{},
	}
	for _, stop := range pool.RemainingAtlas() {
		run.candidates[stop.Sloid] = true
	}

	pass := 0
	for _, strategy := range routeStrategies {
		if err := run.uniqueKeys(pass, strategy); err != nil {
			return nil, err
		}
		pass++
	}
	for _, strategy := range routeStrategies {
		if err := run.proximity(pass, strategy); err != nil {
			return nil, err
		}
		pass++
	}

	return recordsSince(pool, start), nil
}

type routeRun struct {
	pool *Pool

	// Stops left unmatched by every earlier stage
	candidates map[string]bool

	// Pass in which a stop got its route matches
	matchedBy map[string]int
}

func (r *routeRun) eligible(stop *model.AtlasStop, pass int) bool {
	if !r.candidates[stop.Sloid] {
		return false
	}

	matchedPass, matched := r.matchedBy[stop.Sloid]
	return !matched || matchedPass == pass
}

func (r *routeRun) eligibleStops(pass int) []*model.AtlasStop {
	var stops []*model.AtlasStop
	for _, stop := range r.pool.dataset.Atlas {
		if r.eligible(stop, pass) {
			stops = append(stops, stop)
		}
	}

	return stops
}

// uniqueKeys matches (uic, route, direction) keys that identify exactly one stop in
// each dataset
func (r *routeRun) uniqueKeys(pass int, strategy routeStrategy) error {
	atlasByKey := map[string][]*model.AtlasStop{}
	for _, stop := range r.pool.dataset.Atlas {
		if stop.UICRef == "" {
			continue
		}
		for _, combo := range strategy.atlasCombos(stop) {
			key := stop.UICRef + "|" + combo
			atlasByKey[key] = append(atlasByKey[key], stop)
		}
	}

	osmByKey := map[string][]*model.OsmNode{}
	for _, node := range r.pool.dataset.Osm {
		if node.IsStation || node.UICRef == "" {
			continue
		}
		for _, combo := range strategy.osmCombos(node) {
			key := node.UICRef + "|" + combo
			osmByKey[key] = append(osmByKey[key], node)
		}
	}

	for _, key := range util.SortedKeys(atlasByKey) {
		stops := atlasByKey[key]
		nodes := osmByKey[key]

		if len(stops) != 1 || len(nodes) != 1 {
			continue
		}
		if !r.eligible(stops[0], pass) || !r.pool.IsAvailable(nodes[0]) {
			continue
		}

		record := newRecord(stops[0], nodes[0], strategy.matchType)
		record.AddNote("route key %s (%s)", key, strategy.name)

		if err := r.accept(pass, strategy, record, stops[0], nodes[0]); err != nil {
			return err
		}
	}

	return nil
}

// proximity matches route/direction combinations shared by the remaining stops when
// at least one side of the combination is a single entity
func (r *routeRun) proximity(pass int, strategy routeStrategy) error {
	atlasByCombo := map[string][]*model.AtlasStop{}
	for _, stop := range r.eligibleStops(pass) {
		for _, combo := range strategy.atlasCombos(stop) {
			atlasByCombo[combo] = append(atlasByCombo[combo], stop)
		}
	}

	osmByCombo := map[string][]*model.OsmNode{}
	for _, node := range r.pool.AvailableOsm() {
		for _, combo := range strategy.osmCombos(node) {
			osmByCombo[combo] = append(osmByCombo[combo], node)
		}
	}

	radius := r.pool.config.MatchRadius

	for _, combo := range util.SortedKeys(atlasByCombo) {
		stops := atlasByCombo[combo]
		nodes := osmByCombo[combo]

		if len(nodes) == 0 {
			continue
		}
		if len(stops) > 1 && len(nodes) > 1 {
			log.Debug().Str("combo", combo).Int("atlas", len(stops)).Int("osm", len(nodes)).Msg("Rejecting ambiguous route combination")
			continue
		}

		var stop *model.AtlasStop
		var node *model.OsmNode

		if len(stops) == 1 {
			stop = stops[0]
			node = closestNode(stop, nodes, radius, r.pool.IsAvailable)
		} else {
			node = nodes[0]
			stop = closestStop(node, stops, radius, func(candidate *model.AtlasStop) bool {
				return r.eligible(candidate, pass)
			})
		}

		if stop == nil || node == nil || !r.eligible(stop, pass) || !r.pool.IsAvailable(node) {
			continue
		}

		record := newRecord(stop, node, strategy.matchType)
		record.AddNote("route combination %s (%s)", combo, strategy.name)

		if err := r.accept(pass, strategy, record, stop, node); err != nil {
			return err
		}
	}

	return nil
}

func (r *routeRun) accept(pass int, strategy routeStrategy, record model.MatchRecord, stop *model.AtlasStop, node *model.OsmNode) error {
	record.RouteTier = strategy.tier

	if operatorMismatch(stop.BusinessOrgAbbr, node.Operator) {
		record.AddNote("operator mismatch: atlas %s, osm %s", stop.BusinessOrgAbbr, node.Operator)
	}

	if err := r.pool.accept(record); err != nil {
		return err
	}
	r.matchedBy[stop.Sloid] = pass

	return nil
}

func operatorMismatch(atlasOperator string, osmOperator string) bool {
	atlasOperator = strings.TrimSpace(atlasOperator)
	osmOperator = strings.TrimSpace(osmOperator)

	if atlasOperator == "" || osmOperator == "" {
		return false
	}

	return !strings.EqualFold(util.NormaliseSpace(atlasOperator), util.NormaliseSpace(osmOperator))
}

func closestNode(stop *model.AtlasStop, nodes []*model.OsmNode, radius float64, accept func(*model.OsmNode) bool) *model.OsmNode {
	var best *model.OsmNode
	bestDistance := radius

	for _, node := range nodes {
		if !accept(node) {
			continue
		}

		distance := stop.Location.DistanceTo(node.Location)
		if distance <= bestDistance && (best == nil || distance < bestDistance || node.NodeID < best.NodeID) {
			best = node
			bestDistance = distance
		}
	}

	return best
}

func closestStop(node *model.OsmNode, stops []*model.AtlasStop, radius float64, accept func(*model.AtlasStop) bool) *model.AtlasStop {
	var best *model.AtlasStop
	bestDistance := radius

	for _, stop := range stops {
		if !accept(stop) {
			continue
		}

		distance := node.Location.DistanceTo(stop.Location)
		if distance <= bestDistance && (best == nil || distance < bestDistance || stop.Sloid < best.Sloid) {
			best = stop
			bestDistance = distance
		}
	}

	return best
}
