package matching

import (
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/travigo/stopmatch/pkg/model"
	"github.com/travigo/stopmatch/pkg/util"
)

// UniqueByUICStage pairs the last unused node of a UIC group with the closest
// unmatched stop of the same group
type UniqueByUICStage struct{}

func (s UniqueByUICStage) Name() string {
	return "unique_by_uic"
}

func (s UniqueByUICStage) Run(pool *Pool) ([]model.MatchRecord, error) {
	start := len(pool.records)

	atlasGroups := groupAtlas(pool.RemainingAtlas(), func(stop *model.AtlasStop) string { return stop.UICRef })
	osmGroups := groupOsm(pool.AvailableOsm(), func(node *model.OsmNode) string { return node.UICRef })

	for _, uicRef := range util.SortedKeys(atlasGroups) {
		nodes := osmGroups[uicRef]
		if len(nodes) != 1 {
			continue
		}

		stop := closestStop(nodes[0], atlasGroups[uicRef], maxDistance, func(*model.AtlasStop) bool { return true })
		if stop == nil {
			continue
		}

		if err := pool.accept(newRecord(stop, nodes[0], model.MatchTypeUniqueByUIC)); err != nil {
			return nil, err
		}
	}

	return recordsSince(pool, start), nil
}

// Larger than any distance on earth
const maxDistance = 1e9

// DuplicatePropagationStage gives the node of a matched stop to its unmatched
// duplicates sharing the same UIC reference and designation
type DuplicatePropagationStage struct {
	Duplicates model.DuplicateSloidMap
}

func (s DuplicatePropagationStage) Name() string {
	return "duplicate_propagation"
}

func (s DuplicatePropagationStage) Run(pool *Pool) ([]model.MatchRecord, error) {
	start := len(pool.records)

	firstRecord := map[string]model.MatchRecord{}
	for _, record := range pool.records {
		if _, exists := firstRecord[record.AtlasSloid]; !exists {
			firstRecord[record.AtlasSloid] = record
		}
	}

	for _, sloid := range util.SortedKeys(s.Duplicates) {
		// Manual matches always win over propagated ones
		if pool.IsMatched(sloid) || pool.manualSloids[sloid] {
			continue
		}

		siblings := slices.Clone(s.Duplicates[sloid])
		slices.Sort(siblings)

		for _, sibling := range siblings {
			source, matched := firstRecord[sibling]
			if !matched {
				continue
			}

			group := append([]string{sloid}, siblings...)
			if conflicting := foreignClaimants(pool.used.Claimants(source.OsmNodeID), group); len(conflicting) > 0 {
				log.Debug().Str("sloid", sloid).Str("node", source.OsmNodeID).Strs("claimants", conflicting).Msg("Skipping duplicate propagation onto a node held outside the duplicate set")
				break
			}

			stop := pool.dataset.AtlasStop(sloid)
			node := pool.dataset.OsmNode(source.OsmNodeID)

			record := newRecord(stop, node, model.MatchTypeDuplicatePropagation)
			record.AddNote("propagated from %s", sibling)

			if err := pool.acceptShared(record, sibling); err != nil {
				return nil, err
			}
			break
		}
	}

	return recordsSince(pool, start), nil
}

func foreignClaimants(claimants []string, group []string) []string {
	var foreign []string
	for _, claimant := range claimants {
		if !slices.Contains(group, claimant) {
			foreign = append(foreign, claimant)
		}
	}

	return foreign
}

// unmatchedAtlas builds the residual ATLAS rows with their isolation annotation
func (p *Pool) unmatchedAtlas() []model.UnmatchedAtlas {
	var unmatched []model.UnmatchedAtlas
	for _, stop := range p.RemainingAtlas() {
		result, exists := p.isolation[stop.Sloid]
		if !exists {
			result = p.atlasIsolation(stop)
		}

		row := model.UnmatchedAtlas{
			Stop:                    stop,
			IsIsolated:              result.isolated,
			NearestOppositeDistance: result.nearest,
		}
		if result.isolated {
			row.Annotation = model.MatchTypeNoOsmWithin50m
		}

		unmatched = append(unmatched, row)
	}

	return unmatched
}

// unmatchedOsm builds the residual OSM rows, isolation is measured against every ATLAS stop
func (p *Pool) unmatchedOsm() []model.UnmatchedOsm {
	var unmatched []model.UnmatchedOsm
	for _, node := range p.AvailableOsm() {
		row := model.UnmatchedOsm{Node: node, IsIsolated: true}

		if nearest, exists := p.atlasIndex.Nearest(node.Location.Latitude, node.Location.Longitude, nil); exists {
			distance := nearest.Distance
			row.NearestOppositeDistance = &distance
			row.IsIsolated = distance > p.config.IsolationRadius
		}

		unmatched = append(unmatched, row)
	}

	return unmatched
}
