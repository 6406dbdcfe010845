package matching

import (
	"github.com/travigo/stopmatch/pkg/model"
	"github.com/travigo/stopmatch/pkg/util"
)

// NameStage matches the official designation against the OSM name, uic_name and
// gtfs:name values, falling back to designation == local_ref when several nodes share the name
type NameStage struct{}

func (s NameStage) Name() string {
	return "name"
}

func (s NameStage) Run(pool *Pool) ([]model.MatchRecord, error) {
	start := len(pool.records)
	byName := pool.dataset.OsmByName()

	for _, stop := range pool.RemainingAtlas() {
		if stop.DesignationOfficial == "" {
			continue
		}

		var candidates []*model.OsmNode
		for _, node := range byName[stop.DesignationOfficial] {
			if pool.IsAvailable(node) {
				candidates = append(candidates, node)
			}
		}

		if len(candidates) > 1 {
			util.InPlaceFilter(&candidates, func(node *model.OsmNode) bool {
				return util.EqualFoldNonEmpty(stop.Designation, node.LocalRef)
			})
		}

		if len(candidates) != 1 {
			continue
		}

		if err := pool.accept(newRecord(stop, candidates[0], model.MatchTypeName)); err != nil {
			return nil, err
		}
	}

	return recordsSince(pool, start), nil
}
