package matching

import (
	"github.com/travigo/stopmatch/pkg/model"
	"github.com/travigo/stopmatch/pkg/util"
)

// ExactStage matches on UIC reference equality. No distance check is applied.
//
// A UIC group with a single OSM node gives that node to every ATLAS stop of the group,
// a group with a single ATLAS stop takes every OSM node of the group, anything else is
// paired 1:1 on designation == local_ref.
type ExactStage struct{}

func (s ExactStage) Name() string {
	return "exact"
}

func (s ExactStage) Run(pool *Pool) ([]model.MatchRecord, error) {
	start := len(pool.records)

	atlasGroups := groupAtlas(pool.RemainingAtlas(), func(stop *model.AtlasStop) string { return stop.UICRef })
	osmGroups := groupOsm(pool.AvailableOsm(), func(node *model.OsmNode) string { return node.UICRef })

	for _, uicRef := range util.SortedKeys(atlasGroups) {
		stops := atlasGroups[uicRef]
		nodes := osmGroups[uicRef]

		if len(nodes) == 0 {
			continue
		}

		switch {
		case len(nodes) == 1:
			var records []model.MatchRecord
			for _, stop := range stops {
				records = append(records, newRecord(stop, nodes[0], model.MatchTypeExact))
			}
			if err := pool.acceptGroup(records); err != nil {
				return nil, err
			}
		case len(stops) == 1:
			for _, node := range nodes {
				if err := pool.accept(newRecord(stops[0], node, model.MatchTypeExact)); err != nil {
					return nil, err
				}
			}
		default:
			if err := s.pairByLocalRef(pool, stops, nodes); err != nil {
				return nil, err
			}
		}
	}

	return recordsSince(pool, start), nil
}

func (s ExactStage) pairByLocalRef(pool *Pool, stops []*model.AtlasStop, nodes []*model.OsmNode) error {
	for _, stop := range stops {
		var candidates []*model.OsmNode
		for _, node := range nodes {
			if pool.IsAvailable(node) && util.EqualFoldNonEmpty(stop.Designation, node.LocalRef) {
				candidates = append(candidates, node)
			}
		}

		// Two nodes with the same local_ref are left for the later stages to sort out
		if len(candidates) != 1 {
			continue
		}

		if err := pool.accept(newRecord(stop, candidates[0], model.MatchTypeExact)); err != nil {
			return err
		}
	}

	return nil
}

func groupAtlas(stops []*model.AtlasStop, key func(*model.AtlasStop) string) map[string][]*model.AtlasStop {
	groups := map[string][]*model.AtlasStop{}
	for _, stop := range stops {
		if value := key(stop); value != "" {
			groups[value] = append(groups[value], stop)
		}
	}

	return groups
}

func groupOsm(nodes []*model.OsmNode, key func(*model.OsmNode) string) map[string][]*model.OsmNode {
	groups := map[string][]*model.OsmNode{}
	for _, node := range nodes {
		if value := key(node); value != "" {
			groups[value] = append(groups[value], node)
		}
	}

	return groups
}
