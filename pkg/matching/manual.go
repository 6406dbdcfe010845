package matching

import (
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/travigo/stopmatch/pkg/model"
)

// ManualStage seeds the persisted overrides before any automatic stage runs
type ManualStage struct {
	// Overrides that could not be applied
	Skipped int
}

func (s *ManualStage) Name() string {
	return "manual"
}

func (s *ManualStage) Run(pool *Pool) ([]model.MatchRecord, error) {
	start := len(pool.records)

	overrides := append([]model.ManualMatchOverride{}, pool.dataset.ManualOverrides...)
	sort.SliceStable(overrides, func(i, j int) bool {
		if overrides[i].Sloid != overrides[j].Sloid {
			return overrides[i].Sloid < overrides[j].Sloid
		}
		return overrides[i].OsmNodeID < overrides[j].OsmNodeID
	})

	for _, override := range overrides {
		stop := pool.dataset.AtlasStop(override.Sloid)
		node := pool.dataset.OsmNode(override.OsmNodeID)

		if stop == nil || node == nil {
			log.Warn().Str("sloid", override.Sloid).Str("node", override.OsmNodeID).Msg("Manual match references an unknown stop")
			s.Skipped++
			continue
		}
		if !pool.IsAvailable(node) {
			log.Warn().Str("sloid", override.Sloid).Str("node", override.OsmNodeID).Msg("Manual match references a station or an already overridden node")
			s.Skipped++
			continue
		}

		if err := pool.accept(newRecord(stop, node, model.MatchTypeManual)); err != nil {
			return nil, err
		}
		pool.manualSloids[stop.Sloid] = true
	}

	return recordsSince(pool, start), nil
}
