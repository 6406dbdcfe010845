package matching

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/travigo/stopmatch/pkg/model"
)

type StageSummary struct {
	Stage   string
	Matches int
}

// Result is everything a run hands to the problem detector and the exporters
type Result struct {
	Matches        []model.MatchRecord
	UnmatchedAtlas []model.UnmatchedAtlas
	UnmatchedOsm   []model.UnmatchedOsm

	DuplicateSloids model.DuplicateSloidMap

	Stages []StageSummary

	// Manual overrides that referenced unknown, station or already used entities
	SkippedManual int
}

// MatchesFor returns the records of one ATLAS stop in pipeline order
func (r *Result) MatchesFor(sloid string) []model.MatchRecord {
	var records []model.MatchRecord
	for _, record := range r.Matches {
		if record.AtlasSloid == sloid {
			records = append(records, record)
		}
	}

	return records
}

// MatchesForNode returns the records pointing at one OSM node
func (r *Result) MatchesForNode(nodeID string) []model.MatchRecord {
	var records []model.MatchRecord
	for _, record := range r.Matches {
		if record.OsmNodeID == nodeID {
			records = append(records, record)
		}
	}

	return records
}

type Pipeline struct {
	Config Config
}

func NewPipeline(config Config) *Pipeline {
	return &Pipeline{Config: config}
}

// Run executes every stage in order over one dataset snapshot. The dataset is not modified.
func (p *Pipeline) Run(dataset *model.Dataset) (*Result, error) {
	pool := NewPool(dataset, p.Config)
	duplicates := dataset.DuplicateSloids()

	manual := &ManualStage{}
	stages := []Stage{
		manual,
		ExactStage{},
		NameStage{},
		GroupProximityStage{},
		LocalRefProximityStage{},
		ProximityStage{},
		IsolationStage{},
		RouteStage{},
		UniqueByUICStage{},
		DuplicatePropagationStage{Duplicates: duplicates},
	}

	result := &Result{DuplicateSloids: duplicates}

	for _, stage := range stages {
		records, err := stage.Run(pool)
		if err != nil {
			log.Error().Err(err).Str("stage", stage.Name()).Msg("Matching stage failed")
			return nil, fmt.Errorf("stage %s: %w", stage.Name(), err)
		}

		remaining := len(pool.RemainingAtlas())
		log.Info().Str("stage", stage.Name()).Int("matches", len(records)).Int("remaining", remaining).Msg("Completed matching stage")

		result.Stages = append(result.Stages, StageSummary{Stage: stage.Name(), Matches: len(records)})
	}

	result.Matches = append([]model.MatchRecord{}, pool.records...)
	result.UnmatchedAtlas = pool.unmatchedAtlas()
	result.UnmatchedOsm = pool.unmatchedOsm()
	result.SkippedManual = manual.Skipped

	if manual.Skipped > 0 {
		log.Warn().Int("skipped", manual.Skipped).Msg("Some manual matches could not be applied")
	}

	log.Info().
		Int("matches", len(result.Matches)).
		Int("unmatched_atlas", len(result.UnmatchedAtlas)).
		Int("unmatched_osm", len(result.UnmatchedOsm)).
		Msg("Matching complete")

	return result, nil
}
