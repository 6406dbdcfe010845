package reconciler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/stopmatch/pkg/config"
	"github.com/travigo/stopmatch/pkg/database"
	"github.com/travigo/stopmatch/pkg/dataimporter"
	"github.com/travigo/stopmatch/pkg/exporter"
	"github.com/travigo/stopmatch/pkg/matching"
	"github.com/travigo/stopmatch/pkg/model"
	"github.com/travigo/stopmatch/pkg/problems"
	"github.com/travigo/stopmatch/pkg/stats"
)

// Outcome is everything produced by one reconciliation run
type Outcome struct {
	Dataset  *model.Dataset
	Result   *matching.Result
	Stops    []*model.StopRecord
	Problems []model.Problem
}

// Reconcile matches and classifies an already loaded dataset. It does no I/O.
func Reconcile(cfg *config.Config, dataset *model.Dataset) (*Outcome, error) {
	result, err := matching.NewPipeline(cfg.Matching).Run(dataset)
	if err != nil {
		return nil, err
	}

	stops := result.StopRecords(dataset)

	return &Outcome{
		Dataset:  dataset,
		Result:   result,
		Stops:    stops,
		Problems: problems.NewDetector(cfg.Problems, dataset).Detect(result, stops),
	}, nil
}

// Run loads the configured inputs, reconciles them and writes the configured exports
func Run(ctx context.Context, cfg *config.Config) (*Outcome, error) {
	startTime := time.Now()

	if cfg.ManualMatchesFromMongoDB || cfg.Export.MongoDB {
		if err := database.Connect(); err != nil {
			return nil, err
		}
	}

	dataset, err := dataimporter.Load(ctx, cfg)
	if err != nil {
		return nil, err
	}

	outcome, err := Reconcile(cfg, dataset)
	if err != nil {
		return nil, err
	}

	if cfg.Export.OutputDirectory != "" {
		if err := exporter.WriteCSV(cfg.Export.OutputDirectory, outcome.Stops, outcome.Problems); err != nil {
			return nil, err
		}
	}

	if cfg.Export.MongoDB {
		if err := exporter.ExportMongo(ctx, outcome.Stops, outcome.Problems); err != nil {
			return nil, err
		}
	}

	summary := stats.Summarise(outcome.Stops, outcome.Problems)
	log.Info().
		Interface("stops", summary.Stops).
		Interface("match_types", summary.MatchTypes).
		Interface("problems", summary.Problems).
		Str("duration", time.Since(startTime).String()).
		Msg("Reconciliation complete")

	return outcome, nil
}

// Inspection collects everything a run produced about one entity
type Inspection struct {
	Atlas    *model.AtlasStop
	Osm      *model.OsmNode
	Matches  []model.MatchRecord
	Stops    []*model.StopRecord
	Problems []model.Problem
}

// Inspect returns the records touching the given sloid or OSM node
func (o *Outcome) Inspect(sloid string, nodeID string) *Inspection {
	inspection := &Inspection{}

	if sloid != "" {
		inspection.Atlas = o.Dataset.AtlasStop(sloid)
		inspection.Matches = append(inspection.Matches, o.Result.MatchesFor(sloid)...)
	}
	if nodeID != "" {
		inspection.Osm = o.Dataset.OsmNode(nodeID)
		inspection.Matches = append(inspection.Matches, o.Result.MatchesForNode(nodeID)...)
	}

	stopIDs := map[string]bool{}
	for _, stop := range o.Stops {
		if (sloid != "" && stop.Atlas != nil && stop.Atlas.Sloid == sloid) ||
			(nodeID != "" && stop.Osm != nil && stop.Osm.NodeID == nodeID) {
			inspection.Stops = append(inspection.Stops, stop)
			stopIDs[stop.ID] = true
		}
	}

	for _, problem := range o.Problems {
		if stopIDs[problem.StopID] {
			inspection.Problems = append(inspection.Problems, problem)
		}
	}

	return inspection
}
