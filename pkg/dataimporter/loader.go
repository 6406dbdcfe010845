package dataimporter

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/stopmatch/pkg/config"
	"github.com/travigo/stopmatch/pkg/database"
	"github.com/travigo/stopmatch/pkg/dataimporter/formats"
	"github.com/travigo/stopmatch/pkg/dataimporter/formats/atlas"
	"github.com/travigo/stopmatch/pkg/dataimporter/formats/manual"
	"github.com/travigo/stopmatch/pkg/dataimporter/formats/osm"
	"github.com/travigo/stopmatch/pkg/dataimporter/formats/routes"
	"github.com/travigo/stopmatch/pkg/model"
	"github.com/travigo/stopmatch/pkg/operators"
	"go.mongodb.org/mongo-driver/bson"
)

// Load reads every configured input into a dataset snapshot. Independent files are
// parsed in parallel, the ATLAS and OSM inputs are required while route tokens and
// manual matches are optional.
func Load(ctx context.Context, cfg *config.Config) (*model.Dataset, error) {
	normaliser, err := loadOperators(cfg.Inputs.Operators)
	if err != nil {
		return nil, err
	}

	delimiter := cfg.Delimiter()

	registry := &atlas.Registry{Delimiter: delimiter}
	extract := &osm.Extract{Operators: normaliser, Filter: osm.PublicTransportFilter}
	atlasRoutes := &routes.AtlasRouteTable{Delimiter: delimiter}
	osmRoutes := &routes.OsmRouteTable{Delimiter: delimiter}
	overrides := &manual.Overrides{Delimiter: delimiter}

	p := pool.New().WithErrors()
	p.Go(func() error {
		return formats.ParsePath(registry, cfg.Inputs.Atlas)
	})
	p.Go(func() error {
		return formats.ParsePath(extract, cfg.Inputs.Osm)
	})
	p.Go(func() error {
		return optional(formats.ParsePath(atlasRoutes, cfg.Inputs.AtlasRoutes), "ATLAS route tokens")
	})
	p.Go(func() error {
		return optional(formats.ParsePath(osmRoutes, cfg.Inputs.OsmRoutes), "OSM route tokens")
	})
	if !cfg.ManualMatchesFromMongoDB {
		p.Go(func() error {
			return optional(formats.ParsePath(overrides, cfg.Inputs.ManualMatches), "manual matches")
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}

	dataset := model.NewDataset(registry.Stops, extract.Nodes)

	dataset.Stats = append(dataset.Stats, registry.LoadStats(), extract.LoadStats())

	if atlasRoutes.Tokens != nil && osmRoutes.Tokens != nil {
		routes.AttachAtlas(dataset.Atlas, atlasRoutes.Tokens)
		routes.AttachOsm(dataset.Osm, osmRoutes.Tokens)
		dataset.RouteTokensLoaded = true
		dataset.Stats = append(dataset.Stats, atlasRoutes.LoadStats(), osmRoutes.LoadStats())
	}

	if cfg.ManualMatchesFromMongoDB {
		dataset.ManualOverrides, err = LoadManualMatches(ctx)
		if err != nil {
			return nil, err
		}
	} else if overrides.Matches != nil {
		dataset.ManualOverrides = overrides.Matches
		dataset.Stats = append(dataset.Stats, overrides.LoadStats())
	}

	log.Info().
		Int("atlas", len(dataset.Atlas)).
		Int("osm", len(dataset.Osm)).
		Bool("routes", dataset.RouteTokensLoaded).
		Int("manual", len(dataset.ManualOverrides)).
		Msg("Loaded dataset")

	return dataset, nil
}

// optional downgrades a missing optional input to a warning
func optional(err error, name string) error {
	if errors.Is(err, formats.ErrMissingInput) {
		log.Warn().Err(err).Msgf("No %s, dependent stages will be skipped", name)
		return nil
	}

	return err
}

func loadOperators(path string) (*operators.Normaliser, error) {
	if path == "" {
		return operators.Default(), nil
	}

	normaliser, err := operators.LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Warn().Str("file", path).Msg("Operator aliases not found, using built-in set")
		return operators.Default(), nil
	}

	return normaliser, err
}

type manualMatchDocument struct {
	Sloid     string `bson:"sloid"`
	OsmNodeID string `bson:"osmnodeid"`
}

// LoadManualMatches reads the persisted overrides from the manual_matches collection
func LoadManualMatches(ctx context.Context) ([]model.ManualMatchOverride, error) {
	collection := database.GetCollection(database.ManualMatchesCollection)

	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var overrides []model.ManualMatchOverride
	for cursor.Next(ctx) {
		var document manualMatchDocument
		if err := cursor.Decode(&document); err != nil {
			log.Error().Err(err).Msg("Failed to decode manual match")
			continue
		}

		overrides = append(overrides, model.ManualMatchOverride{
			Sloid:     document.Sloid,
			OsmNodeID: document.OsmNodeID,
		})
	}

	log.Info().Int("overrides", len(overrides)).Msg("Loaded manual matches from MongoDB")

	return overrides, cursor.Err()
}
