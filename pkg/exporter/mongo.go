package exporter

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/stopmatch/pkg/database"
	"github.com/travigo/stopmatch/pkg/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const batchSize = 1000

// ExportMongo replaces the stops, matches and problems collections. Documents are
// written to a staging collection first and copied over the live one when complete.
func ExportMongo(ctx context.Context, stops []*model.StopRecord, problems []model.Problem) error {
	now := time.Now()

	stopDocuments := make([]any, 0, len(stops))
	var matchDocuments []any
	for _, stop := range stops {
		stopDocuments = append(stopDocuments, NewStopDocument(stop, now))

		if document := NewMatchDocument(stop, now); document != nil {
			matchDocuments = append(matchDocuments, document)
		}
	}

	problemDocuments := make([]any, 0, len(problems))
	for _, problem := range problems {
		problemDocuments = append(problemDocuments, problem)
	}

	p := pool.New().WithErrors().WithContext(ctx)

	collections := map[string][]any{
		database.StopsCollection:    stopDocuments,
		database.MatchesCollection:  matchDocuments,
		database.ProblemsCollection: problemDocuments,
	}
	for collectionName, documents := range collections {
		collectionName := collectionName
		documents := documents

		p.Go(func(ctx context.Context) error {
			return replaceCollection(ctx, collectionName, documents)
		})
	}

	return p.Wait()
}

func replaceCollection(ctx context.Context, liveCollectionName string, documents []any) error {
	stagingCollectionName := fmt.Sprintf("%s_staging", liveCollectionName)

	if err := emptyCollection(ctx, stagingCollectionName); err != nil {
		return err
	}

	stagingCollection := database.GetCollection(stagingCollectionName)

	for start := 0; start < len(documents); start += batchSize {
		end := min(start+batchSize, len(documents))

		operations := make([]mongo.WriteModel, 0, end-start)
		for _, document := range documents[start:end] {
			operations = append(operations, mongo.NewInsertOneModel().SetDocument(document))
		}

		if _, err := stagingCollection.BulkWrite(ctx, operations, options.BulkWrite().SetOrdered(false)); err != nil {
			return fmt.Errorf("writing %s: %w", stagingCollectionName, err)
		}
	}

	log.Info().Str("collection", stagingCollectionName).Int("documents", len(documents)).Msg("Bulk write")

	if err := copyCollection(ctx, stagingCollectionName, liveCollectionName); err != nil {
		return err
	}

	return emptyCollection(ctx, stagingCollectionName)
}

func copyCollection(ctx context.Context, source string, destination string) error {
	log.Info().Str("src", source).Str("dst", destination).Msg("Copying collection")
	sourceCollection := database.GetCollection(source)

	aggregation := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{}}},
		bson.D{{Key: "$out", Value: destination}},
	}

	cursor, err := sourceCollection.Aggregate(ctx, aggregation)
	if err != nil {
		return fmt.Errorf("copying %s to %s: %w", source, destination, err)
	}

	return cursor.Close(ctx)
}

func emptyCollection(ctx context.Context, collectionName string) error {
	log.Info().Str("collection", collectionName).Msg("Emptying collection")
	collection := database.GetCollection(collectionName)

	_, err := collection.DeleteMany(ctx, bson.M{})
	return err
}
