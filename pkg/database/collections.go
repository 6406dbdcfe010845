package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	StopsCollection         = "stops"
	MatchesCollection       = "matches"
	ProblemsCollection      = "problems"
	ManualMatchesCollection = "manual_matches"
)

func createIndexes() {
	createIndex(StopsCollection, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "primaryidentifier", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "sloid", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "osmnodeid", Value: 1}},
		},
	})

	createIndex(MatchesCollection, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "atlassloid", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "osmnodeid", Value: 1}},
		},
	})

	createIndex(ProblemsCollection, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "stopid", Value: 1}, {Key: "problemtype", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "problemtype", Value: 1}, {Key: "priority", Value: 1}},
		},
	})

	createIndex(ManualMatchesCollection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sloid", Value: 1}, {Key: "osmnodeid", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
}

func createIndex(collectionName string, indexes []mongo.IndexModel) {
	collection := GetCollection(collectionName)

	opts := options.CreateIndexes()
	_, err := collection.Indexes().CreateMany(context.Background(), indexes, opts)
	if err != nil {
		log.Error().Err(err).Str("collection", collectionName).Msg("Creating Index")
	}
}
