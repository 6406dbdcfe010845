package stats

import (
	"context"
	"fmt"

	"github.com/travigo/stopmatch/pkg/database"
	"github.com/travigo/stopmatch/pkg/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Summary struct {
	Stops      map[string]int
	MatchTypes map[string]int
	Problems   map[string]int
}

func problemKey(problemType model.ProblemType, priority model.Priority) string {
	return fmt.Sprintf("%s/P%d", problemType, priority)
}

// Summarise counts stop records by type and match type, and problems by type and priority
func Summarise(stops []*model.StopRecord, problems []model.Problem) Summary {
	summary := Summary{
		Stops:      map[string]int{},
		MatchTypes: map[string]int{},
		Problems:   map[string]int{},
	}

	for _, stop := range stops {
		summary.Stops[string(stop.Type)]++

		if stop.Match != nil {
			summary.MatchTypes[stop.Match.MatchType.String()]++
		}
		if stop.UnmatchedAtlas != nil && stop.UnmatchedAtlas.Annotation != model.MatchTypeNone {
			summary.MatchTypes[stop.UnmatchedAtlas.Annotation.String()]++
		}
	}

	for _, problem := range problems {
		summary.Problems[problemKey(problem.ProblemType, problem.Priority)]++
	}

	return summary
}

// FromMongo builds the same summary from the last exported run
func FromMongo(ctx context.Context) (Summary, error) {
	var summary Summary
	var err error

	stopsCollection := database.GetCollection(database.StopsCollection)

	if summary.Stops, err = CountAggregate(ctx, stopsCollection, "$type"); err != nil {
		return summary, err
	}
	if summary.MatchTypes, err = CountAggregate(ctx, stopsCollection, "$matchtype"); err != nil {
		return summary, err
	}

	summary.Problems, err = CountAggregate(ctx, database.GetCollection(database.ProblemsCollection), bson.D{
		{Key: "$concat", Value: bson.A{"$problemtype", "/P", bson.D{{Key: "$toString", Value: "$priority"}}}},
	})

	return summary, err
}

func CountAggregate(ctx context.Context, collection *mongo.Collection, aggregateKey any) (map[string]int, error) {
	countMap := map[string]int{}

	aggregation := mongo.Pipeline{
		bson.D{
			{Key: "$group",
				Value: bson.D{
					{Key: "_id", Value: aggregateKey},
					{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
				},
			},
		},
	}

	cursor, err := collection.Aggregate(ctx, aggregation)
	if err != nil {
		return nil, err
	}

	var result []struct {
		ID    string `bson:"_id"`
		Count int    `bson:"count"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}

	for _, record := range result {
		// Stops without a match type group under null
		if record.ID == "" {
			continue
		}
		countMap[record.ID] = record.Count
	}

	return countMap, nil
}
