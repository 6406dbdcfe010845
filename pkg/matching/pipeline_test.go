package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/stopmatch/pkg/model"
)

func TestManualOverridesSeedFirst(t *testing.T) {
	station := osmAt("station", "100", "", 0)
	station.IsStation = true

	dataset := model.NewDataset(
		[]*model.AtlasStop{atlasAt("a1", "100", "", 0)},
		[]*model.OsmNode{osmAt("o1", "100", "", 10), osmAt("o2", "", "", 2000), station},
	)
	dataset.ManualOverrides = []model.ManualMatchOverride{
		{Sloid: "a1", OsmNodeID: "o2"},
		{Sloid: "a1", OsmNodeID: "station"},
		{Sloid: "missing", OsmNodeID: "o1"},
		{Sloid: "a1", OsmNodeID: "o2"},
	}

	result := runPipeline(t, dataset)

	assert.Equal(t, map[string]model.MatchType{"a1->o2": model.MatchTypeManual}, matchTypes(result.Matches))
	assert.Equal(t, 3, result.SkippedManual)

	require.Len(t, result.UnmatchedOsm, 1)
	assert.Equal(t, "o1", result.UnmatchedOsm[0].Node.NodeID)
}

func mixedDataset() *model.Dataset {
	zentrum := func(stop *model.AtlasStop) *model.AtlasStop { return named(stop, "Bern, Zentrum") }

	atlas := []*model.AtlasStop{
		atlasAt("exact", "100", "3", 0),
		atlasAt("dup-1", "200", "A", 5000),
		atlasAt("dup-2", "200", "A", 5010),
		atlasAt("dup-3", "200", "B", 5020),
		zentrum(atlasAt("group-1", "", "", 10000)),
		zentrum(atlasAt("group-2", "", "", 10200)),
		atlasAt("near", "", "", 15000),
		atlasAt("isolated", "", "", 20000),
		atlasTokens(atlasAt("route", "300", "", 25000), gtfsToken("R1", "0", "")),
		atlasAt("route-b", "300", "", 25100),
	}

	osm := []*model.OsmNode{
		osmAt("1", "100", "3", 12),
		osmAt("2", "200", "A", 5005),
		osmAt("3", "200", "B", 5025),
		uicNamed(osmAt("5", "", "", 10020), "Bern, Zentrum"),
		uicNamed(osmAt("6", "", "", 10215), "Bern, Zentrum"),
		osmAt("7", "", "", 15030),
		osmAt("8", "", "", 20400),
		osmTokens(osmAt("9", "300", "", 25300), gtfsToken("R1", "0", "")),
		osmTokens(osmAt("10", "300", "", 25500), gtfsToken("R5", "1", "")),
	}

	dataset := model.NewDataset(atlas, osm)
	dataset.RouteTokensLoaded = true

	return dataset
}

func TestPipelineMixedDataset(t *testing.T) {
	result := runPipeline(t, mixedDataset())

	assert.Equal(t, map[string]model.MatchType{
		"exact->1":    model.MatchTypeExact,
		"dup-1->2":    model.MatchTypeExact,
		"dup-3->3":    model.MatchTypeExact,
		"dup-2->2":    model.MatchTypeDuplicatePropagation,
		"group-1->5":  model.MatchTypeDistance1,
		"group-2->6":  model.MatchTypeDistance1,
		"near->7":     model.MatchTypeDistance3,
		"route->9":    model.MatchTypeRouteGTFS,
		"route-b->10": model.MatchTypeUniqueByUIC,
	}, matchTypes(result.Matches))

	var stages []string
	for _, stage := range result.Stages {
		stages = append(stages, stage.Stage)
	}
	assert.Equal(t, []string{
		"manual", "exact", "name", "distance_1", "distance_2", "distance_3",
		"isolation", "route", "unique_by_uic", "duplicate_propagation",
	}, stages)

	unmatchedAtlas := map[string]bool{}
	for _, unmatched := range result.UnmatchedAtlas {
		unmatchedAtlas[unmatched.Stop.Sloid] = unmatched.IsIsolated
	}
	assert.Equal(t, map[string]bool{"isolated": true}, unmatchedAtlas)

	var unmatchedOsm []string
	for _, unmatched := range result.UnmatchedOsm {
		unmatchedOsm = append(unmatchedOsm, unmatched.Node.NodeID)
	}
	assert.Equal(t, []string{"8"}, unmatchedOsm)
}

func TestPipelineIsDeterministic(t *testing.T) {
	first := runPipeline(t, mixedDataset())
	second := runPipeline(t, mixedDataset())

	assert.Equal(t, first.Matches, second.Matches)
	assert.Equal(t, first.Stages, second.Stages)

	var firstIDs, secondIDs []string
	for _, stop := range first.StopRecords(mixedDataset()) {
		firstIDs = append(firstIDs, stop.ID)
	}
	for _, stop := range second.StopRecords(mixedDataset()) {
		secondIDs = append(secondIDs, stop.ID)
	}
	assert.Equal(t, firstIDs, secondIDs)
}

func TestPipelineNeverDoubleClaims(t *testing.T) {
	result := runPipeline(t, mixedDataset())

	claims := map[string][]model.MatchRecord{}
	for _, record := range result.Matches {
		claims[record.OsmNodeID] = append(claims[record.OsmNodeID], record)
	}

	for nodeID, records := range claims {
		if len(records) == 1 {
			continue
		}

		// Only the exact group rule and duplicate propagation share a node
		for _, record := range records {
			assert.Contains(t, []model.MatchType{model.MatchTypeExact, model.MatchTypeDuplicatePropagation}, record.MatchType, "node %s", nodeID)
		}
	}

	perStop := map[string][]model.MatchType{}
	for _, record := range result.Matches {
		perStop[record.AtlasSloid] = append(perStop[record.AtlasSloid], record.MatchType)
	}
	for sloid, types := range perStop {
		if len(types) > 1 {
			for _, matchType := range types {
				isRoute := matchType == model.MatchTypeRouteGTFS || matchType == model.MatchTypeRouteHRDF
				assert.True(t, isRoute || matchType == types[0], "stop %s matched by %v", sloid, types)
			}
		}
	}
}

func TestStopRecords(t *testing.T) {
	dataset := mixedDataset()
	result := runPipeline(t, dataset)

	stops := result.StopRecords(dataset)
	require.Len(t, stops, len(result.Matches)+len(result.UnmatchedAtlas)+len(result.UnmatchedOsm))

	ids := map[string]bool{}
	for _, stop := range stops {
		assert.Regexp(t, `^stop-[0-9a-f]{28}$`, stop.ID)
		assert.False(t, ids[stop.ID], "duplicate id %s", stop.ID)
		ids[stop.ID] = true

		switch stop.Type {
		case model.StopRecordMatched:
			assert.NotNil(t, stop.Match)
			assert.NotNil(t, stop.Atlas)
			assert.NotNil(t, stop.Osm)
		case model.StopRecordAtlasOnly:
			assert.NotNil(t, stop.UnmatchedAtlas)
			assert.Nil(t, stop.Osm)
		case model.StopRecordOsmOnly:
			assert.NotNil(t, stop.UnmatchedOsm)
			assert.Nil(t, stop.Atlas)
		}
	}
}
