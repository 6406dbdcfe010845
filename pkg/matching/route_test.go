package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/stopmatch/pkg/model"
)

func atlasTokens(stop *model.AtlasStop, tokens ...model.RouteToken) *model.AtlasStop {
	stop.RouteTokens = tokens
	return stop
}

func osmTokens(node *model.OsmNode, tokens ...model.RouteToken) *model.OsmNode {
	node.RouteTokens = tokens
	return node
}

func newRoutePool(atlas []*model.AtlasStop, osm []*model.OsmNode) *Pool {
	dataset := model.NewDataset(atlas, osm)
	dataset.RouteTokensLoaded = true

	return NewPool(dataset, DefaultConfig())
}

func TestRouteUniqueKeys(t *testing.T) {
	pool := newRoutePool(
		[]*model.AtlasStop{
			atlasTokens(atlasAt("a1", "100", "", 0), gtfsToken("R1", "0", "")),
			atlasTokens(atlasAt("a2", "100", "", 0), gtfsToken("R2", "1", "")),
		},
		[]*model.OsmNode{
			osmTokens(osmAt("o1", "100", "", 900), gtfsToken("R1", "0", "")),
			osmTokens(osmAt("o2", "100", "", 1200), gtfsToken("R2", "1", "")),
		},
	)

	records, err := RouteStage{}.Run(pool)
	require.NoError(t, err)

	assert.Equal(t, map[string]model.MatchType{
		"a1->o1": model.MatchTypeRouteGTFS,
		"a2->o2": model.MatchTypeRouteGTFS,
	}, matchTypes(records))
	for _, record := range records {
		assert.Equal(t, model.RouteTierExact, record.RouteTier)
	}
}

func TestRouteUniqueKeysRequireUniquenessOnBothSides(t *testing.T) {
	pool := newRoutePool(
		[]*model.AtlasStop{
			atlasTokens(atlasAt("a1", "100", "", 0), gtfsToken("R1", "0", "")),
		},
		[]*model.OsmNode{
			osmTokens(osmAt("o1", "100", "", 900), gtfsToken("R1", "0", "")),
			osmTokens(osmAt("o2", "100", "", 1200), gtfsToken("R1", "0", "")),
		},
	)

	records, err := RouteStage{}.Run(pool)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRouteNormalisedTier(t *testing.T) {
	pool := newRoutePool(
		[]*model.AtlasStop{
			atlasTokens(atlasAt("a1", "100", "", 0), gtfsToken("91-10-A-j24-1", "0", "91-10-A-jXX-1")),
		},
		[]*model.OsmNode{
			osmTokens(osmAt("o1", "100", "", 300), gtfsToken("91-10-A-j25-1", "0", "91-10-A-jXX-1")),
		},
	)

	records, err := RouteStage{}.Run(pool)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, model.MatchTypeRouteGTFS, records[0].MatchType)
	assert.Equal(t, model.RouteTierNormalised, records[0].RouteTier)
}

func TestRouteHRDFFallback(t *testing.T) {
	hrdf := model.RouteToken{Source: model.RouteSourceHRDF, LineName: "IC1", DirectionUIC: "8503000"}

	pool := newRoutePool(
		[]*model.AtlasStop{
			atlasTokens(atlasAt("a1", "100", "", 0), hrdf),
			// GTFS tokens take priority, the HRDF key of this stop is ignored
			atlasTokens(atlasAt("a2", "200", "", 0), hrdf, gtfsToken("R7", "0", "")),
		},
		[]*model.OsmNode{
			osmTokens(osmAt("o1", "100", "", 300), hrdf),
			osmTokens(osmAt("o2", "200", "", 300), hrdf),
		},
	)

	records, err := RouteStage{}.Run(pool)
	require.NoError(t, err)

	assert.Equal(t, map[string]model.MatchType{"a1->o1": model.MatchTypeRouteHRDF}, matchTypes(records))
}

func TestRouteProximity(t *testing.T) {
	pool := newRoutePool(
		[]*model.AtlasStop{
			atlasTokens(atlasAt("a1", "", "", 0), gtfsToken("R1", "0", "")),
		},
		[]*model.OsmNode{
			osmTokens(osmAt("o1", "", "", 5), gtfsToken("R2", "0", "")),
			osmTokens(osmAt("o2", "", "", 8), gtfsToken("R1", "0", "")),
			osmTokens(osmAt("o3", "", "", 30), gtfsToken("R1", "0", "")),
			osmTokens(osmAt("o4", "", "", 80), gtfsToken("R1", "0", "")),
		},
	)

	records, err := RouteStage{}.Run(pool)
	require.NoError(t, err)

	assert.Equal(t, map[string]model.MatchType{"a1->o2": model.MatchTypeRouteGTFS}, matchTypes(records))
}

func TestRouteProximityManyToOne(t *testing.T) {
	pool := newRoutePool(
		[]*model.AtlasStop{
			atlasTokens(atlasAt("a1", "", "", 0), gtfsToken("R1", "0", "")),
			atlasTokens(atlasAt("a2", "", "", 40), gtfsToken("R1", "0", "")),
		},
		[]*model.OsmNode{
			osmTokens(osmAt("o1", "", "", 35), gtfsToken("R1", "0", "")),
		},
	)

	records, err := RouteStage{}.Run(pool)
	require.NoError(t, err)

	assert.Equal(t, map[string]model.MatchType{"a2->o1": model.MatchTypeRouteGTFS}, matchTypes(records))
}

func TestRouteProximityRejectsManyToMany(t *testing.T) {
	pool := newRoutePool(
		[]*model.AtlasStop{
			atlasTokens(atlasAt("a1", "", "", 0), gtfsToken("R9", "0", "")),
			atlasTokens(atlasAt("a2", "", "", 100), gtfsToken("R9", "0", "")),
		},
		[]*model.OsmNode{
			osmTokens(osmAt("o1", "", "", 2), gtfsToken("R9", "0", "")),
			osmTokens(osmAt("o2", "", "", 102), gtfsToken("R9", "0", "")),
		},
	)

	records, err := RouteStage{}.Run(pool)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRouteMultipleRecordsPerStop(t *testing.T) {
	pool := newRoutePool(
		[]*model.AtlasStop{
			atlasTokens(atlasAt("a1", "100", "", 0), gtfsToken("R1", "0", ""), gtfsToken("R2", "0", "")),
		},
		[]*model.OsmNode{
			osmTokens(osmAt("o1", "100", "", 10), gtfsToken("R1", "0", "")),
			osmTokens(osmAt("o2", "100", "", 20), gtfsToken("R2", "0", "")),
		},
	)

	records, err := RouteStage{}.Run(pool)
	require.NoError(t, err)

	assert.Equal(t, map[string]model.MatchType{
		"a1->o1": model.MatchTypeRouteGTFS,
		"a1->o2": model.MatchTypeRouteGTFS,
	}, matchTypes(records))
}

func TestRouteOperatorMismatchIsAnnotated(t *testing.T) {
	stop := atlasTokens(atlasAt("a1", "100", "", 0), gtfsToken("R1", "0", ""))
	stop.BusinessOrgAbbr = "BLS"

	node := osmTokens(osmAt("o1", "100", "", 10), gtfsToken("R1", "0", ""))
	node.Operator = "SBB"

	records, err := RouteStage{}.Run(newRoutePool([]*model.AtlasStop{stop}, []*model.OsmNode{node}))
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Contains(t, records[0].Notes(), "operator mismatch")
}

func TestRouteStageSkippedWithoutTokens(t *testing.T) {
	pool := newTestPool(
		[]*model.AtlasStop{atlasTokens(atlasAt("a1", "100", "", 0), gtfsToken("R1", "0", ""))},
		[]*model.OsmNode{osmTokens(osmAt("o1", "100", "", 10), gtfsToken("R1", "0", ""))},
	)

	records, err := RouteStage{}.Run(pool)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestOperatorMismatch(t *testing.T) {
	assert.False(t, operatorMismatch("SBB", " sbb "))
	assert.False(t, operatorMismatch("", "SBB"))
	assert.False(t, operatorMismatch("Bern Mobil", "bern  mobil"))
	assert.True(t, operatorMismatch("BLS", "SBB"))
}
