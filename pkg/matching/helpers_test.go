package matching

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/travigo/stopmatch/pkg/geo"
	"github.com/travigo/stopmatch/pkg/model"
)

const originLat, originLon = 46.94897, 7.43915

func locationAt(north float64, east float64) model.Location {
	lat, lon := geo.Offset(originLat, originLon, north, east)
	return model.Location{Latitude: lat, Longitude: lon}
}

func atlasAt(sloid string, uicRef string, designation string, east float64) *model.AtlasStop {
	return &model.AtlasStop{
		Sloid:           sloid,
		UICRef:          uicRef,
		Designation:     designation,
		BusinessOrgAbbr: "SBB",
		Location:        locationAt(0, east),
	}
}

func osmAt(nodeID string, uicRef string, localRef string, east float64) *model.OsmNode {
	return &model.OsmNode{
		NodeID:              nodeID,
		UICRef:              uicRef,
		LocalRef:            localRef,
		PublicTransportKind: model.PublicTransportPlatform,
		Location:            locationAt(0, east),
	}
}

func gtfsToken(routeID string, directionID string, normalised string) model.RouteToken {
	if normalised == "" {
		normalised = routeID
	}
	return model.RouteToken{
		Source:            model.RouteSourceGTFS,
		RouteID:           routeID,
		RouteIDNormalised: normalised,
		DirectionID:       directionID,
	}
}

func newTestPool(atlas []*model.AtlasStop, osm []*model.OsmNode) *Pool {
	return NewPool(model.NewDataset(atlas, osm), DefaultConfig())
}

func runPipeline(t *testing.T, dataset *model.Dataset) *Result {
	t.Helper()

	result, err := NewPipeline(DefaultConfig()).Run(dataset)
	require.NoError(t, err)

	return result
}

func matchTypes(records []model.MatchRecord) map[string]model.MatchType {
	types := map[string]model.MatchType{}
	for _, record := range records {
		types[record.AtlasSloid+"->"+record.OsmNodeID] = record.MatchType
	}

	return types
}
