package reconciler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/stopmatch/pkg/config"
	"github.com/travigo/stopmatch/pkg/geo"
	"github.com/travigo/stopmatch/pkg/model"
)

func testDataset() *model.Dataset {
	lat, lon := geo.Offset(46.94897, 7.43915, 0, 40)

	return model.NewDataset(
		[]*model.AtlasStop{
			{Sloid: "ch:1:sloid:7000:1", UICRef: "8507000", Designation: "1", BusinessOrgAbbr: "BLS", Location: model.Location{Latitude: 46.94897, Longitude: 7.43915}},
			{Sloid: "ch:1:sloid:9999:1", Location: model.Location{Latitude: 47.5, Longitude: 8.5}},
		},
		[]*model.OsmNode{
			{NodeID: "1", UICRef: "8507000", LocalRef: "1", PublicTransportKind: model.PublicTransportPlatform, Location: model.Location{Latitude: lat, Longitude: lon}},
		},
	)
}

func TestReconcile(t *testing.T) {
	outcome, err := Reconcile(config.Default(), testDataset())
	require.NoError(t, err)

	require.Len(t, outcome.Result.Matches, 1)
	assert.Len(t, outcome.Stops, 2)

	inspection := outcome.Inspect("ch:1:sloid:7000:1", "")
	require.NotNil(t, inspection.Atlas)
	require.Len(t, inspection.Matches, 1)
	assert.Equal(t, model.MatchTypeExact, inspection.Matches[0].MatchType)
	require.Len(t, inspection.Problems, 1)
	assert.Equal(t, model.ProblemTypeDistance, inspection.Problems[0].ProblemType)
	assert.Equal(t, model.PriorityMedium, inspection.Problems[0].Priority)

	isolated := outcome.Inspect("ch:1:sloid:9999:1", "")
	require.Len(t, isolated.Problems, 1)
	assert.Equal(t, model.ProblemTypeUnmatched, isolated.Problems[0].ProblemType)

	byNode := outcome.Inspect("", "1")
	require.NotNil(t, byNode.Osm)
	assert.Len(t, byNode.Stops, 1)
}

func TestRunWritesCSV(t *testing.T) {
	directory := t.TempDir()

	atlasPath := filepath.Join(directory, "atlas.csv")
	require.NoError(t, os.WriteFile(atlasPath, []byte("sloid,number,designation,designationOfficial,businessOrgAbbr,lat,lon\n"+
		"ch:1:sloid:7000:1,8507000,1,Bern,SBB,46.94897,7.43915\n"), 0644))

	osmPath := filepath.Join(directory, "osm.xml")
	require.NoError(t, os.WriteFile(osmPath, []byte(`<osm><node id="1" lat="46.94898" lon="7.43916"><tag k="public_transport" v="platform"/><tag k="uic_ref" v="8507000"/></node></osm>`), 0644))

	cfg := config.Default()
	cfg.Inputs.Atlas = atlasPath
	cfg.Inputs.Osm = osmPath
	cfg.Inputs.Operators = ""
	cfg.Export.OutputDirectory = filepath.Join(directory, "out")

	outcome, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Len(t, outcome.Result.Matches, 1)
	assert.FileExists(t, filepath.Join(directory, "out", "matches.csv"))
}
