package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/travigo/stopmatch/pkg/model"
)

func TestSummarise(t *testing.T) {
	stop := &model.AtlasStop{Sloid: "a"}
	node := &model.OsmNode{NodeID: "1"}

	matched := model.NewStopRecord(model.StopRecordMatched, stop, node, model.MatchTypeExact)
	matched.Match = &model.MatchRecord{AtlasSloid: "a", OsmNodeID: "1", MatchType: model.MatchTypeExact}

	isolated := model.NewStopRecord(model.StopRecordAtlasOnly, stop, nil, model.MatchTypeNoOsmWithin50m)
	isolated.UnmatchedAtlas = &model.UnmatchedAtlas{Stop: stop, Annotation: model.MatchTypeNoOsmWithin50m}

	osmOnly := model.NewStopRecord(model.StopRecordOsmOnly, nil, node, model.MatchTypeNone)
	osmOnly.UnmatchedOsm = &model.UnmatchedOsm{Node: node}

	summary := Summarise(
		[]*model.StopRecord{matched, isolated, osmOnly},
		[]model.Problem{
			{StopID: matched.ID, ProblemType: model.ProblemTypeDistance, Priority: model.PriorityLow},
			{StopID: isolated.ID, ProblemType: model.ProblemTypeUnmatched, Priority: model.PriorityHigh},
			{StopID: osmOnly.ID, ProblemType: model.ProblemTypeUnmatched, Priority: model.PriorityHigh},
		},
	)

	assert.Equal(t, map[string]int{"matched": 1, "unmatched_atlas": 1, "unmatched_osm": 1}, summary.Stops)
	assert.Equal(t, map[string]int{"exact": 1, "no_osm_within_50m": 1}, summary.MatchTypes)
	assert.Equal(t, map[string]int{"distance/P3": 1, "unmatched/P1": 2}, summary.Problems)
}
