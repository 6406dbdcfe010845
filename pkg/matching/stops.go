package matching

import (
	"github.com/travigo/stopmatch/pkg/model"
)

// StopRecords builds the reconciled stop table: one row per match record, per
// unmatched ATLAS stop and per unmatched OSM node, in that order
func (r *Result) StopRecords(dataset *model.Dataset) []*model.StopRecord {
	stops := make([]*model.StopRecord, 0, len(r.Matches)+len(r.UnmatchedAtlas)+len(r.UnmatchedOsm))

	for i := range r.Matches {
		match := &r.Matches[i]

		stop := model.NewStopRecord(model.StopRecordMatched, dataset.AtlasStop(match.AtlasSloid), dataset.OsmNode(match.OsmNodeID), match.MatchType)
		stop.Match = match
		stops = append(stops, stop)
	}

	for i := range r.UnmatchedAtlas {
		unmatched := &r.UnmatchedAtlas[i]

		stop := model.NewStopRecord(model.StopRecordAtlasOnly, unmatched.Stop, nil, unmatched.Annotation)
		stop.UnmatchedAtlas = unmatched
		stops = append(stops, stop)
	}

	for i := range r.UnmatchedOsm {
		unmatched := &r.UnmatchedOsm[i]

		stop := model.NewStopRecord(model.StopRecordOsmOnly, nil, unmatched.Node, model.MatchTypeNone)
		stop.UnmatchedOsm = unmatched
		stops = append(stops, stop)
	}

	return stops
}
