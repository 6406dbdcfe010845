package exporter

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/travigo/stopmatch/pkg/model"
)

func formatDistance(distance *float64) string {
	if distance == nil {
		return ""
	}

	return strconv.FormatFloat(*distance, 'f', 1, 64)
}

// Rows splits the stop records into the rows of the three result files
func Rows(stops []*model.StopRecord) ([]*MatchRow, []*UnmatchedAtlasRow, []*UnmatchedOsmRow) {
	var matches []*MatchRow
	var unmatchedAtlas []*UnmatchedAtlasRow
	var unmatchedOsm []*UnmatchedOsmRow

	for _, stop := range stops {
		switch stop.Type {
		case model.StopRecordMatched:
			matches = append(matches, &MatchRow{
				StopID:         stop.ID,
				Sloid:          stop.Match.AtlasSloid,
				OsmNodeID:      stop.Match.OsmNodeID,
				MatchType:      stop.Match.MatchType.String(),
				RouteTier:      string(stop.Match.RouteTier),
				DistanceMeters: formatDistance(stop.Match.DistanceMeters),
				Notes:          stop.Match.Notes(),
			})
		case model.StopRecordAtlasOnly:
			unmatched := stop.UnmatchedAtlas
			unmatchedAtlas = append(unmatchedAtlas, &UnmatchedAtlasRow{
				StopID:          stop.ID,
				Sloid:           unmatched.Stop.Sloid,
				UICRef:          unmatched.Stop.UICRef,
				Designation:     unmatched.Stop.Designation,
				BusinessOrgAbbr: unmatched.Stop.BusinessOrgAbbr,
				Latitude:        unmatched.Stop.Location.Latitude,
				Longitude:       unmatched.Stop.Location.Longitude,
				Annotation:      unmatched.Annotation.String(),
				IsIsolated:      unmatched.IsIsolated,
				NearestOsm:      formatDistance(unmatched.NearestOppositeDistance),
			})
		case model.StopRecordOsmOnly:
			unmatched := stop.UnmatchedOsm
			unmatchedOsm = append(unmatchedOsm, &UnmatchedOsmRow{
				StopID:       stop.ID,
				NodeID:       unmatched.Node.NodeID,
				UICRef:       unmatched.Node.UICRef,
				LocalRef:     unmatched.Node.LocalRef,
				Name:         unmatched.Node.Name,
				Kind:         string(unmatched.Node.PublicTransportKind),
				Latitude:     unmatched.Node.Location.Latitude,
				Longitude:    unmatched.Node.Location.Longitude,
				IsIsolated:   unmatched.IsIsolated,
				NearestAtlas: formatDistance(unmatched.NearestOppositeDistance),
			})
		}
	}

	return matches, unmatchedAtlas, unmatchedOsm
}

// WriteCSV dumps the stop records and problems into directory
func WriteCSV(directory string, stops []*model.StopRecord, problems []model.Problem) error {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return err
	}

	matches, unmatchedAtlas, unmatchedOsm := Rows(stops)

	problemRows := make([]*model.Problem, 0, len(problems))
	for i := range problems {
		problemRows = append(problemRows, &problems[i])
	}

	files := []struct {
		name string
		rows any
	}{
		{name: "matches.csv", rows: &matches},
		{name: "unmatched_atlas.csv", rows: &unmatchedAtlas},
		{name: "unmatched_osm.csv", rows: &unmatchedOsm},
		{name: "problems.csv", rows: &problemRows},
	}

	for _, file := range files {
		path := filepath.Join(directory, file.name)

		if err := writeCSVFile(path, file.rows); err != nil {
			return err
		}

		log.Info().Str("file", path).Msg("Written CSV")
	}

	return nil
}

func writeCSVFile(path string, rows any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return gocsv.MarshalFile(rows, file)
}
