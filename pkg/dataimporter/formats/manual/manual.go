package manual

import (
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/travigo/stopmatch/pkg/dataimporter/formats"
	"github.com/travigo/stopmatch/pkg/model"
)

type OverrideRow struct {
	Sloid     string `csv:"sloid"`
	OsmNodeID string `csv:"osm_node_id"`
}

// Overrides is a CSV export of the persisted manual matches
type Overrides struct {
	Delimiter rune

	Matches []model.ManualMatchOverride

	stats model.LoadStats
}

func (o *Overrides) ParseFile(reader io.Reader) error {
	var rows []*OverrideRow
	if err := gocsv.UnmarshalCSV(formats.NewCSVReader(reader, o.Delimiter), &rows); err != nil {
		return err
	}

	o.stats = model.LoadStats{File: "manual_matches", Rows: len(rows)}
	seen := map[model.ManualMatchOverride]bool{}

	for _, row := range rows {
		override := model.ManualMatchOverride{
			Sloid:     strings.TrimSpace(row.Sloid),
			OsmNodeID: strings.TrimPrefix(strings.TrimSpace(row.OsmNodeID), "node/"),
		}

		if override.Sloid == "" || override.OsmNodeID == "" || seen[override] {
			o.stats.Malformed++
			continue
		}

		seen[override] = true
		o.Matches = append(o.Matches, override)
	}
	o.stats.Kept = len(o.Matches)

	return nil
}

func (o *Overrides) LoadStats() model.LoadStats {
	return o.stats
}
