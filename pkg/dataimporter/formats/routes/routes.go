package routes

import (
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/travigo/stopmatch/pkg/dataimporter/formats"
	"github.com/travigo/stopmatch/pkg/model"
)

type AtlasRouteRow struct {
	Sloid         string `csv:"sloid"`
	Source        string `csv:"source"`
	RouteID       string `csv:"route_id"`
	DirectionID   string `csv:"direction_id"`
	LineName      string `csv:"line_name"`
	DirectionUIC  string `csv:"direction_uic"`
	DirectionName string `csv:"direction_name"`
}

type OsmRouteRow struct {
	NodeID       string `csv:"node_id"`
	Source       string `csv:"source"`
	RouteID      string `csv:"route_id"`
	DirectionID  string `csv:"direction_id"`
	LineName     string `csv:"line_name"`
	DirectionUIC string `csv:"direction_uic"`
}

// AtlasRouteTable is the unified GTFS / HRDF route table keyed by sloid
type AtlasRouteTable struct {
	Delimiter rune

	Tokens map[string][]model.RouteToken

	stats model.LoadStats
}

func (t *AtlasRouteTable) ParseFile(reader io.Reader) error {
	var rows []*AtlasRouteRow
	if err := gocsv.UnmarshalCSV(formats.NewCSVReader(reader, t.Delimiter), &rows); err != nil {
		return err
	}

	t.Tokens = map[string][]model.RouteToken{}
	t.stats = model.LoadStats{File: "atlas_routes", Rows: len(rows)}

	for _, row := range rows {
		sloid := strings.TrimSpace(row.Sloid)
		if sloid == "" {
			t.stats.Malformed++
			continue
		}

		var token model.RouteToken
		switch model.RouteSource(strings.ToLower(strings.TrimSpace(row.Source))) {
		case model.RouteSourceHRDF:
			token = model.RouteToken{
				Source:        model.RouteSourceHRDF,
				LineName:      strings.TrimSpace(row.LineName),
				DirectionUIC:  strings.TrimSpace(row.DirectionUIC),
				DirectionName: strings.TrimSpace(row.DirectionName),
			}
			if token.LineName == "" || token.DirectionUIC == "" {
				t.stats.Malformed++
				continue
			}
		case model.RouteSourceGTFS, "":
			direction, known := CoerceDirection(row.DirectionID)
			routeID := strings.TrimSpace(row.RouteID)
			// Without a direction the key can never be built on the ATLAS side
			if routeID == "" || !known {
				t.stats.Malformed++
				continue
			}
			token = model.RouteToken{
				Source:            model.RouteSourceGTFS,
				RouteID:           routeID,
				RouteIDNormalised: NormaliseRouteID(routeID),
				DirectionID:       direction,
			}
		default:
			t.stats.Malformed++
			continue
		}

		t.Tokens[sloid] = append(t.Tokens[sloid], token)
		t.stats.Kept++
	}

	return nil
}

func (t *AtlasRouteTable) LoadStats() model.LoadStats {
	return t.stats
}

// OsmRouteTable holds the route tokens of OSM nodes, derived from route relation membership
type OsmRouteTable struct {
	Delimiter rune

	Tokens map[string][]model.RouteToken

	stats model.LoadStats
}

func (t *OsmRouteTable) ParseFile(reader io.Reader) error {
	var rows []*OsmRouteRow
	if err := gocsv.UnmarshalCSV(formats.NewCSVReader(reader, t.Delimiter), &rows); err != nil {
		return err
	}

	t.Tokens = map[string][]model.RouteToken{}
	t.stats = model.LoadStats{File: "osm_routes", Rows: len(rows)}

	for _, row := range rows {
		nodeID := strings.TrimSpace(row.NodeID)
		if nodeID == "" {
			t.stats.Malformed++
			continue
		}

		if model.RouteSource(strings.ToLower(strings.TrimSpace(row.Source))) == model.RouteSourceHRDF {
			token := model.RouteToken{
				Source:       model.RouteSourceHRDF,
				LineName:     strings.TrimSpace(row.LineName),
				DirectionUIC: strings.TrimSpace(row.DirectionUIC),
			}
			if token.LineName == "" || token.DirectionUIC == "" {
				t.stats.Malformed++
				continue
			}

			t.Tokens[nodeID] = append(t.Tokens[nodeID], token)
			t.stats.Kept++
			continue
		}

		routeID := strings.TrimSpace(row.RouteID)
		if routeID == "" {
			t.stats.Malformed++
			continue
		}

		t.Tokens[nodeID] = append(t.Tokens[nodeID], ExpandOsmDirections(routeID, row.DirectionID)...)
		t.stats.Kept++
	}

	return nil
}

func (t *OsmRouteTable) LoadStats() model.LoadStats {
	return t.stats
}

// ExpandOsmDirections builds the GTFS tokens for an OSM route membership.
// An unknown direction yields a token for both directions.
func ExpandOsmDirections(routeID string, direction string) []model.RouteToken {
	directions := []string{"0", "1"}
	if coerced, known := CoerceDirection(direction); known {
		directions = []string{coerced}
	}

	var tokens []model.RouteToken
	for _, directionID := range directions {
		tokens = append(tokens, model.RouteToken{
			Source:            model.RouteSourceGTFS,
			RouteID:           routeID,
			RouteIDNormalised: NormaliseRouteID(routeID),
			DirectionID:       directionID,
		})
	}

	return tokens
}

// AttachAtlas sets the route tokens of every stop found in tokens
func AttachAtlas(stops []*model.AtlasStop, tokens map[string][]model.RouteToken) {
	for _, stop := range stops {
		stop.RouteTokens = tokens[stop.Sloid]
	}
}

// AttachOsm sets the route tokens of every node found in tokens
func AttachOsm(nodes []*model.OsmNode, tokens map[string][]model.RouteToken) {
	for _, node := range nodes {
		node.RouteTokens = tokens[node.NodeID]
	}
}
