package osm

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/osm"
	"github.com/rs/zerolog/log"
	"github.com/travigo/stopmatch/pkg/geo"
	"github.com/travigo/stopmatch/pkg/model"
	"github.com/travigo/stopmatch/pkg/operators"
	"golang.org/x/net/html/charset"
)

// Extract holds the public transport nodes of an OSM XML extract
type Extract struct {
	Operators *operators.Normaliser
	Filter    func(tags osm.Tags) bool

	Nodes []*model.OsmNode

	stats model.LoadStats
}

func (e *Extract) ParseFile(reader io.Reader) error {
	if e.Operators == nil {
		e.Operators = operators.Default()
	}
	if e.Filter == nil {
		e.Filter = PublicTransportFilter
	}
	e.stats = model.LoadStats{File: "osm"}

	d := xml.NewDecoder(reader)
	d.CharsetReader = charset.NewReaderLabel

	for {
		tok, err := d.Token()
		if tok == nil || err == io.EOF {
			// EOF means we're done.
			break
		} else if err != nil {
			log.Error().Err(err).Msg("Error decoding token")
			return err
		}

		switch ty := tok.(type) {
		case xml.StartElement:
			if ty.Name.Local != "node" {
				continue
			}
			e.stats.Rows++

			var node osm.Node
			if err = d.DecodeElement(&node, &ty); err != nil {
				log.Debug().Err(err).Msg("Skipping malformed node")
				e.stats.Malformed++
				continue
			}

			if !e.Filter(node.Tags) {
				e.stats.Filtered++
				continue
			}

			if !validNodeLocation(&node) {
				e.stats.Malformed++
				continue
			}

			e.Nodes = append(e.Nodes, e.toOsmNode(&node))
		default:
		}
	}
	e.stats.Kept = len(e.Nodes)

	return nil
}

func (e *Extract) LoadStats() model.LoadStats {
	return e.stats
}

func (e *Extract) toOsmNode(node *osm.Node) *model.OsmNode {
	tags := node.Tags
	publicTransport := tags.Find("public_transport")
	railway := tags.Find("railway")

	return &model.OsmNode{
		NodeID:              strconv.FormatInt(int64(node.ID), 10),
		UICRef:              strings.TrimSpace(tags.Find("uic_ref")),
		LocalRef:            strings.TrimSpace(tags.Find("local_ref")),
		Name:                tags.Find("name"),
		UICName:             tags.Find("uic_name"),
		GTFSName:            tags.Find("gtfs:name"),
		Network:             tags.Find("network"),
		Operator:            e.Operators.Normalise(tags.Find("operator")),
		PublicTransportKind: model.ParsePublicTransportKind(publicTransport),
		Railway:             railway,
		Amenity:             tags.Find("amenity"),
		Aerialway:           tags.Find("aerialway"),
		IsStation:           railway == "station" || publicTransport == "station",
		Location: model.Location{
			Latitude:  node.Lat,
			Longitude: node.Lon,
		},
	}
}

func validNodeLocation(node *osm.Node) bool {
	if node.ID == 0 || (node.Lat == 0 && node.Lon == 0) {
		return false
	}

	return geo.ValidCoordinate(node.Lat, node.Lon)
}
