package matching

import (
	"github.com/travigo/stopmatch/pkg/geo"
	"github.com/travigo/stopmatch/pkg/model"
)

type isolationResult struct {
	isolated bool
	nearest  *float64
}

// Pool is the state threaded through the stages of one run: which ATLAS stops are
// matched, which OSM nodes are used and the records produced so far
type Pool struct {
	dataset *model.Dataset
	config  Config

	used         *UsedOsmNodeSet
	matchedAtlas map[string]bool
	manualSloids map[string]bool

	// Both indexes are built once per run and never modified
	osmIndex   *geo.Index
	atlasIndex *geo.Index

	isolation map[string]isolationResult

	records []model.MatchRecord
}

func NewPool(dataset *model.Dataset, config Config) *Pool {
	var osmPoints []geo.IndexPoint
	for _, node := range dataset.Osm {
		if node.IsStation {
			continue
		}
		osmPoints = append(osmPoints, geo.IndexPoint{ID: node.NodeID, Latitude: node.Location.Latitude, Longitude: node.Location.Longitude})
	}

	atlasPoints := make([]geo.IndexPoint, 0, len(dataset.Atlas))
	for _, stop := range dataset.Atlas {
		atlasPoints = append(atlasPoints, geo.IndexPoint{ID: stop.Sloid, Latitude: stop.Location.Latitude, Longitude: stop.Location.Longitude})
	}

	return &Pool{
		dataset:      dataset,
		config:       config,
		used:         NewUsedOsmNodeSet(),
		matchedAtlas: map[string]bool{},
		manualSloids: map[string]bool{},
		osmIndex:     geo.NewIndex(osmPoints),
		atlasIndex:   geo.NewIndex(atlasPoints),
		isolation:    map[string]isolationResult{},
	}
}

func (p *Pool) Dataset() *model.Dataset {
	return p.dataset
}

func (p *Pool) Used() *UsedOsmNodeSet {
	return p.used
}

func (p *Pool) IsMatched(sloid string) bool {
	return p.matchedAtlas[sloid]
}

// RemainingAtlas returns the unmatched ATLAS stops in sloid order
func (p *Pool) RemainingAtlas() []*model.AtlasStop {
	var remaining []*model.AtlasStop
	for _, stop := range p.dataset.Atlas {
		if !p.matchedAtlas[stop.Sloid] {
			remaining = append(remaining, stop)
		}
	}

	return remaining
}

// AvailableOsm returns the unused non-station OSM nodes in node id order
func (p *Pool) AvailableOsm() []*model.OsmNode {
	var available []*model.OsmNode
	for _, node := range p.dataset.Osm {
		if p.IsAvailable(node) {
			available = append(available, node)
		}
	}

	return available
}

func (p *Pool) IsAvailable(node *model.OsmNode) bool {
	return node != nil && !node.IsStation && !p.used.Contains(node.NodeID)
}

func (p *Pool) isAvailableID(nodeID string) bool {
	return p.IsAvailable(p.dataset.OsmNode(nodeID))
}

// OsmWithin returns the OSM nodes around stop accepted by filter, closest first
func (p *Pool) OsmWithin(stop *model.AtlasStop, radius float64, filter func(*model.OsmNode) bool) []geo.Neighbour {
	return p.osmIndex.Within(stop.Location.Latitude, stop.Location.Longitude, radius, func(id string) bool {
		return filter(p.dataset.OsmNode(id))
	})
}

func newRecord(stop *model.AtlasStop, node *model.OsmNode, matchType model.MatchType) model.MatchRecord {
	distance := stop.Location.DistanceTo(node.Location)

	return model.MatchRecord{
		AtlasSloid:     stop.Sloid,
		OsmNodeID:      node.NodeID,
		MatchType:      matchType,
		DistanceMeters: &distance,
	}
}

// accept claims the node of record and marks its ATLAS stop as matched
func (p *Pool) accept(record model.MatchRecord) error {
	if err := p.used.Claim(record.OsmNodeID, record.AtlasSloid); err != nil {
		return err
	}

	p.matchedAtlas[record.AtlasSloid] = true
	p.records = append(p.records, record)

	return nil
}

// acceptGroup accepts records that all point at the same node held jointly
func (p *Pool) acceptGroup(records []model.MatchRecord) error {
	if len(records) == 0 {
		return nil
	}

	sloids := make([]string, 0, len(records))
	for _, record := range records {
		sloids = append(sloids, record.AtlasSloid)
	}

	if err := p.used.Claim(records[0].OsmNodeID, sloids...); err != nil {
		return err
	}

	for _, record := range records {
		p.matchedAtlas[record.AtlasSloid] = true
		p.records = append(p.records, record)
	}

	return nil
}

// acceptShared attaches record to a node already held by holder
func (p *Pool) acceptShared(record model.MatchRecord, holder string) error {
	if err := p.used.Share(record.OsmNodeID, holder, record.AtlasSloid); err != nil {
		return err
	}

	p.matchedAtlas[record.AtlasSloid] = true
	p.records = append(p.records, record)

	return nil
}
