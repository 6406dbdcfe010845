package model

import (
	"sort"
	"strings"
)

type LoadStats struct {
	File      string
	Rows      int
	Kept      int
	Malformed int
	Filtered  int
}

// Dataset is the immutable in-memory snapshot a matching run works on
type Dataset struct {
	Atlas []*AtlasStop
	Osm   []*OsmNode

	// False when the route token inputs were missing, route matching is then skipped
	RouteTokensLoaded bool

	ManualOverrides []ManualMatchOverride

	Stats []LoadStats

	atlasBySloid map[string]*AtlasStop
	osmByID      map[string]*OsmNode
}

func NewDataset(atlas []*AtlasStop, osm []*OsmNode) *Dataset {
	dataset := &Dataset{
		Atlas: append([]*AtlasStop{}, atlas...),
		Osm:   append([]*OsmNode{}, osm...),
	}

	sort.SliceStable(dataset.Atlas, func(i, j int) bool { return dataset.Atlas[i].Sloid < dataset.Atlas[j].Sloid })
	sort.SliceStable(dataset.Osm, func(i, j int) bool { return dataset.Osm[i].NodeID < dataset.Osm[j].NodeID })

	dataset.atlasBySloid = make(map[string]*AtlasStop, len(dataset.Atlas))
	for _, stop := range dataset.Atlas {
		dataset.atlasBySloid[stop.Sloid] = stop
	}

	dataset.osmByID = make(map[string]*OsmNode, len(dataset.Osm))
	for _, node := range dataset.Osm {
		dataset.osmByID[node.NodeID] = node
	}

	return dataset
}

func (d *Dataset) AtlasStop(sloid string) *AtlasStop {
	return d.atlasBySloid[sloid]
}

func (d *Dataset) OsmNode(nodeID string) *OsmNode {
	return d.osmByID[nodeID]
}

// AtlasByUIC groups ATLAS stops by UIC reference, stops without one are left out
func (d *Dataset) AtlasByUIC() map[string][]*AtlasStop {
	groups := map[string][]*AtlasStop{}
	for _, stop := range d.Atlas {
		if stop.UICRef != "" {
			groups[stop.UICRef] = append(groups[stop.UICRef], stop)
		}
	}

	return groups
}

// OsmByUIC groups non-station OSM nodes by UIC reference
func (d *Dataset) OsmByUIC() map[string][]*OsmNode {
	groups := map[string][]*OsmNode{}
	for _, node := range d.Osm {
		if node.UICRef != "" && !node.IsStation {
			groups[node.UICRef] = append(groups[node.UICRef], node)
		}
	}

	return groups
}

// OsmByName indexes non-station OSM nodes under each of their name, uic_name and gtfs:name values
func (d *Dataset) OsmByName() map[string][]*OsmNode {
	index := map[string][]*OsmNode{}
	for _, node := range d.Osm {
		if node.IsStation {
			continue
		}

		seen := map[string]bool{}
		for _, name := range []string{node.Name, node.UICName, node.GTFSName} {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			index[name] = append(index[name], node)
		}
	}

	return index
}

// DuplicateSloids finds ATLAS stops sharing a UIC reference and designation
func (d *Dataset) DuplicateSloids() DuplicateSloidMap {
	groups := map[string][]string{}
	for _, stop := range d.Atlas {
		if stop.UICRef == "" || strings.TrimSpace(stop.Designation) == "" {
			continue
		}

		key := stop.UICRef + "\x00" + strings.ToLower(strings.TrimSpace(stop.Designation))
		groups[key] = append(groups[key], stop.Sloid)
	}

	duplicates := DuplicateSloidMap{}
	for _, sloids := range groups {
		if len(sloids) < 2 {
			continue
		}

		for _, sloid := range sloids {
			var siblings []string
			for _, sibling := range sloids {
				if sibling != sloid {
					siblings = append(siblings, sibling)
				}
			}
			duplicates[sloid] = siblings
		}
	}

	return duplicates
}
