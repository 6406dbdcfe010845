package exporter

import (
	"time"

	"github.com/travigo/stopmatch/pkg/model"
)

// StopDocument is the persisted form of a reconciled stop record
type StopDocument struct {
	PrimaryIdentifier string               `bson:"primaryidentifier"`
	Type              model.StopRecordType `bson:"type"`

	Sloid               string          `bson:"sloid,omitempty"`
	UICRef              string          `bson:"uicref,omitempty"`
	Designation         string          `bson:"designation,omitempty"`
	DesignationOfficial string          `bson:"designationofficial,omitempty"`
	BusinessOrgAbbr     string          `bson:"businessorgabbr,omitempty"`
	AtlasLocation       *model.Location `bson:"atlaslocation,omitempty"`

	OsmNodeID   string          `bson:"osmnodeid,omitempty"`
	OsmUICRef   string          `bson:"osmuicref,omitempty"`
	OsmLocalRef string          `bson:"osmlocalref,omitempty"`
	OsmName     string          `bson:"osmname,omitempty"`
	OsmUICName  string          `bson:"osmuicname,omitempty"`
	OsmOperator string          `bson:"osmoperator,omitempty"`
	OsmNetwork  string          `bson:"osmnetwork,omitempty"`
	OsmKind     string          `bson:"osmkind,omitempty"`
	OsmLocation *model.Location `bson:"osmlocation,omitempty"`

	MatchType      string   `bson:"matchtype,omitempty"`
	RouteTier      string   `bson:"routetier,omitempty"`
	DistanceMeters *float64 `bson:"distancemeters,omitempty"`
	MatchingNotes  []string `bson:"matchingnotes,omitempty"`

	IsIsolated              bool     `bson:"isisolated"`
	NearestOppositeDistance *float64 `bson:"nearestoppositedistance,omitempty"`

	CreationDateTime time.Time `bson:"creationdatetime"`
}

func NewStopDocument(stop *model.StopRecord, now time.Time) *StopDocument {
	document := &StopDocument{
		PrimaryIdentifier: stop.ID,
		Type:              stop.Type,
		CreationDateTime:  now,
	}

	if atlas := stop.Atlas; atlas != nil {
		location := atlas.Location

		document.Sloid = atlas.Sloid
		document.UICRef = atlas.UICRef
		document.Designation = atlas.Designation
		document.DesignationOfficial = atlas.DesignationOfficial
		document.BusinessOrgAbbr = atlas.BusinessOrgAbbr
		document.AtlasLocation = &location
	}

	if node := stop.Osm; node != nil {
		location := node.Location

		document.OsmNodeID = node.NodeID
		document.OsmUICRef = node.UICRef
		document.OsmLocalRef = node.LocalRef
		document.OsmName = node.Name
		document.OsmUICName = node.UICName
		document.OsmOperator = node.Operator
		document.OsmNetwork = node.Network
		document.OsmKind = string(node.PublicTransportKind)
		document.OsmLocation = &location
	}

	if match := stop.Match; match != nil {
		document.MatchType = match.MatchType.String()
		document.RouteTier = string(match.RouteTier)
		document.DistanceMeters = match.DistanceMeters
		document.MatchingNotes = match.MatchingNotes
	}

	if unmatched := stop.UnmatchedAtlas; unmatched != nil {
		document.MatchType = unmatched.Annotation.String()
		document.IsIsolated = unmatched.IsIsolated
		document.NearestOppositeDistance = unmatched.NearestOppositeDistance
	}

	if unmatched := stop.UnmatchedOsm; unmatched != nil {
		document.IsIsolated = unmatched.IsIsolated
		document.NearestOppositeDistance = unmatched.NearestOppositeDistance
	}

	return document
}

// MatchDocument is the persisted form of a match record, joined to its stop by StopID
type MatchDocument struct {
	StopID         string   `bson:"stopid"`
	Sloid          string   `bson:"sloid"`
	OsmNodeID      string   `bson:"osmnodeid"`
	MatchType      string   `bson:"matchtype"`
	RouteTier      string   `bson:"routetier,omitempty"`
	DistanceMeters *float64 `bson:"distancemeters,omitempty"`
	MatchingNotes  []string `bson:"matchingnotes,omitempty"`

	CreationDateTime time.Time `bson:"creationdatetime"`
}

// NewMatchDocument returns nil for stop records that carry no match
func NewMatchDocument(stop *model.StopRecord, now time.Time) *MatchDocument {
	match := stop.Match
	if match == nil {
		return nil
	}

	return &MatchDocument{
		StopID:           stop.ID,
		Sloid:            match.AtlasSloid,
		OsmNodeID:        match.OsmNodeID,
		MatchType:        match.MatchType.String(),
		RouteTier:        string(match.RouteTier),
		DistanceMeters:   match.DistanceMeters,
		MatchingNotes:    match.MatchingNotes,
		CreationDateTime: now,
	}
}

// MatchRow is one line of matches.csv
type MatchRow struct {
	StopID         string `csv:"stop_id"`
	Sloid          string `csv:"sloid"`
	OsmNodeID      string `csv:"osm_node_id"`
	MatchType      string `csv:"match_type"`
	RouteTier      string `csv:"route_tier"`
	DistanceMeters string `csv:"distance_m"`
	Notes          string `csv:"notes"`
}

// UnmatchedAtlasRow is one line of unmatched_atlas.csv
type UnmatchedAtlasRow struct {
	StopID          string  `csv:"stop_id"`
	Sloid           string  `csv:"sloid"`
	UICRef          string  `csv:"uic_ref"`
	Designation     string  `csv:"designation"`
	BusinessOrgAbbr string  `csv:"business_org_abbr"`
	Latitude        float64 `csv:"lat"`
	Longitude       float64 `csv:"lon"`
	Annotation      string  `csv:"annotation"`
	IsIsolated      bool    `csv:"is_isolated"`
	NearestOsm      string  `csv:"nearest_osm_m"`
}

// UnmatchedOsmRow is one line of unmatched_osm.csv
type UnmatchedOsmRow struct {
	StopID       string  `csv:"stop_id"`
	NodeID       string  `csv:"node_id"`
	UICRef       string  `csv:"uic_ref"`
	LocalRef     string  `csv:"local_ref"`
	Name         string  `csv:"name"`
	Kind         string  `csv:"public_transport"`
	Latitude     float64 `csv:"lat"`
	Longitude    float64 `csv:"lon"`
	IsIsolated   bool    `csv:"is_isolated"`
	NearestAtlas string  `csv:"nearest_atlas_m"`
}
