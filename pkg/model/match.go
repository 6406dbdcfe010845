package model

import (
	"fmt"
	"strings"
)

// MatchType is the closed set of ways a MatchRecord can come about.
// MatchTypeNoOsmWithin50m is an annotation on unmatched ATLAS stops, never a match.
type MatchType int

const (
	MatchTypeNone MatchType = iota
	MatchTypeManual
	MatchTypeExact
	MatchTypeName
	MatchTypeDistance1
	MatchTypeDistance2
	MatchTypeDistance3
	MatchTypeDistance4
	MatchTypeRouteGTFS
	MatchTypeRouteHRDF
	MatchTypeUniqueByUIC
	MatchTypeDuplicatePropagation
	MatchTypeNoOsmWithin50m
)

var matchTypeNames = map[MatchType]string{
	MatchTypeNone:                 "",
	MatchTypeManual:               "manual",
	MatchTypeExact:                "exact",
	MatchTypeName:                 "name",
	MatchTypeDistance1:            "distance_1",
	MatchTypeDistance2:            "distance_2",
	MatchTypeDistance3:            "distance_3",
	MatchTypeDistance4:            "distance_4",
	MatchTypeRouteGTFS:            "route_unified_gtfs",
	MatchTypeRouteHRDF:            "route_unified_hrdf",
	MatchTypeUniqueByUIC:          "unique_by_uic",
	MatchTypeDuplicatePropagation: "duplicate_propagation",
	MatchTypeNoOsmWithin50m:       "no_osm_within_50m",
}

func (t MatchType) String() string {
	if name, exists := matchTypeNames[t]; exists {
		return name
	}

	return fmt.Sprintf("MatchType(%d)", int(t))
}

func (t MatchType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *MatchType) UnmarshalText(text []byte) error {
	for matchType, name := range matchTypeNames {
		if name == string(text) {
			*t = matchType
			return nil
		}
	}

	return fmt.Errorf("unknown match type %q", string(text))
}

// IsMatch is false for the empty value and the isolation annotation
func (t MatchType) IsMatch() bool {
	return t != MatchTypeNone && t != MatchTypeNoOsmWithin50m
}

// RouteTier tells whether a route match used the route id as published or the
// year-normalised variant
type RouteTier string

const (
	RouteTierNone       RouteTier = ""
	RouteTierExact      RouteTier = "exact"
	RouteTierNormalised RouteTier = "normalised"
)

type MatchRecord struct {
	AtlasSloid string
	OsmNodeID  string
	MatchType  MatchType
	RouteTier  RouteTier

	DistanceMeters *float64

	MatchingNotes []string
}

func (m *MatchRecord) AddNote(format string, args ...any) {
	m.MatchingNotes = append(m.MatchingNotes, fmt.Sprintf(format, args...))
}

func (m *MatchRecord) Notes() string {
	return strings.Join(m.MatchingNotes, "; ")
}

// ManualMatchOverride is a persisted pairing applied before any automatic stage
type ManualMatchOverride struct {
	Sloid     string
	OsmNodeID string
}

// DuplicateSloidMap maps a sloid to the other sloids sharing its (UIC, designation)
type DuplicateSloidMap map[string][]string

func (d DuplicateSloidMap) Contains(sloid string) bool {
	_, exists := d[sloid]
	return exists
}
