package model

// AtlasStop is a platform level record of the ATLAS registry
type AtlasStop struct {
	Sloid               string
	UICRef              string
	Designation         string
	DesignationOfficial string
	BusinessOrgAbbr     string

	Location Location

	RouteTokens []RouteToken
}

// UnmatchedAtlas is an ATLAS stop left over after every matching stage
type UnmatchedAtlas struct {
	Stop *AtlasStop

	// Annotation is set by the isolation pass of the distance matcher
	Annotation MatchType

	IsIsolated bool

	// Distance to the closest non-station OSM node, nil when there is none
	NearestOppositeDistance *float64
}
