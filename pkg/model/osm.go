package model

type PublicTransportKind string

const (
	PublicTransportPlatform     PublicTransportKind = "platform"
	PublicTransportStopPosition PublicTransportKind = "stop_position"
	PublicTransportStation      PublicTransportKind = "station"
	PublicTransportOther        PublicTransportKind = "other"
)

func ParsePublicTransportKind(tag string) PublicTransportKind {
	switch PublicTransportKind(tag) {
	case PublicTransportPlatform, PublicTransportStopPosition, PublicTransportStation:
		return PublicTransportKind(tag)
	default:
		return PublicTransportOther
	}
}

type OsmNode struct {
	NodeID   string
	UICRef   string
	LocalRef string
	Name     string
	UICName  string
	GTFSName string
	Network  string
	Operator string

	PublicTransportKind PublicTransportKind
	Railway             string
	Amenity             string
	Aerialway           string

	// Station level nodes are excluded from every matching stage
	IsStation bool

	Location Location

	RouteTokens []RouteToken
}

// IsPlatformLike is true for nodes representing where a vehicle is boarded
func (n *OsmNode) IsPlatformLike() bool {
	return n.PublicTransportKind == PublicTransportPlatform || n.PublicTransportKind == PublicTransportStopPosition
}

// UnmatchedOsm is a non-station OSM node left over after every matching stage
type UnmatchedOsm struct {
	Node *OsmNode

	IsIsolated bool

	// Distance to the closest ATLAS stop, nil when there is none
	NearestOppositeDistance *float64
}
