package model

type RouteSource string

const (
	RouteSourceGTFS RouteSource = "gtfs"
	RouteSourceHRDF RouteSource = "hrdf"
)

// RouteToken is one route/direction served at a stop.
// GTFS tokens carry RouteID and DirectionID, HRDF tokens carry LineName, DirectionUIC and DirectionName.
type RouteToken struct {
	Source RouteSource

	RouteID           string
	RouteIDNormalised string
	DirectionID       string

	LineName      string
	DirectionUIC  string
	DirectionName string
}

func HasSource(tokens []RouteToken, source RouteSource) bool {
	for _, token := range tokens {
		if token.Source == source {
			return true
		}
	}

	return false
}
