package osm

import "github.com/paulmach/osm"

// PublicTransportFilter keeps nodes describing a stop, platform or station
func PublicTransportFilter(tags osm.Tags) bool {
	if tags.Find("public_transport") != "" {
		return true
	}

	switch tags.Find("railway") {
	case "station", "halt", "tram_stop", "platform":
		return true
	}

	if tags.Find("highway") == "bus_stop" { // unmapped bus stops without the PTv2 scheme
		return true
	}
	if tags.Find("amenity") == "ferry_terminal" {
		return true
	}
	if tags.Find("aerialway") == "station" {
		return true
	}

	return false
}
