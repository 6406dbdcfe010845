package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Point builds an orb point from a latitude / longitude pair
func Point(latitude float64, longitude float64) orb.Point {
	return orb.Point{longitude, latitude}
}

// Haversine returns the great-circle distance in metres between two coordinates
func Haversine(lat1 float64, lon1 float64, lat2 float64, lon2 float64) float64 {
	return geo.DistanceHaversine(Point(lat1, lon1), Point(lat2, lon2))
}

// ValidCoordinate reports whether the pair is a usable WGS84 position
func ValidCoordinate(latitude float64, longitude float64) bool {
	if math.IsNaN(latitude) || math.IsNaN(longitude) || math.IsInf(latitude, 0) || math.IsInf(longitude, 0) {
		return false
	}

	return latitude >= -90 && latitude <= 90 && longitude >= -180 && longitude <= 180
}

// Offset moves a coordinate by the given metres north and east
func Offset(latitude float64, longitude float64, north float64, east float64) (float64, float64) {
	point := Point(latitude, longitude)

	if north != 0 {
		point = geo.PointAtBearingAndDistance(point, 0, north)
	}
	if east != 0 {
		point = geo.PointAtBearingAndDistance(point, 90, east)
	}

	return point.Lat(), point.Lon()
}
