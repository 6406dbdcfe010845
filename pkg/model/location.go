package model

import "github.com/travigo/stopmatch/pkg/geo"

type Location struct {
	Latitude  float64 `json:"lat" bson:"lat"`
	Longitude float64 `json:"lon" bson:"lon"`
}

func (l Location) DistanceTo(other Location) float64 {
	return geo.Haversine(l.Latitude, l.Longitude, other.Latitude, other.Longitude)
}
