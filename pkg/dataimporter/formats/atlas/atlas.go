package atlas

import (
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/travigo/stopmatch/pkg/dataimporter/formats"
	"github.com/travigo/stopmatch/pkg/geo"
	"github.com/travigo/stopmatch/pkg/model"
)

type TrafficPoint struct {
	Sloid               string `csv:"sloid"`
	Number              string `csv:"number"`
	Designation         string `csv:"designation"`
	DesignationOfficial string `csv:"designationOfficial"`
	BusinessOrgAbbr     string `csv:"businessOrgAbbr"`
	Latitude            string `csv:"lat"`
	Longitude           string `csv:"lon"`
}

// Registry is an ATLAS traffic point export
type Registry struct {
	Delimiter rune

	Stops []*model.AtlasStop

	stats model.LoadStats
}

func (r *Registry) ParseFile(reader io.Reader) error {
	var trafficPoints []*TrafficPoint
	if err := gocsv.UnmarshalCSV(formats.NewCSVReader(reader, r.Delimiter), &trafficPoints); err != nil {
		return err
	}

	r.stats = model.LoadStats{File: "atlas", Rows: len(trafficPoints)}
	seen := map[string]bool{}

	for _, trafficPoint := range trafficPoints {
		stop, ok := trafficPoint.toAtlasStop()
		if !ok || seen[stop.Sloid] {
			log.Debug().Str("sloid", trafficPoint.Sloid).Msg("Skipping malformed ATLAS row")
			r.stats.Malformed++
			continue
		}

		seen[stop.Sloid] = true
		r.Stops = append(r.Stops, stop)
	}
	r.stats.Kept = len(r.Stops)

	return nil
}

func (r *Registry) LoadStats() model.LoadStats {
	return r.stats
}

func (t *TrafficPoint) toAtlasStop() (*model.AtlasStop, bool) {
	sloid := strings.TrimSpace(t.Sloid)
	if sloid == "" {
		return nil, false
	}

	latitude, err := strconv.ParseFloat(strings.TrimSpace(t.Latitude), 64)
	if err != nil {
		return nil, false
	}
	longitude, err := strconv.ParseFloat(strings.TrimSpace(t.Longitude), 64)
	if err != nil {
		return nil, false
	}
	if !geo.ValidCoordinate(latitude, longitude) {
		return nil, false
	}

	return &model.AtlasStop{
		Sloid:               sloid,
		UICRef:              normaliseUIC(t.Number),
		Designation:         strings.TrimSpace(t.Designation),
		DesignationOfficial: strings.TrimSpace(t.DesignationOfficial),
		BusinessOrgAbbr:     strings.TrimSpace(t.BusinessOrgAbbr),
		Location: model.Location{
			Latitude:  latitude,
			Longitude: longitude,
		},
	}, true
}

// ATLAS exports sometimes carry the service point number as a float ("8507000.0")
func normaliseUIC(number string) string {
	number = strings.TrimSpace(number)
	if whole, found := strings.CutSuffix(number, ".0"); found {
		return whole
	}

	return number
}
