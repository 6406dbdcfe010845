package problems

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/travigo/stopmatch/pkg/matching"
	"github.com/travigo/stopmatch/pkg/model"
)

var problemTypeOrder = []model.ProblemType{
	model.ProblemTypeDistance,
	model.ProblemTypeUnmatched,
	model.ProblemTypeAttributes,
	model.ProblemTypeDuplicates,
}

// Detector classifies the stop records of a finished run. It never modifies the result.
type Detector struct {
	config  Config
	dataset *model.Dataset

	atlasPerUIC       map[string]int
	osmPerUIC         map[string]int
	osmPlatformPerUIC map[string]int
	osmLocalRefCount  map[string]int
}

func NewDetector(config Config, dataset *model.Dataset) *Detector {
	detector := &Detector{
		config:            config,
		dataset:           dataset,
		atlasPerUIC:       map[string]int{},
		osmPerUIC:         map[string]int{},
		osmPlatformPerUIC: map[string]int{},
		osmLocalRefCount:  map[string]int{},
	}

	for uicRef, stops := range dataset.AtlasByUIC() {
		detector.atlasPerUIC[uicRef] = len(stops)
	}

	for uicRef, nodes := range dataset.OsmByUIC() {
		detector.osmPerUIC[uicRef] = len(nodes)

		for _, node := range nodes {
			if node.PublicTransportKind == model.PublicTransportPlatform {
				detector.osmPlatformPerUIC[uicRef]++
			}
			if node.IsPlatformLike() && node.LocalRef != "" {
				detector.osmLocalRefCount[localRefKey(node)]++
			}
		}
	}

	return detector
}

func localRefKey(node *model.OsmNode) string {
	return node.UICRef + "\x00" + strings.ToLower(strings.TrimSpace(node.LocalRef))
}

// Detect returns at most one problem per stop record and problem type, in stop record order
func (d *Detector) Detect(result *matching.Result, stops []*model.StopRecord) []model.Problem {
	var problems []model.Problem
	counts := map[model.ProblemType]int{}

	for _, stop := range stops {
		priorities := d.classify(result, stop)

		for _, problemType := range problemTypeOrder {
			priority := priorities[problemType]
			if priority == model.PriorityNone {
				continue
			}

			problems = append(problems, model.Problem{
				StopID:      stop.ID,
				ProblemType: problemType,
				Priority:    priority,
			})
			counts[problemType]++
		}
	}

	log.Info().
		Int("distance", counts[model.ProblemTypeDistance]).
		Int("unmatched", counts[model.ProblemTypeUnmatched]).
		Int("attributes", counts[model.ProblemTypeAttributes]).
		Int("duplicates", counts[model.ProblemTypeDuplicates]).
		Msg("Detected problems")

	return problems
}

func (d *Detector) classify(result *matching.Result, stop *model.StopRecord) map[model.ProblemType]model.Priority {
	priorities := map[model.ProblemType]model.Priority{}

	switch stop.Type {
	case model.StopRecordMatched:
		if stop.Match == nil || !stop.Match.MatchType.IsMatch() {
			break
		}
		if stop.Atlas != nil {
			priorities[model.ProblemTypeDistance] = d.config.DistancePriority(stop.Match.DistanceMeters, stop.Atlas.BusinessOrgAbbr)
		}
		priorities[model.ProblemTypeAttributes] = AttributesPriority(stop.Atlas, stop.Osm)
	case model.StopRecordAtlasOnly:
		if unmatched := stop.UnmatchedAtlas; unmatched != nil && unmatched.Annotation == model.MatchTypeNoOsmWithin50m {
			priorities[model.ProblemTypeUnmatched] = d.config.UnmatchedPriority(
				unmatched.NearestOppositeDistance,
				d.osmPerUIC[unmatched.Stop.UICRef] > 0,
				d.platformCountMismatch(unmatched.Stop.UICRef),
			)
		}
	case model.StopRecordOsmOnly:
		if unmatched := stop.UnmatchedOsm; unmatched != nil && unmatched.IsIsolated {
			priorities[model.ProblemTypeUnmatched] = d.config.UnmatchedPriority(
				unmatched.NearestOppositeDistance,
				d.atlasPerUIC[unmatched.Node.UICRef] > 0,
				d.platformCountMismatch(unmatched.Node.UICRef),
			)
		}
	}

	priorities[model.ProblemTypeDuplicates] = d.duplicatePriority(result, stop)

	return priorities
}

func (d *Detector) platformCountMismatch(uicRef string) bool {
	if uicRef == "" {
		return false
	}

	return d.atlasPerUIC[uicRef] != d.osmPlatformPerUIC[uicRef]
}

func (d *Detector) duplicatePriority(result *matching.Result, stop *model.StopRecord) model.Priority {
	priority := model.PriorityNone

	if stop.Atlas != nil && result.DuplicateSloids.Contains(stop.Atlas.Sloid) {
		priority = priority.MoreSevere(model.PriorityMedium)
	}

	if node := stop.Osm; node != nil && node.IsPlatformLike() && node.UICRef != "" && node.LocalRef != "" {
		if d.osmLocalRefCount[localRefKey(node)] > 1 {
			priority = priority.MoreSevere(model.PriorityLow)
		}
	}

	return priority
}
