package problems

import (
	"strings"

	"github.com/travigo/stopmatch/pkg/model"
	"github.com/travigo/stopmatch/pkg/util"
)

// DistancePriority ranks the distance between the two sides of a match
func (c Config) DistancePriority(distance *float64, operator string) model.Priority {
	if distance == nil || *distance <= c.MinorDistance {
		return model.PriorityNone
	}

	if strings.EqualFold(strings.TrimSpace(operator), c.PrimaryOperator) {
		return model.PriorityLow
	}

	switch {
	case *distance > c.SevereDistance:
		return model.PriorityHigh
	case *distance > c.Distance:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

// UnmatchedPriority ranks a stop left without a counterpart. nearest is the distance to
// the closest entity of the other dataset, sharedUIC tells whether the other dataset has
// anything under the same UIC reference.
func (c Config) UnmatchedPriority(nearest *float64, sharedUIC bool, platformCountMismatch bool) model.Priority {
	switch {
	case !sharedUIC || nearest == nil || *nearest > c.FarRadius:
		return model.PriorityHigh
	case *nearest > c.IsolationRadius || platformCountMismatch:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

// AttributesPriority compares the attributes both sides of a match carry.
// A value missing on either side is never a mismatch.
func AttributesPriority(stop *model.AtlasStop, node *model.OsmNode) model.Priority {
	if stop == nil || node == nil {
		return model.PriorityNone
	}

	uicDiffers := differs(stop.UICRef, node.UICRef, func(a, b string) bool { return a == b })
	nameDiffers := differs(stop.DesignationOfficial, node.UICName, func(a, b string) bool { return a == b })
	localRefDiffers := differs(stop.Designation, node.LocalRef, strings.EqualFold)
	operatorDiffers := differs(stop.BusinessOrgAbbr, node.Operator, strings.EqualFold)

	switch {
	case uicDiffers || nameDiffers:
		return model.PriorityHigh
	case localRefDiffers:
		return model.PriorityMedium
	case operatorDiffers:
		return model.PriorityLow
	default:
		return model.PriorityNone
	}
}

func differs(a string, b string, equal func(string, string) bool) bool {
	a = util.NormaliseSpace(a)
	b = util.NormaliseSpace(b)

	if a == "" || b == "" {
		return false
	}

	return !equal(a, b)
}
