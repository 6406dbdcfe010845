package problems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/travigo/stopmatch/pkg/model"
)

func distance(value float64) *float64 {
	return &value
}

func TestDistancePriority(t *testing.T) {
	config := DefaultConfig()

	tests := []struct {
		name     string
		distance *float64
		operator string
		expected model.Priority
	}{
		{name: "missing distance", distance: nil, operator: "BLS", expected: model.PriorityNone},
		{name: "close", distance: distance(15), operator: "BLS", expected: model.PriorityNone},
		{name: "minor band", distance: distance(20), operator: "BLS", expected: model.PriorityLow},
		{name: "minor band primary", distance: distance(20), operator: "SBB", expected: model.PriorityLow},
		{name: "threshold", distance: distance(25), operator: "BLS", expected: model.PriorityLow},
		{name: "primary beyond threshold", distance: distance(30), operator: "SBB", expected: model.PriorityLow},
		{name: "primary far", distance: distance(300), operator: " sbb ", expected: model.PriorityLow},
		{name: "medium", distance: distance(30), operator: "BLS", expected: model.PriorityMedium},
		{name: "medium upper bound", distance: distance(80), operator: "BLS", expected: model.PriorityMedium},
		{name: "severe", distance: distance(80.5), operator: "BLS", expected: model.PriorityHigh},
		{name: "severe without operator", distance: distance(120), operator: "", expected: model.PriorityHigh},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, config.DistancePriority(test.distance, test.operator))
		})
	}
}

func TestDistancePriorityIsMonotonic(t *testing.T) {
	config := DefaultConfig()

	for _, operator := range []string{"SBB", "BLS"} {
		previous := model.PriorityHigh
		for d := 200.0; d >= 0; d -= 0.5 {
			priority := config.DistancePriority(distance(d), operator)

			// Shrinking the distance never makes a problem more severe
			if priority != model.PriorityNone {
				assert.GreaterOrEqual(t, int(priority), int(previous), "operator %s at %.1fm", operator, d)
				previous = priority
			} else {
				previous = model.PriorityLow
			}
		}
	}
}

func TestUnmatchedPriority(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, model.PriorityHigh, config.UnmatchedPriority(distance(10), false, false))
	assert.Equal(t, model.PriorityHigh, config.UnmatchedPriority(nil, true, false))
	assert.Equal(t, model.PriorityHigh, config.UnmatchedPriority(distance(81), true, false))
	assert.Equal(t, model.PriorityMedium, config.UnmatchedPriority(distance(60), true, false))
	assert.Equal(t, model.PriorityMedium, config.UnmatchedPriority(distance(20), true, true))
	assert.Equal(t, model.PriorityLow, config.UnmatchedPriority(distance(20), true, false))
}

func TestAttributesPriority(t *testing.T) {
	stop := func() *model.AtlasStop {
		return &model.AtlasStop{
			Sloid:               "a",
			UICRef:              "8507000",
			Designation:         "3",
			DesignationOfficial: "Bern",
			BusinessOrgAbbr:     "SBB",
		}
	}
	node := func() *model.OsmNode {
		return &model.OsmNode{
			NodeID:   "1",
			UICRef:   "8507000",
			LocalRef: "3",
			UICName:  "Bern",
			Operator: "SBB",
		}
	}

	assert.Equal(t, model.PriorityNone, AttributesPriority(stop(), node()))

	operator := node()
	operator.Operator = "  s b b"
	assert.Equal(t, model.PriorityLow, AttributesPriority(stop(), operator))

	operator.Operator = " sbb "
	assert.Equal(t, model.PriorityNone, AttributesPriority(stop(), operator))

	localRef := node()
	localRef.LocalRef = "4"
	localRef.Operator = "BLS"
	assert.Equal(t, model.PriorityMedium, AttributesPriority(stop(), localRef))

	name := node()
	name.UICName = "Bern Bahnhof"
	name.LocalRef = "4"
	assert.Equal(t, model.PriorityHigh, AttributesPriority(stop(), name))

	uic := node()
	uic.UICRef = "8507001"
	assert.Equal(t, model.PriorityHigh, AttributesPriority(stop(), uic))

	missing := node()
	missing.UICRef = ""
	missing.UICName = ""
	missing.LocalRef = ""
	missing.Operator = ""
	assert.Equal(t, model.PriorityNone, AttributesPriority(stop(), missing))
}
