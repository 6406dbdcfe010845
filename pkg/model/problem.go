package model

type ProblemType string

const (
	ProblemTypeDistance   ProblemType = "distance"
	ProblemTypeUnmatched  ProblemType = "unmatched"
	ProblemTypeAttributes ProblemType = "attributes"
	ProblemTypeDuplicates ProblemType = "duplicates"
)

// Priority 1 is the most severe
type Priority int

const (
	PriorityNone   Priority = 0
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
)

// MoreSevere returns the more severe of two priorities, ignoring PriorityNone
func (p Priority) MoreSevere(other Priority) Priority {
	if p == PriorityNone {
		return other
	}
	if other == PriorityNone || p < other {
		return p
	}
	return other
}

type Problem struct {
	StopID       string      `csv:"stop_id" bson:"stopid"`
	ProblemType  ProblemType `csv:"problem_type" bson:"problemtype"`
	Priority     Priority    `csv:"priority" bson:"priority"`
	Solution     string      `csv:"solution" bson:"solution"`
	IsPersistent bool        `csv:"is_persistent" bson:"ispersistent"`
}
