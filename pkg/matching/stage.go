package matching

import (
	"slices"

	"github.com/travigo/stopmatch/pkg/model"
)

// Stage is one step of the matching cascade. A stage only considers what earlier
// stages left in the pool and returns the records it added.
type Stage interface {
	Name() string
	Run(pool *Pool) ([]model.MatchRecord, error)
}

// recordsSince returns the records appended to the pool after the first n
func recordsSince(pool *Pool, n int) []model.MatchRecord {
	return slices.Clone(pool.records[n:])
}
