package matching

import (
	"errors"
	"fmt"
	"slices"
)

// ErrNodeClaimedTwice signals a broken uniqueness contract, it is a programming fault
// and aborts the run
var ErrNodeClaimedTwice = errors.New("osm node claimed twice")

// UsedOsmNodeSet records which sloids hold each consumed OSM node.
// It is owned by a single Pool and only ever written by one stage at a time.
type UsedOsmNodeSet struct {
	claims map[string][]string
}

func NewUsedOsmNodeSet() *UsedOsmNodeSet {
	return &UsedOsmNodeSet{claims: map[string][]string{}}
}

func (u *UsedOsmNodeSet) Contains(nodeID string) bool {
	_, exists := u.claims[nodeID]
	return exists
}

func (u *UsedOsmNodeSet) Len() int {
	return len(u.claims)
}

// Claimants returns the sloids holding the node
func (u *UsedOsmNodeSet) Claimants(nodeID string) []string {
	return slices.Clone(u.claims[nodeID])
}

// Claim consumes an unused node for one or more sloids. Several sloids are only
// passed by the exact matcher when a UIC group has a single OSM node.
func (u *UsedOsmNodeSet) Claim(nodeID string, sloids ...string) error {
	if holders, exists := u.claims[nodeID]; exists {
		return fmt.Errorf("node %s requested by %v but held by %v: %w", nodeID, sloids, holders, ErrNodeClaimedTwice)
	}

	u.claims[nodeID] = slices.Clone(sloids)

	return nil
}

// Share adds sloid as a holder of a node already held by holder
func (u *UsedOsmNodeSet) Share(nodeID string, holder string, sloid string) error {
	holders, exists := u.claims[nodeID]
	if !exists || !slices.Contains(holders, holder) {
		return fmt.Errorf("node %s shared with %s but not held by %s: %w", nodeID, sloid, holder, ErrNodeClaimedTwice)
	}
	if slices.Contains(holders, sloid) {
		return nil
	}

	u.claims[nodeID] = append(holders, sloid)

	return nil
}
