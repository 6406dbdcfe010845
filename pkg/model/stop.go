package model

import (
	"crypto/sha256"
	"fmt"
)

type StopRecordType string

const (
	StopRecordMatched   StopRecordType = "matched"
	StopRecordAtlasOnly StopRecordType = "unmatched_atlas"
	StopRecordOsmOnly   StopRecordType = "unmatched_osm"
)

// StopRecord is one row of the reconciled stop table; problems reference it by ID
type StopRecord struct {
	ID   string
	Type StopRecordType

	Atlas *AtlasStop
	Osm   *OsmNode

	Match          *MatchRecord
	UnmatchedAtlas *UnmatchedAtlas
	UnmatchedOsm   *UnmatchedOsm
}

func NewStopRecord(recordType StopRecordType, atlas *AtlasStop, osm *OsmNode, matchType MatchType) *StopRecord {
	record := &StopRecord{
		Type:  recordType,
		Atlas: atlas,
		Osm:   osm,
	}
	record.ID = record.GenerateDeterministicID(matchType)

	return record
}

func (s *StopRecord) GenerateDeterministicID(matchType MatchType) string {
	idHasher := sha256.New()

	var sloid, nodeID string
	if s.Atlas != nil {
		sloid = s.Atlas.Sloid
	}
	if s.Osm != nil {
		nodeID = s.Osm.NodeID
	}
	idHasher.Write([]byte(fmt.Sprintf("%s %s %s %s", s.Type, sloid, nodeID, matchType)))

	return fmt.Sprintf("stop-%s", fmt.Sprintf("%x", idHasher.Sum(nil))[:28])
}
