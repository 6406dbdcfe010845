package osm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const extractXML = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="900111" lat="46.5168" lon="6.6291" version="3">
    <tag k="public_transport" v="platform"/>
    <tag k="uic_ref" v="8501120"/>
    <tag k="local_ref" v="3"/>
    <tag k="name" v="Lausanne"/>
    <tag k="uic_name" v="Lausanne"/>
    <tag k="gtfs:name" v="Lausanne, gare"/>
    <tag k="operator" v="Schweizerische Bundesbahnen SBB"/>
  </node>
  <node id="900112" lat="46.5170" lon="6.6290">
    <tag k="railway" v="station"/>
    <tag k="public_transport" v="station"/>
    <tag k="uic_ref" v="8501120"/>
  </node>
  <node id="900113" lat="46.5171" lon="6.6292">
    <tag k="amenity" v="bench"/>
  </node>
  <node id="900114" lat="north" lon="6.6292">
    <tag k="public_transport" v="platform"/>
  </node>
  <node id="900115" lat="46.52" lon="6.63">
    <tag k="highway" v="bus_stop"/>
    <tag k="name" v="Lausanne, Closelet"/>
  </node>
  <way id="1">
    <nd ref="900111"/>
    <tag k="public_transport" v="platform"/>
  </way>
</osm>`

func TestExtractParseFile(t *testing.T) {
	extract := &Extract{}
	require.NoError(t, extract.ParseFile(strings.NewReader(extractXML)))

	require.Len(t, extract.Nodes, 3)

	platform := extract.Nodes[0]
	assert.Equal(t, "900111", platform.NodeID)
	assert.Equal(t, "8501120", platform.UICRef)
	assert.Equal(t, "3", platform.LocalRef)
	assert.Equal(t, "Lausanne, gare", platform.GTFSName)
	assert.Equal(t, "SBB", platform.Operator)
	assert.True(t, platform.IsPlatformLike())
	assert.False(t, platform.IsStation)

	station := extract.Nodes[1]
	assert.True(t, station.IsStation)

	busStop := extract.Nodes[2]
	assert.Equal(t, "900115", busStop.NodeID)
	assert.False(t, busStop.IsPlatformLike())

	stats := extract.LoadStats()
	assert.Equal(t, 5, stats.Rows)
	assert.Equal(t, 1, stats.Filtered)
	assert.Equal(t, 1, stats.Malformed)
	assert.Equal(t, 3, stats.Kept)
}
