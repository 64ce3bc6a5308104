package parse

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLegs(t *testing.T) {
	buf := bytes.NewBufferString(`
train_id,from_index,from_station,to_index,to_station,leg_minutes,ka_name,route_name,color
101,0,Palmerah,1,Tanah Abang,20,KA 101,Rangkasbitung Line,#f00
101,1,Tanah Abang,2,Sudirman,,KA 101,Rangkasbitung Line,#f00
102,0,Serpong,1,Rawa Buntu,-5,KA 102,Rangkasbitung Line,#0f0
`)

	legs, err := ParseLegs(buf)
	require.NoError(t, err)
	require.Len(t, legs, 3)

	require.NotNil(t, legs[0].Minutes)
	assert.Equal(t, 20.0, *legs[0].Minutes)
	assert.Equal(t, "palmerah", legs[0].FromKey)
	assert.Equal(t, "tanah abang", legs[0].ToKey)

	// Blank duration is null, not zero.
	assert.Nil(t, legs[1].Minutes)

	// Negative durations are preserved for the auditor to count.
	require.NotNil(t, legs[2].Minutes)
	assert.Equal(t, -5.0, *legs[2].Minutes)
}

func TestParseLegsMalformedIndex(t *testing.T) {
	buf := bytes.NewBufferString(`
train_id,from_index,from_station,to_index,to_station,leg_minutes,ka_name,route_name,color
101,abc,Palmerah,1,Tanah Abang,20,,,
`)

	legs, err := ParseLegs(buf)
	require.NoError(t, err)
	require.Len(t, legs, 1)
	assert.Equal(t, 0, legs[0].FromIndex)
	assert.Equal(t, 1, legs[0].ToIndex)
}
