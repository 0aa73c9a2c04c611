package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScore(t *testing.T) {
	s, err := ParseScore(`{"sets":[{"games1":11,"games2":7},{"games1":9,"games2":11},{"games1":11,"games2":5}]}`)
	require.NoError(t, err)
	require.Len(t, s.Sets, 3)

	assert.Equal(t, 2, s.SetsWonBySlot1())
	assert.Equal(t, 1, s.SetsWonBySlot2())
	assert.Equal(t, "11-7, 9-11, 11-5", s.String())

	g1, g2 := s.gamesBySlot()
	assert.Equal(t, 31, g1)
	assert.Equal(t, 23, g2)
}

func TestParseScoreMalformed(t *testing.T) {
	_, err := ParseScore("not json")
	assert.Error(t, err)
}

func TestScoreEncodeRoundTrip(t *testing.T) {
	s := &Score{Sets: []SetScore{{Games1: 11, Games2: 7}}}
	raw, err := s.Encode()
	require.NoError(t, err)

	back, err := ParseScore(raw)
	require.NoError(t, err)
	assert.Equal(t, s.Sets, back.Sets)
}
