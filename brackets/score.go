package brackets

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SetScore holds the games won by each slot in one set.
type SetScore struct {
	Games1 int `json:"games1"`
	Games2 int `json:"games2"`
}

// Score is the sets/games payload of one completed match. The engine
// treats it as opaque except for the ranking engine, which aggregates
// set and game differentials from it.
type Score struct {
	Sets []SetScore `json:"sets"`
}

// ParseScore decodes the persisted JSON payload.
func ParseScore(raw string) (*Score, error) {
	var s Score
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("malformed score payload: %w", err)
	}
	return &s, nil
}

func (s *Score) Encode() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode score: %w", err)
	}
	return string(data), nil
}

// String renders the slot 1 perspective, e.g. "11-7, 9-11, 11-5".
func (s *Score) String() string {
	parts := make([]string, 0, len(s.Sets))
	for _, set := range s.Sets {
		parts = append(parts, fmt.Sprintf("%d-%d", set.Games1, set.Games2))
	}
	return strings.Join(parts, ", ")
}

// SetsWonBySlot1 counts the sets in which slot 1 outscored slot 2.
func (s *Score) SetsWonBySlot1() int {
	won := 0
	for _, set := range s.Sets {
		if set.Games1 > set.Games2 {
			won++
		}
	}
	return won
}

// SetsWonBySlot2 counts the sets in which slot 2 outscored slot 1.
func (s *Score) SetsWonBySlot2() int {
	won := 0
	for _, set := range s.Sets {
		if set.Games2 > set.Games1 {
			won++
		}
	}
	return won
}

func (s *Score) gamesBySlot() (slot1, slot2 int) {
	for _, set := range s.Sets {
		slot1 += set.Games1
		slot2 += set.Games2
	}
	return slot1, slot2
}
