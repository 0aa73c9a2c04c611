package brackets

import "fmt"

// RoundRobinGenerator is the all-pairs generator used by league play.
// It is far simpler than the elimination bracket: every entry meets
// every other entry once, there is no advancement routing and no byes.
type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() Generator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string {
	return "RoundRobin"
}

func (g *RoundRobinGenerator) Generate(entries []*Entry) ([]*Match, error) {
	if len(entries) < 2 {
		return nil, ErrNotEnoughEntries
	}

	matches := make([]*Match, 0, len(entries)*(len(entries)-1)/2)
	position := 0
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			position++
			matches = append(matches, &Match{
				UID:      fmt.Sprintf("RRM%d", position),
				Round:    1,
				Position: position,
				Slot1:    Slot{Entry: entries[i], Status: SlotFilled},
				Slot2:    Slot{Entry: entries[j], Status: SlotFilled},
				Status:   StatusScheduled,
			})
		}
	}
	return matches, nil
}
