package brackets

// Generator produces the full match set for one tournament format
// from a frozen, seeded entry list.
type Generator interface {
	Generate(entries []*Entry) ([]*Match, error)

	Name() string
}

// SingleEliminationGenerator adapts the bracket builder to the
// Generator interface; routing and bye placement are already resolved
// on the returned matches.
type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() Generator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) Name() string {
	return "SingleElimination"
}

func (g *SingleEliminationGenerator) Generate(entries []*Entry) ([]*Match, error) {
	b, err := Build(entries)
	if err != nil {
		return nil, err
	}
	return b.AllMatches(), nil
}
