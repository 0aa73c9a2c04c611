package brackets

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sort"
)

// SeedPolicy selects how dense seeds 1..N are assigned to entries.
type SeedPolicy string

const (
	SeedManual  SeedPolicy = "manual"
	SeedRanking SeedPolicy = "ranking"
	SeedRating  SeedPolicy = "rating"
	SeedRandom  SeedPolicy = "random"
	SeedSnake   SeedPolicy = "snake"
)

func (p SeedPolicy) Valid() bool {
	switch p {
	case SeedManual, SeedRanking, SeedRating, SeedRandom, SeedSnake:
		return true
	}
	return false
}

// AssignSeeds writes a dense seed 1..N onto every entry according to
// the policy. For SeedManual the entries must already carry seeds and
// are only validated. Ties are broken deterministically; entry IDs are
// never used as a tiebreaker because ID order carries no competitive
// meaning.
func AssignSeeds(entries []*Entry, policy SeedPolicy) error {
	n := len(entries)
	if n < 2 {
		return ErrNotEnoughEntries
	}

	switch policy {
	case SeedManual:
		return ValidateSeeds(entries)
	case SeedRanking:
		ordered := sortedCopy(entries, clubRankLess)
		for i, e := range ordered {
			e.Seed = i + 1
		}
	case SeedRating:
		ordered := sortedCopy(entries, ratingLess)
		for i, e := range ordered {
			e.Seed = i + 1
		}
	case SeedRandom:
		perm := randomPermutation(n)
		for i, e := range entries {
			e.Seed = perm[i] + 1
		}
	case SeedSnake:
		ordered := sortedCopy(entries, ratingLess)
		low, high := 0, n-1
		seed := 1
		for low <= high {
			ordered[low].Seed = seed
			seed++
			if high != low {
				ordered[high].Seed = seed
				seed++
			}
			low++
			high--
		}
	default:
		return newValidationError("unknown seeding policy %q", policy)
	}
	return nil
}

// ValidateSeeds checks that entry seeds form a dense permutation of
// 1..N. Failures are reported per seed, never repaired.
func ValidateSeeds(entries []*Entry) error {
	n := len(entries)
	holders := make(map[int][]string, n)
	for _, e := range entries {
		holders[e.Seed] = append(holders[e.Seed], e.ID)
	}

	var problems []string
	for seed := 1; seed <= n; seed++ {
		switch len(holders[seed]) {
		case 1:
		case 0:
			problems = append(problems, fmt.Sprintf("seed %d missing", seed))
		default:
			problems = append(problems, fmt.Sprintf("seed %d assigned to %d entries", seed, len(holders[seed])))
		}
	}
	for seed := range holders {
		if seed < 1 || seed > n {
			problems = append(problems, fmt.Sprintf("seed %d out of range 1..%d", seed, n))
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return &ValidationError{Problems: problems}
	}
	return nil
}

func sortedCopy(entries []*Entry, less func(a, b *Entry) bool) []*Entry {
	ordered := make([]*Entry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return less(ordered[i], ordered[j])
	})
	return ordered
}

// clubRankLess orders by club ranking quality: ranked above unranked,
// lower rank number first, then rating, win rate and finally
// registration order (earliest wins).
func clubRankLess(a, b *Entry) bool {
	ar, br := a.Rating.ClubRank, b.Rating.ClubRank
	switch {
	case ar > 0 && br > 0 && ar != br:
		return ar < br
	case ar > 0 && br <= 0:
		return true
	case ar <= 0 && br > 0:
		return false
	}
	if a.Rating.Rating != b.Rating.Rating {
		return a.Rating.Rating > b.Rating.Rating
	}
	if a.Rating.WinRate != b.Rating.WinRate {
		return a.Rating.WinRate > b.Rating.WinRate
	}
	return a.RegOrder < b.RegOrder
}

// ratingLess orders by rating descending with the same deterministic
// tiebreak cascade.
func ratingLess(a, b *Entry) bool {
	if a.Rating.Rating != b.Rating.Rating {
		return a.Rating.Rating > b.Rating.Rating
	}
	ar, br := a.Rating.ClubRank, b.Rating.ClubRank
	switch {
	case ar > 0 && br > 0 && ar != br:
		return ar < br
	case ar > 0 && br <= 0:
		return true
	case ar <= 0 && br > 0:
		return false
	}
	if a.Rating.WinRate != b.Rating.WinRate {
		return a.Rating.WinRate > b.Rating.WinRate
	}
	return a.RegOrder < b.RegOrder
}

// randomPermutation shuffles with crypto/rand when available and falls
// back to math/rand. Reproducibility is explicitly not guaranteed.
func randomPermutation(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := secureIntn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

func secureIntn(n int) int {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return rand.Intn(n)
	}
	return int(binary.BigEndian.Uint64(buf[:]) % uint64(n))
}
