package skills

import (
	"sort"
)

const (
	// MatchThreshold is the score a job must exceed to be recommended.
	MatchThreshold = 0.1
	// MaxRecommendations caps the ranked list.
	MaxRecommendations = 10
)

// Status tells an empty ranking apart from a missing profile.
type Status string

const (
	StatusOK        Status = "ok"
	StatusNoProfile Status = "no_profile"
)

// Match is one scored item.
type Match[T any] struct {
	Item       T
	Score      float64
	Percentage int
	Matching   []string
	Missing    []string
}

// Result is the outcome of Rank.
type Result[T any] struct {
	Status  Status
	Matches []Match[T]
}

// Evaluate scores a single item against the candidate.
func Evaluate[T any](candidate []string, item T, skillsOf func(T) []string) Match[T] {
	js := skillsOf(item)
	score := Score(candidate, js)
	matching, missing := Compare(candidate, js)
	return Match[T]{
		Item:       item,
		Score:      score,
		Percentage: Percentage(score),
		Matching:   matching,
		Missing:    missing,
	}
}

// Rank scores every item, keeps those above MatchThreshold, orders them by
// score (ties keep input order) and returns at most MaxRecommendations.
// Without a profile it returns StatusNoProfile and no matches.
func Rank[T any](candidate []string, hasProfile bool, items []T, skillsOf func(T) []string) Result[T] {
	if !hasProfile {
		return Result[T]{Status: StatusNoProfile, Matches: []Match[T]{}}
	}

	matches := make([]Match[T], 0, len(items))
	for _, item := range items {
		m := Evaluate(candidate, item, skillsOf)
		if m.Score > MatchThreshold {
			matches = append(matches, m)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > MaxRecommendations {
		matches = matches[:MaxRecommendations]
	}
	return Result[T]{Status: StatusOK, Matches: matches}
}
