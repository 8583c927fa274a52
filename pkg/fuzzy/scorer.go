// Package fuzzy scores a query string against candidate strings, returning
// the best match on a 0-100 integer scale.
//
// Scoring is backed by go-edlib string similarity algorithms. Both query and
// candidates run through a normalizing preprocessor (lowercasing, whitespace
// collapsing) before scoring, so "  New York " and "new york" are identical
// inputs as far as any algorithm is concerned.
package fuzzy

import (
	"errors"
	"math"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Algorithm names accepted by NewScorer.
const (
	AlgoJaroWinkler = "jaro-winkler"
	AlgoJaro        = "jaro"
	AlgoLevenshtein = "levenshtein"
)

// DefaultAlgorithm is used when NewScorer gets an empty or unknown name.
// Jaro-Winkler boosts shared prefixes, which is what makes abbreviated
// key segments ("addr" for "address") land above usable thresholds.
const DefaultAlgorithm = AlgoJaroWinkler

// ErrNoCandidates is returned by BestMatch when the candidate list is empty.
var ErrNoCandidates = errors.New("fuzzy: no candidates to match against")

// Match holds the outcome of scoring one query against a candidate list.
type Match struct {
	Candidate string
	Score     int
	Index     int
}

// Scorer computes similarity scores with a fixed algorithm.
// A Scorer is stateless after construction and safe for concurrent use.
type Scorer struct {
	algo edlib.Algorithm
	name string
}

// NewScorer returns a Scorer for the named algorithm,
// falling back to DefaultAlgorithm for unknown names.
func NewScorer(algorithm string) *Scorer {
	name := strings.ToLower(strings.TrimSpace(algorithm))
	var algo edlib.Algorithm
	switch name {
	case AlgoJaro:
		algo = edlib.Jaro
	case AlgoLevenshtein:
		algo = edlib.Levenshtein
	case AlgoJaroWinkler:
		algo = edlib.JaroWinkler
	default:
		name = DefaultAlgorithm
		algo = edlib.JaroWinkler
	}
	return &Scorer{algo: algo, name: name}
}

// Algorithm returns the name of the algorithm in use.
func (s *Scorer) Algorithm() string {
	return s.name
}

// Score returns the similarity between query and candidate on a 0-100 scale.
// Scores are rounded half-up, so a 0.75 raw similarity meets a threshold of 75.
func (s *Scorer) Score(query, candidate string) int {
	return s.scoreNormalized(Normalize(query), Normalize(candidate))
}

// BestMatch scores query against every candidate and returns the winner.
// Ties resolve to the earliest candidate in the list; results are
// deterministic for a fixed candidate order.
func (s *Scorer) BestMatch(query string, candidates []string) (Match, error) {
	if len(candidates) == 0 {
		return Match{}, ErrNoCandidates
	}

	normQuery := Normalize(query)
	best := Match{Index: -1, Score: -1}
	for i, candidate := range candidates {
		score := s.scoreNormalized(normQuery, Normalize(candidate))
		if score > best.Score {
			best = Match{Candidate: candidate, Score: score, Index: i}
		}
	}
	return best, nil
}

func (s *Scorer) scoreNormalized(query, candidate string) int {
	if query == candidate {
		return 100
	}
	if query == "" || candidate == "" {
		return 0
	}
	sim, err := edlib.StringsSimilarity(query, candidate, s.algo)
	if err != nil {
		return 0
	}
	return int(math.Round(float64(sim) * 100))
}

// Normalize lowercases s and collapses all whitespace runs to single
// spaces, trimming the ends. Applied to queries and candidates alike
// before any scoring.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
