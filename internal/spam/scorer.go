// Package spam implements the heuristic risk scorer applied to every
// comment at submission time. Scoring is deterministic, has no side
// effects, and is never recomputed after a comment is stored.
package spam

import (
	"math"
	"strings"
)

// Signal contributions. The final score is the capped sum of every
// triggered signal; signals are independent and order does not matter.
const (
	keywordWeight     = 0.2
	repeatedWeight    = 0.3
	tooLongWeight     = 0.2
	tooShortWeight    = 0.1
	urlWeight         = 0.3
	punctuationWeight = 0.2

	longContentRunes  = 1000
	shortContentRunes = 10
	repeatedRunLength = 4
	punctuationRatio  = 0.3
)

// punctuationSet holds the characters counted toward the heavy-punctuation
// signal. ASCII shifted-number-row only; CJK punctuation does not count.
const punctuationSet = "!@#$%^&*()"

// Scorer assigns a spam-risk score in [0,1] to comment content.
// The keyword list is fixed at construction; there is no mutable state.
type Scorer struct {
	keywords []string
}

// NewScorer creates a scorer over the given keyword list. Keywords are
// matched as substrings of the lower-cased content, each counted at most
// once regardless of how often it occurs.
func NewScorer(keywords []string) *Scorer {
	kws := make([]string, len(keywords))
	for i, kw := range keywords {
		kws[i] = strings.ToLower(kw)
	}
	return &Scorer{keywords: kws}
}

// Score computes the spam-risk score for the given content.
func (s *Scorer) Score(content string) float64 {
	lower := strings.ToLower(content)
	runes := []rune(lower)
	length := len(runes)

	score := 0.0

	for _, kw := range s.keywords {
		if strings.Contains(lower, kw) {
			score += keywordWeight
		}
	}

	if hasRepeatedRun(runes) {
		score += repeatedWeight
	}

	if length > longContentRunes {
		score += tooLongWeight
	}
	if length < shortContentRunes {
		score += tooShortWeight
	}

	if strings.Contains(lower, "http://") || strings.Contains(lower, "https://") {
		score += urlWeight
	}

	punctuation := 0
	for _, r := range runes {
		if strings.ContainsRune(punctuationSet, r) {
			punctuation++
		}
	}
	if float64(punctuation) > float64(length)*punctuationRatio {
		score += punctuationWeight
	}

	return math.Min(score, 1.0)
}

// hasRepeatedRun reports whether the content contains a run of at least
// repeatedRunLength identical alphanumeric characters. Implemented as a
// scan because RE2 has no backreferences. Input is already lower-cased.
func hasRepeatedRun(runes []rune) bool {
	run := 0
	var prev rune
	for _, r := range runes {
		if !isAlphanumeric(r) {
			run = 0
			continue
		}
		if r == prev && run > 0 {
			run++
		} else {
			prev = r
			run = 1
		}
		if run >= repeatedRunLength {
			return true
		}
	}
	return false
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
