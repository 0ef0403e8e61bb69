// Package engine implements the command interpretation core: an ordered
// pattern rule set, a bag-of-words intent classifier backing it up, and the
// dispatcher that decides which of the two is trusted for a given utterance.
package engine

import (
	"math"
	"regexp"
	"strings"

	"github.com/Deskmate-Labs/deskmate-go-core/models"
)

var tokenPattern = regexp.MustCompile(`\w+`)

// Classifier maps free text to the closest known intent label by cosine
// similarity against every exemplar in the corpus. It holds no mutable state
// after construction and is safe for concurrent use.
type Classifier struct {
	corpus     IntentCorpus
	vocabulary map[string]struct{}
	floor      float64
}

// NewClassifier builds the vocabulary (the union of all corpus tokens) once.
// Predictions below floor are reported as "no intent".
func NewClassifier(corpus IntentCorpus, floor float64) *Classifier {
	vocab := make(map[string]struct{})
	for _, entry := range corpus {
		for _, phrase := range entry.Phrases {
			for _, token := range tokenize(phrase) {
				vocab[token] = struct{}{}
			}
		}
	}
	return &Classifier{
		corpus:     corpus,
		vocabulary: vocab,
		floor:      floor,
	}
}

// Predict compares the utterance against every exemplar of every intent and
// keeps the single best (label, score) pair. Ties keep the first exemplar in
// corpus order. A best score under the floor yields ("", 0.0).
func (c *Classifier) Predict(text string) models.ClassificationResult {
	inputVec := c.vectorize(text)

	best := ""
	maxScore := 0.0
	for _, entry := range c.corpus {
		for _, phrase := range entry.Phrases {
			score := cosineSimilarity(inputVec, c.vectorize(phrase))
			if score > maxScore {
				maxScore = score
				best = entry.Label
			}
		}
	}

	if maxScore < c.floor {
		return models.ClassificationResult{}
	}
	return models.ClassificationResult{Label: best, Score: maxScore}
}

// vectorize counts term occurrences, restricted to the corpus vocabulary.
// Out-of-vocabulary tokens contribute no signal.
func (c *Classifier) vectorize(text string) map[string]int {
	vec := make(map[string]int)
	for _, token := range tokenize(text) {
		if _, ok := c.vocabulary[token]; ok {
			vec[token]++
		}
	}
	return vec
}

func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// cosineSimilarity is dot(a,b) / (||a||*||b||), defined as 0 when either
// vector is empty.
func cosineSimilarity(a, b map[string]int) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	dot := 0
	for term, count := range a {
		if other, ok := b[term]; ok {
			dot += count * other
		}
	}

	var sumA, sumB int
	for _, count := range a {
		sumA += count * count
	}
	for _, count := range b {
		sumB += count * count
	}

	denominator := math.Sqrt(float64(sumA)) * math.Sqrt(float64(sumB))
	if denominator == 0 {
		return 0.0
	}
	return float64(dot) / denominator
}
