package classifier

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// maxTags caps how many tags a classification result carries.
const maxTags = 5

// Result is the outcome of classifying a single payload.
//
// Confidence is an unnormalized comparative score: useful for ranking
// classifications against each other, meaningless as a probability.
type Result struct {
	Category   Category              `json:"category"`
	Priority   notification.Priority `json:"priority"`
	Confidence float64               `json:"confidence"`
	Tags       []string              `json:"tags,omitempty"`
}

// Classify scores the payload's title and body against fixed keyword tables
// and returns the winning category and priority. It is pure and
// deterministic: no I/O, no randomness, identical input yields identical
// output.
//
// Each keyword contributes occurrences × length ÷ 10 to its bucket, so longer
// and more specific keywords outweigh short generic ones. Category and
// priority are scored independently; confidence is the larger of the two
// winning scores.
func Classify(p notification.Payload) Result {
	text := strings.ToLower(p.Title + " " + p.Body)

	category, categoryScore := scoreCategories(text)
	priority, priorityScore := scorePriorities(text)

	return Result{
		Category:   category,
		Priority:   priority,
		Confidence: max(categoryScore, priorityScore),
		Tags:       extractTags(text),
	}
}

func scoreCategories(text string) (Category, float64) {
	best := CategoryUser // fallback when nothing matches
	bestScore := 0.0

	for _, cat := range categoryOrder {
		score := keywordScore(text, categoryKeywords[cat])
		if score > bestScore {
			best = cat
			bestScore = score
		}
	}

	return best, bestScore
}

func scorePriorities(text string) (notification.Priority, float64) {
	best := notification.PriorityNormal // fallback when nothing matches
	bestScore := 0.0

	for _, prio := range priorityOrder {
		score := keywordScore(text, priorityKeywords[prio])
		if score > bestScore {
			best = notification.Priority(prio)
			bestScore = score
		}
	}

	return best, bestScore
}

// keywordScore sums occurrence-count × keyword-length ÷ 10 over the list.
// Length is counted in runes so Cyrillic keywords weigh the same as Latin
// ones of equal length.
func keywordScore(text string, keywords []string) float64 {
	var score float64
	for _, kw := range keywords {
		if n := strings.Count(text, kw); n > 0 {
			score += float64(n) * float64(utf8.RuneCountInString(kw)) / 10
		}
	}
	return score
}

// extractTags collects words longer than four characters that are not stop
// words, deduplicated in first-seen order and capped at maxTags.
func extractTags(text string) []string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var tags []string
	seen := make(map[string]struct{})

	for _, w := range words {
		if utf8.RuneCountInString(w) <= 4 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		tags = append(tags, w)
		if len(tags) == maxTags {
			break
		}
	}

	return tags
}
