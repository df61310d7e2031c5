package summarize

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

const (
	idealSentenceLength = 20
	topKeywords         = 10
	minSentenceWords    = 3
)

var (
	sentenceRe = regexp.MustCompile(`[^.!?]+(?:[.!?]+["'”’)\]]*|$)`)
	wordRe     = regexp.MustCompile(`[a-z0-9][a-z0-9'’\-]*`)
)

var stopWords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`a about above after again against all also am an and any are as at be because
		been before being below between both but by can could did do does doing down during each few for from
		further had has have having he her here hers herself him himself his how i if in into is it its itself
		just me more most my myself no nor not now of off on once only or other our ours ourselves out over own
		said same says she should so some such than that the their theirs them themselves then there these they
		this those through to too under until up very was we were what when where which while who whom why will
		with would you your yours yourself yourselves new one two year years percent mr ms`) {
		stopWords[w] = true
	}
}

type scoredSentence struct {
	index int
	text  string
	score float64
}

// TopSentences picks the n best sentences of text by keyword frequency, overlap
// with the title, length and position, returned in document order.
func TopSentences(title, text string, n int) string {
	sentences := splitSentences(text)
	if len(sentences) == 0 || n <= 0 {
		return ""
	}

	keywords := keywordScores(text)
	titleWords := make(map[string]bool)
	for _, w := range contentWords(title) {
		titleWords[w] = true
	}

	scored := make([]scoredSentence, 0, len(sentences))
	for i, s := range sentences {
		words := contentWords(s)
		if len(words) == 0 {
			continue
		}

		score := 1.5*titleOverlap(words, titleWords) +
			2.0*keywordDensity(words, keywords) +
			lengthScore(len(strings.Fields(s))) +
			positionScore(i, len(sentences))

		scored = append(scored, scoredSentence{index: i, text: s, score: score / 4})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if len(scored) > n {
		scored = scored[:n]
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].index < scored[j].index })

	parts := make([]string, 0, len(scored))
	for _, s := range scored {
		parts = append(parts, s.text)
	}

	return strings.Join(parts, " ")
}

func splitSentences(text string) []string {
	var out []string
	for _, m := range sentenceRe.FindAllString(text, -1) {
		s := strings.TrimSpace(m)
		if len(strings.Fields(s)) < minSentenceWords {
			continue
		}
		out = append(out, s)
	}
	return out
}

func contentWords(s string) []string {
	var out []string
	for _, w := range wordRe.FindAllString(strings.ToLower(s), -1) {
		if !stopWords[w] {
			out = append(out, w)
		}
	}
	return out
}

func keywordScores(text string) map[string]float64 {
	counts := make(map[string]int)
	total := 0
	for _, w := range contentWords(text) {
		counts[w]++
		total++
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > topKeywords {
		words = words[:topKeywords]
	}

	scores := make(map[string]float64, len(words))
	for _, w := range words {
		scores[w] = float64(counts[w]) / float64(total)
	}
	return scores
}

func titleOverlap(words []string, titleWords map[string]bool) float64 {
	if len(titleWords) == 0 {
		return 0
	}
	matches := 0
	for _, w := range words {
		if titleWords[w] {
			matches++
		}
	}
	return float64(matches) / float64(len(titleWords))
}

func keywordDensity(words []string, keywords map[string]float64) float64 {
	sum := 0.0
	for _, w := range words {
		sum += keywords[w]
	}
	return 10 * sum / float64(len(words))
}

func lengthScore(n int) float64 {
	return math.Max(0, 1-math.Abs(float64(idealSentenceLength-n))/idealSentenceLength)
}

func positionScore(i, total int) float64 {
	if total <= 1 {
		return 1
	}
	normalized := float64(i) / float64(total)
	switch {
	case normalized < 0.1:
		return 0.17
	case normalized < 0.2:
		return 0.23
	case normalized < 0.7:
		return 0.15
	case normalized < 0.9:
		return 0.08
	default:
		return 0.05
	}
}
