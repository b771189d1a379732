package stats

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/placeholderlabs/placeholder-insights/models"
)

const (
	topDomainsLimit = 5
	topWordsLimit   = 10
)

// Fixed sentiment lexicons over comment bodies.
var (
	positiveLexicon = []string{"good", "great", "awesome", "excellent", "happy", "thanks"}
	negativeLexicon = []string{"bad", "poor", "terrible", "awful", "sad", "wrong"}
)

// containsLexiconWord is the single matching primitive for sentiment
// counting. It is substring containment, so "sadness" matches "sad";
// swap this for whole-word matching to change that behavior everywhere.
func containsLexiconWord(lowerBody, word string) bool {
	return strings.Contains(lowerBody, word)
}

// counter counts string keys while remembering first-encounter order,
// so ties in Top are broken by the order keys first appeared.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) Add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}

	c.counts[key]++
}

// Top returns up to n entries sorted by descending count; equal counts
// keep first-encounter order (stable sort over the encounter-ordered keys).
func (c *counter) Top(n int) []entry {
	entries := make([]entry, 0, len(c.order))
	for _, key := range c.order {
		entries = append(entries, entry{Key: key, Count: c.counts[key]})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	if len(entries) > n {
		entries = entries[:n]
	}

	return entries
}

type entry struct {
	Key   string
	Count int
}

// AnalyzeCommentPatterns aggregates the whole comment collection: length,
// email domains, word frequency and lexicon sentiment signals. An empty
// collection yields a structurally complete zero result. A comment missing
// its body or email fails the analysis with a DataQualityError.
func AnalyzeCommentPatterns(comments []models.Comment) (*models.CommentMetrics, error) {
	metrics := &models.CommentMetrics{
		CommonEmailDomains: []models.DomainCount{},
		MostCommonWords:    []models.WordCount{},
	}

	if len(comments) == 0 {
		return metrics, nil
	}

	metrics.TotalComments = len(comments)

	domains := newCounter()
	words := newCounter()
	totalLength := 0

	for _, comment := range comments {
		if comment.Body == "" {
			return nil, &DataQualityError{Analysis: AnalysisCommentPatterns, Field: "body", RecordID: comment.ID}
		}

		if comment.Email == "" {
			return nil, &DataQualityError{Analysis: AnalysisCommentPatterns, Field: "email", RecordID: comment.ID}
		}

		totalLength += utf8.RuneCountInString(comment.Body)
		domains.Add(emailDomain(comment.Email))

		lowerBody := strings.ToLower(comment.Body)
		for _, word := range strings.Fields(lowerBody) {
			words.Add(word)
		}

		for _, word := range positiveLexicon {
			if containsLexiconWord(lowerBody, word) {
				metrics.Sentiment.PositiveWords++
			}
		}

		for _, word := range negativeLexicon {
			if containsLexiconWord(lowerBody, word) {
				metrics.Sentiment.NegativeWords++
			}
		}

		if strings.Contains(comment.Body, "?") {
			metrics.Sentiment.QuestionComments++
		}
	}

	metrics.AvgCommentLength = safeDiv(float64(totalLength), len(comments))

	for _, e := range domains.Top(topDomainsLimit) {
		metrics.CommonEmailDomains = append(metrics.CommonEmailDomains, models.DomainCount{Domain: e.Key, Count: e.Count})
	}

	for _, e := range words.Top(topWordsLimit) {
		metrics.MostCommonWords = append(metrics.MostCommonWords, models.WordCount{Word: e.Key, Count: e.Count})
	}

	return metrics, nil
}

// emailDomain extracts the lowercased part after the last '@'. An address
// with no '@' yields the whole lowercased string.
func emailDomain(email string) string {
	lower := strings.ToLower(email)
	if at := strings.LastIndex(lower, "@"); at >= 0 {
		return lower[at+1:]
	}

	return lower
}
