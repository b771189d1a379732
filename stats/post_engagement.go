package stats

import (
	"sort"
	"unicode/utf8"

	"github.com/placeholderlabs/placeholder-insights/models"
)

const (
	shortPostMaxWords  = 100
	mediumPostMaxWords = 200
	topEngagingLimit   = 5
)

// AnalyzePostEngagement aggregates the whole post collection: length
// distribution, title statistics, the top engaging posts and engagement
// attributed per author. An empty collection yields a structurally
// complete zero result.
func AnalyzePostEngagement(posts []models.Post, ix *Index) *models.PostEngagement {
	metrics := &models.PostEngagement{
		MostEngagingPosts: []models.PostMetrics{},
		EngagementByUser:  make(map[int]int),
	}

	if len(posts) == 0 {
		return metrics
	}

	metrics.TotalPosts = len(posts)

	titleLengths := make([]int, 0, len(posts))
	perPost := make([]models.PostMetrics, 0, len(posts))

	for _, post := range posts {
		words := wordCount(post.Body)

		switch {
		case words < shortPostMaxWords:
			metrics.PostsByLength.Short++
		case words < mediumPostMaxWords:
			metrics.PostsByLength.Medium++
		default:
			metrics.PostsByLength.Long++
		}

		titleLengths = append(titleLengths, utf8.RuneCountInString(post.Title))

		commentCount := len(ix.CommentsFor(post.ID))
		perPost = append(perPost, models.PostMetrics{
			PostID:          post.ID,
			Title:           post.Title,
			UserID:          post.UserID,
			BodyLengthWords: words,
			CommentCount:    commentCount,
		})
		metrics.EngagementByUser[post.UserID] += commentCount
	}

	metrics.TitleLengthStats = titleStats(titleLengths)

	// Stable sort keeps ingestion order among equal comment counts.
	sort.SliceStable(perPost, func(i, j int) bool {
		return perPost[i].CommentCount > perPost[j].CommentCount
	})

	if len(perPost) > topEngagingLimit {
		perPost = perPost[:topEngagingLimit]
	}

	metrics.MostEngagingPosts = perPost

	return metrics
}

func titleStats(lengths []int) models.TitleLengthStats {
	if len(lengths) == 0 {
		return models.TitleLengthStats{}
	}

	stats := models.TitleLengthStats{Min: lengths[0], Max: lengths[0]}

	total := 0
	for _, l := range lengths {
		total += l
		if l < stats.Min {
			stats.Min = l
		}

		if l > stats.Max {
			stats.Max = l
		}
	}

	stats.Avg = float64(total) / float64(len(lengths))
	stats.Median = median(lengths)

	return stats
}

// median of ints; an even count averages the two middle values.
func median(values []int) float64 {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}

	return float64(sorted[mid-1]+sorted[mid]) / 2
}
