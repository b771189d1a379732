package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/placeholderlabs/placeholder-insights/models"
)

// AnalyzeUserActivity computes per-user posting and engagement metrics.
// A metrics entry exists for every user id that owns at least one post;
// ids that do not resolve to an ingested user get a synthesized username.
// Results are ordered by ascending user id for deterministic output.
func AnalyzeUserActivity(snap *models.Snapshot, ix *Index) []models.UserMetrics {
	userIDs := make([]int, 0, len(ix.PostsByUser))
	for userID := range ix.PostsByUser {
		userIDs = append(userIDs, userID)
	}

	sort.Ints(userIDs)

	metrics := make([]models.UserMetrics, 0, len(userIDs))

	for _, userID := range userIDs {
		posts := ix.PostsByUser[userID]

		m := models.UserMetrics{
			UserID:    userID,
			PostCount: len(posts),
		}

		for _, post := range posts {
			m.TotalWordsInPosts += wordCount(post.Body)
			m.TotalCommentsReceived += len(ix.CommentsFor(post.ID))
		}

		m.AvgCommentsPerPost = safeDiv(float64(m.TotalCommentsReceived), m.PostCount)
		m.AvgPostLength = safeDiv(float64(m.TotalWordsInPosts), m.PostCount)

		if user, ok := snap.Users[userID]; ok {
			m.Username = user.Username
		} else {
			m.Username = fmt.Sprintf("User %d", userID)
		}

		metrics = append(metrics, m)
	}

	return metrics
}

// wordCount counts whitespace-delimited tokens.
func wordCount(s string) int {
	return len(strings.Fields(s))
}

// safeDiv divides, returning 0 on a zero denominator.
func safeDiv(numerator float64, denominator int) float64 {
	if denominator == 0 {
		return 0
	}

	return numerator / float64(denominator)
}
