package report

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/placeholderlabs/placeholder-insights/models"
)

const titlePreviewRunes = 30

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	warningColor = color.New(color.FgYellow)
)

// RenderText renders the full analysis report as plain text in fixed
// section order: user activity, comment patterns, post engagement.
// Sections that failed render as warnings; the rest still render.
func RenderText(rep *models.Report) string {
	var b strings.Builder

	b.WriteString("\n" + headerColor.Sprint("=== JSONPlaceholder Data Analysis Report ===") + "\n")

	for _, failure := range rep.Failures {
		b.WriteString("\n" + warningColor.Sprintf("WARNING: %s analysis failed: %s", failure.Analysis, failure.Message) + "\n")
	}

	writeUserActivity(&b, rep.UserActivity)

	if rep.CommentPatterns != nil {
		writeCommentPatterns(&b, rep.CommentPatterns)
	}

	if rep.PostEngagement != nil {
		writePostEngagement(&b, rep.PostEngagement)
	}

	return b.String()
}

func writeUserActivity(b *strings.Builder, metrics []models.UserMetrics) {
	if len(metrics) == 0 {
		return
	}

	b.WriteString("\n" + headerColor.Sprint("User Activity Insights:") + "\n")
	b.WriteString("-----------------------\n")

	for _, m := range metrics {
		fmt.Fprintf(b, "\nUser: %s\n", m.Username)
		fmt.Fprintf(b, "Posts: %d\n", m.PostCount)
		fmt.Fprintf(b, "Total Comments Received: %d\n", m.TotalCommentsReceived)
		fmt.Fprintf(b, "Avg Comments per Post: %.2f\n", m.AvgCommentsPerPost)
		fmt.Fprintf(b, "Avg Post Length (words): %.2f\n", m.AvgPostLength)
	}
}

func writeCommentPatterns(b *strings.Builder, metrics *models.CommentMetrics) {
	b.WriteString("\n" + headerColor.Sprint("Comment Patterns:") + "\n")
	b.WriteString("----------------\n")
	fmt.Fprintf(b, "Total Comments: %d\n", metrics.TotalComments)
	fmt.Fprintf(b, "Average Comment Length: %.2f characters\n", metrics.AvgCommentLength)

	if len(metrics.CommonEmailDomains) > 0 {
		b.WriteString("\nTop Email Domains:\n")

		for _, d := range metrics.CommonEmailDomains {
			fmt.Fprintf(b, "  %s: %d\n", d.Domain, d.Count)
		}
	}

	b.WriteString("\nSentiment Indicators:\n")
	fmt.Fprintf(b, "  Positive Words: %d\n", metrics.Sentiment.PositiveWords)
	fmt.Fprintf(b, "  Negative Words: %d\n", metrics.Sentiment.NegativeWords)
	fmt.Fprintf(b, "  Questions: %d\n", metrics.Sentiment.QuestionComments)
}

func writePostEngagement(b *strings.Builder, metrics *models.PostEngagement) {
	if metrics.TotalPosts == 0 {
		return
	}

	b.WriteString("\n" + headerColor.Sprint("Post Engagement Insights:") + "\n")
	b.WriteString("----------------------\n")
	b.WriteString("Post Length Distribution:\n")
	fmt.Fprintf(b, "  short: %d\n", metrics.PostsByLength.Short)
	fmt.Fprintf(b, "  medium: %d\n", metrics.PostsByLength.Medium)
	fmt.Fprintf(b, "  long: %d\n", metrics.PostsByLength.Long)

	if len(metrics.MostEngagingPosts) > 0 {
		b.WriteString("\nMost Engaging Posts:\n")

		for _, p := range metrics.MostEngagingPosts {
			fmt.Fprintf(b, "  Post %d: %s... (%d comments)\n", p.PostID, truncateRunes(p.Title, titlePreviewRunes), p.CommentCount)
		}
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n])
}
