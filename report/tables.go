package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/placeholderlabs/placeholder-insights/models"
)

// UserActivityTable builds the per-user metrics table.
func UserActivityTable(metrics []models.UserMetrics) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Username", "Post Count", "Total Comments Received", "Avg Comments per Post", "Avg Post Length (words)"})

	for _, m := range metrics {
		t.AppendRow(table.Row{
			m.Username,
			m.PostCount,
			m.TotalCommentsReceived,
			fmt.Sprintf("%.2f", m.AvgCommentsPerPost),
			fmt.Sprintf("%.2f", m.AvgPostLength),
		})
	}

	return t
}

// PostDistributionTable builds the short/medium/long distribution table.
func PostDistributionTable(metrics *models.PostEngagement) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Category", "Count"})
	t.AppendRow(table.Row{"short", metrics.PostsByLength.Short})
	t.AppendRow(table.Row{"medium", metrics.PostsByLength.Medium})
	t.AppendRow(table.Row{"long", metrics.PostsByLength.Long})

	return t
}

// EngagingPostsTable builds the top engagement ranking table.
func EngagingPostsTable(metrics *models.PostEngagement) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Post ID", "Title", "Comment Count"})

	for _, p := range metrics.MostEngagingPosts {
		t.AppendRow(table.Row{p.PostID, p.Title, p.CommentCount})
	}

	return t
}

// CommentStatsTable builds the key/value comment statistics table.
func CommentStatsTable(metrics *models.CommentMetrics) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRow(table.Row{"Total Comments", metrics.TotalComments})
	t.AppendRow(table.Row{"Average Comment Length", fmt.Sprintf("%.2f", metrics.AvgCommentLength)})
	t.AppendRow(table.Row{"Positive Word Count", metrics.Sentiment.PositiveWords})
	t.AppendRow(table.Row{"Negative Word Count", metrics.Sentiment.NegativeWords})
	t.AppendRow(table.Row{"Question Comments", metrics.Sentiment.QuestionComments})

	return t
}

// EmailDomainsTable builds the top email domains table.
func EmailDomainsTable(metrics *models.CommentMetrics) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Domain", "Count"})

	for _, d := range metrics.CommonEmailDomains {
		t.AppendRow(table.Row{d.Domain, d.Count})
	}

	return t
}

// RenderTables renders all tables as console text, one titled block per
// surviving section.
func RenderTables(rep *models.Report) string {
	var blocks []string

	if len(rep.UserActivity) > 0 {
		blocks = append(blocks, "User Metrics\n"+UserActivityTable(rep.UserActivity).Render())
	}

	if rep.PostEngagement != nil {
		blocks = append(blocks, "Post Distribution Statistics\n"+PostDistributionTable(rep.PostEngagement).Render())
		blocks = append(blocks, "Most Engaging Posts\n"+EngagingPostsTable(rep.PostEngagement).Render())
	}

	if rep.CommentPatterns != nil {
		blocks = append(blocks, "Comment Statistics\n"+CommentStatsTable(rep.CommentPatterns).Render())
		blocks = append(blocks, "Top Email Domains\n"+EmailDomainsTable(rep.CommentPatterns).Render())
	}

	return strings.Join(blocks, "\n\n")
}

// ExportCSV writes one CSV file per surviving analysis into dir and
// returns the written paths. Layouts match the report tables; multi-table
// files separate sections with a titled line and a blank line.
func ExportCSV(rep *models.Report, dir string) ([]string, error) {
	timestamp := time.Now().Format("20060102_150405")

	var written []string

	if len(rep.UserActivity) > 0 {
		path := filepath.Join(dir, fmt.Sprintf("user_metrics_%s.csv", timestamp))
		content := UserActivityTable(rep.UserActivity).RenderCSV() + "\n"

		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return written, fmt.Errorf("failed to write user metrics: %w", err)
		}

		written = append(written, path)
	}

	if rep.PostEngagement != nil {
		path := filepath.Join(dir, fmt.Sprintf("post_metrics_%s.csv", timestamp))
		content := "Post Distribution Statistics\n" +
			PostDistributionTable(rep.PostEngagement).RenderCSV() + "\n\n" +
			"Most Engaging Posts\n" +
			EngagingPostsTable(rep.PostEngagement).RenderCSV() + "\n"

		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return written, fmt.Errorf("failed to write post metrics: %w", err)
		}

		written = append(written, path)
	}

	if rep.CommentPatterns != nil {
		path := filepath.Join(dir, fmt.Sprintf("comment_metrics_%s.csv", timestamp))
		content := "Comment Statistics\n" +
			CommentStatsTable(rep.CommentPatterns).RenderCSV() + "\n\n" +
			"Top Email Domains\n" +
			EmailDomainsTable(rep.CommentPatterns).RenderCSV() + "\n"

		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return written, fmt.Errorf("failed to write comment metrics: %w", err)
		}

		written = append(written, path)
	}

	return written, nil
}
