package report

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/placeholderlabs/placeholder-insights/models"
)

// BuildDashboard assembles the chart page: posts per user, post length
// distribution, and comment counts for the top engaging posts.
func BuildDashboard(rep *models.Report) *components.Page {
	page := components.NewPage()
	page.PageTitle = "JSONPlaceholder Analytics Dashboard"

	if len(rep.UserActivity) > 0 {
		page.AddCharts(postsPerUserChart(rep.UserActivity))
	}

	if rep.PostEngagement != nil && rep.PostEngagement.TotalPosts > 0 {
		page.AddCharts(lengthDistributionChart(rep.PostEngagement))

		if len(rep.PostEngagement.MostEngagingPosts) > 0 {
			page.AddCharts(engagingPostsChart(rep.PostEngagement))
		}
	}

	return page
}

// WriteCharts renders the dashboard page to an HTML file.
func WriteCharts(rep *models.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create charts file: %w", err)
	}
	defer f.Close()

	if err := BuildDashboard(rep).Render(f); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}

	return nil
}

func postsPerUserChart(metrics []models.UserMetrics) *charts.Bar {
	labels := make([]string, len(metrics))
	data := make([]opts.BarData, len(metrics))

	for i, m := range metrics {
		labels[i] = m.Username
		data[i] = opts.BarData{Value: m.PostCount}
	}

	bar := newBar("Posts per User")
	bar.SetXAxis(labels)
	bar.AddSeries("Posts", data)

	return bar
}

func lengthDistributionChart(metrics *models.PostEngagement) *charts.Bar {
	bar := newBar("Post Length Distribution")
	bar.SetXAxis([]string{"short", "medium", "long"})
	bar.AddSeries("Posts", []opts.BarData{
		{Value: metrics.PostsByLength.Short},
		{Value: metrics.PostsByLength.Medium},
		{Value: metrics.PostsByLength.Long},
	})

	return bar
}

func engagingPostsChart(metrics *models.PostEngagement) *charts.Bar {
	labels := make([]string, len(metrics.MostEngagingPosts))
	data := make([]opts.BarData, len(metrics.MostEngagingPosts))

	for i, p := range metrics.MostEngagingPosts {
		labels[i] = "Post " + strconv.Itoa(p.PostID)
		data[i] = opts.BarData{Value: p.CommentCount}
	}

	bar := newBar("Most Engaging Posts")
	bar.SetXAxis(labels)
	bar.AddSeries("Comments", data)

	return bar
}

func newBar(title string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	return bar
}
