package stats

import (
	"sync"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/placeholderlabs/placeholder-insights/models"
)

const medianMinComments = 3

// Analyzer owns one immutable snapshot and its derived index. All analyses
// are pure reads of that snapshot; a new snapshot means a new Analyzer.
type Analyzer struct {
	snap *models.Snapshot
	ix   *Index
	log  *logrus.Logger
}

// NewAnalyzer builds the relational index for a snapshot.
func NewAnalyzer(snap *models.Snapshot, log *logrus.Logger) *Analyzer {
	return &Analyzer{
		snap: snap,
		ix:   BuildIndex(snap),
		log:  log,
	}
}

// Index exposes the join structures for callers that need raw groups.
func (a *Analyzer) Index() *Index {
	return a.ix
}

// GenerateReport runs the three analyses. They share no mutable state, so
// they run concurrently; each fails independently, and a failure is recorded
// in the report without touching the other sections.
func (a *Analyzer) GenerateReport() *models.Report {
	report := &models.Report{UserActivity: []models.UserMetrics{}}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	fail := func(analysis string, err error) {
		mu.Lock()
		defer mu.Unlock()
		report.Failures = append(report.Failures, models.AnalysisFailure{
			Analysis: analysis,
			Message:  err.Error(),
		})
		a.log.WithError(err).WithField("analysis", analysis).Warn("Analysis failed")
	}

	wg.Add(3)

	go func() {
		defer wg.Done()
		report.UserActivity = AnalyzeUserActivity(a.snap, a.ix)
	}()

	go func() {
		defer wg.Done()

		metrics, err := AnalyzeCommentPatterns(a.snap.Comments)
		if err != nil {
			fail(AnalysisCommentPatterns, err)
			return
		}

		report.CommentPatterns = metrics
	}()

	go func() {
		defer wg.Done()
		report.PostEngagement = AnalyzePostEngagement(a.snap.Posts, a.ix)
	}()

	wg.Wait()

	a.log.WithFields(logrus.Fields{
		"users_with_posts": len(report.UserActivity),
		"failures":         len(report.Failures),
	}).Info("Report generated")

	return report
}

// PostCommentStats computes on-demand comment statistics for one post.
// Unknown or comment-less post ids yield a zero result.
func (a *Analyzer) PostCommentStats(postID int) *models.PostCommentStats {
	comments := a.ix.CommentsFor(postID)
	if len(comments) == 0 {
		return &models.PostCommentStats{}
	}

	lengths := make([]int, 0, len(comments))
	commenters := make(map[string]struct{}, len(comments))
	total := 0

	for _, comment := range comments {
		l := utf8.RuneCountInString(comment.Body)
		lengths = append(lengths, l)
		total += l
		commenters[comment.Email] = struct{}{}
	}

	stats := &models.PostCommentStats{
		CommentCount:         len(comments),
		UniqueCommenters:     len(commenters),
		TotalCommentLength:   total,
		AverageCommentLength: safeDiv(float64(total), len(comments)),
		MinCommentLength:     lengths[0],
		MaxCommentLength:     lengths[0],
	}

	for _, l := range lengths {
		if l < stats.MinCommentLength {
			stats.MinCommentLength = l
		}

		if l > stats.MaxCommentLength {
			stats.MaxCommentLength = l
		}
	}

	if len(comments) >= medianMinComments {
		m := median(lengths)
		stats.MedianCommentLength = &m
	}

	return stats
}
