package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserActivityTableRendersRows(t *testing.T) {
	rep := sampleReport()

	out := UserActivityTable(rep.UserActivity).Render()

	assert.Contains(t, out, "USERNAME")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "1.50")
	assert.Contains(t, out, "4.00")
}

func TestRenderTablesIncludesAllBlocks(t *testing.T) {
	out := RenderTables(sampleReport())

	assert.Contains(t, out, "User Metrics")
	assert.Contains(t, out, "Post Distribution Statistics")
	assert.Contains(t, out, "Most Engaging Posts")
	assert.Contains(t, out, "Comment Statistics")
	assert.Contains(t, out, "Top Email Domains")
}

func TestRenderTablesSkipsMissingSections(t *testing.T) {
	rep := sampleReport()
	rep.PostEngagement = nil
	rep.CommentPatterns = nil

	out := RenderTables(rep)

	assert.Contains(t, out, "User Metrics")
	assert.NotContains(t, out, "Post Distribution Statistics")
	assert.NotContains(t, out, "Comment Statistics")
}

func TestExportCSVWritesAllFiles(t *testing.T) {
	dir := t.TempDir()

	written, err := ExportCSV(sampleReport(), dir)
	require.NoError(t, err)
	require.Len(t, written, 3)

	names := make([]string, len(written))
	for i, path := range written {
		names[i] = filepath.Base(path)

		_, err := os.Stat(path)
		require.NoError(t, err)
	}

	assert.True(t, strings.HasPrefix(names[0], "user_metrics_"))
	assert.True(t, strings.HasPrefix(names[1], "post_metrics_"))
	assert.True(t, strings.HasPrefix(names[2], "comment_metrics_"))
}

// The user metrics file is a single CSV table that parses back to the
// values that produced it.
func TestExportCSVUserMetricsRoundTrip(t *testing.T) {
	dir := t.TempDir()

	written, err := ExportCSV(sampleReport(), dir)
	require.NoError(t, err)

	data, err := os.ReadFile(written[0])
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"Username", "Post Count", "Total Comments Received", "Avg Comments per Post", "Avg Post Length (words)"}, rows[0])
	assert.Equal(t, []string{"alice", "2", "3", "1.50", "4.00"}, rows[1])
}

func TestExportCSVSectionedLayout(t *testing.T) {
	dir := t.TempDir()

	written, err := ExportCSV(sampleReport(), dir)
	require.NoError(t, err)

	data, err := os.ReadFile(written[1])
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, "Post Distribution Statistics\n"))
	assert.Contains(t, content, "\n\nMost Engaging Posts\n")

	// Section bodies are parseable CSV once the title lines are removed.
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	require.NoError(t, err)
	assert.Contains(t, rows, []string{"short", "1"})
	assert.Contains(t, rows, []string{"7", "a very interesting discussion", "3"})
}

func TestExportCSVSkipsMissingSections(t *testing.T) {
	rep := sampleReport()
	rep.CommentPatterns = nil
	dir := t.TempDir()

	written, err := ExportCSV(rep, dir)
	require.NoError(t, err)
	require.Len(t, written, 2)

	for _, path := range written {
		assert.NotContains(t, filepath.Base(path), "comment_metrics_")
	}
}
