package db

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placeholderlabs/placeholder-insights/models"
)

func testArchive(t *testing.T) *Archive {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	archive, err := NewArchive(filepath.Join(t.TempDir(), "archive.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { archive.Close() })

	return archive
}

func testSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Users: map[int]models.User{
			1: {ID: 1, Name: "Alice", Username: "alice", Email: "alice@example.com"},
		},
		Posts: []models.Post{
			{ID: 1, UserID: 1, Title: "t", Body: "b"},
			{ID: 1, UserID: 1, Title: "t", Body: "b"}, // duplicate id kept
		},
		Comments: []models.Comment{
			{ID: 1, PostID: 1, Name: "n", Email: "e@x.com", Body: "c"},
		},
	}
}

func TestArchiveReplaceAndCounts(t *testing.T) {
	archive := testArchive(t)

	require.NoError(t, archive.Replace(testSnapshot()))

	counts, err := archive.Counts()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"users": 1, "posts": 2, "comments": 1}, counts)
}

// A second Replace drops the previous run's records entirely.
func TestArchiveReplaceIsWholesale(t *testing.T) {
	archive := testArchive(t)

	require.NoError(t, archive.Replace(testSnapshot()))

	smaller := &models.Snapshot{
		Users:    map[int]models.User{2: {ID: 2, Name: "Bob", Username: "bob", Email: "bob@example.com"}},
		Posts:    []models.Post{{ID: 9, UserID: 2, Title: "t", Body: "b"}},
		Comments: []models.Comment{},
	}
	require.NoError(t, archive.Replace(smaller))

	counts, err := archive.Counts()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"users": 1, "posts": 1, "comments": 0}, counts)
}

func TestArchiveEmptySnapshot(t *testing.T) {
	archive := testArchive(t)

	require.NoError(t, archive.Replace(&models.Snapshot{Users: map[int]models.User{}}))

	counts, err := archive.Counts()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"users": 0, "posts": 0, "comments": 0}, counts)
}
