package ingest

import (
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/placeholderlabs/placeholder-insights/models"
)

// Stats counts the outcome of one ingestion pass.
type Stats struct {
	LinesRead int
	Skipped   int // lines that failed to parse as tap messages or records
	Ignored   int // parsed lines that are not RECORD, or carry an unknown stream
	Users     int
	Posts     int
	Comments  int
}

// Ingest partitions the decoded tap lines into the three collections.
// Malformed lines are skipped, never fatal. Users are keyed by id with
// overwrite semantics on duplicates; posts and comments are appended in
// stream order with duplicates retained.
func Ingest(lines []string, log *logrus.Logger) (*models.Snapshot, Stats) {
	snap := &models.Snapshot{
		Users:    make(map[int]models.User),
		Posts:    []models.Post{},
		Comments: []models.Comment{},
	}

	var stats Stats

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		stats.LinesRead++

		var msg models.TapMessage
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			stats.Skipped++
			continue
		}

		if msg.Type != models.MessageTypeRecord {
			stats.Ignored++
			continue
		}

		switch msg.Stream {
		case models.StreamUsers:
			var user models.User
			if err := json.Unmarshal(msg.Record, &user); err != nil {
				stats.Skipped++
				continue
			}

			snap.Users[user.ID] = user
			stats.Users++
		case models.StreamPosts:
			var post models.Post
			if err := json.Unmarshal(msg.Record, &post); err != nil {
				stats.Skipped++
				continue
			}

			snap.Posts = append(snap.Posts, post)
			stats.Posts++
		case models.StreamComments:
			var comment models.Comment
			if err := json.Unmarshal(msg.Record, &comment); err != nil {
				stats.Skipped++
				continue
			}

			snap.Comments = append(snap.Comments, comment)
			stats.Comments++
		default:
			stats.Ignored++
		}
	}

	log.WithFields(logrus.Fields{
		"lines":    stats.LinesRead,
		"users":    len(snap.Users),
		"posts":    len(snap.Posts),
		"comments": len(snap.Comments),
		"skipped":  stats.Skipped,
		"ignored":  stats.Ignored,
	}).Info("Ingested record stream")

	return snap, stats
}
