package stats

import (
	"github.com/placeholderlabs/placeholder-insights/models"
)

// Index holds the join structures for the three ingested collections:
// posts grouped by author id and comments grouped by post id. Orphan
// foreign keys keep their groups; ids that resolve to nothing yield
// empty groups rather than errors.
type Index struct {
	PostsByUser    map[int][]models.Post
	CommentsByPost map[int][]models.Comment
}

// BuildIndex derives the index from a snapshot. It is a pure view and is
// rebuilt whenever the snapshot changes.
func BuildIndex(snap *models.Snapshot) *Index {
	ix := &Index{
		PostsByUser:    make(map[int][]models.Post),
		CommentsByPost: make(map[int][]models.Comment),
	}

	for _, post := range snap.Posts {
		ix.PostsByUser[post.UserID] = append(ix.PostsByUser[post.UserID], post)
	}

	for _, comment := range snap.Comments {
		ix.CommentsByPost[comment.PostID] = append(ix.CommentsByPost[comment.PostID], comment)
	}

	return ix
}

// PostsFor returns the posts authored by userID. Unknown ids yield an
// empty group, not an error.
func (ix *Index) PostsFor(userID int) []models.Post {
	return ix.PostsByUser[userID]
}

// CommentsFor returns the comments attached to postID. Unknown ids yield
// an empty group, not an error.
func (ix *Index) CommentsFor(postID int) []models.Comment {
	return ix.CommentsByPost[postID]
}
