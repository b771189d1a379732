package models

import (
	"encoding/json"
)

// Tap message types as they appear in the input stream.
const (
	MessageTypeSchema = "SCHEMA"
	MessageTypeRecord = "RECORD"
	MessageTypeState  = "STATE"
)

// Stream names carried by RECORD messages.
const (
	StreamUsers    = "users"
	StreamPosts    = "posts"
	StreamComments = "comments"
)

// TapMessage is one line of the tap output stream.
type TapMessage struct {
	Type          string          `json:"type"`
	Stream        string          `json:"stream,omitempty"`
	Record        json.RawMessage `json:"record,omitempty"`
	Schema        json.RawMessage `json:"schema,omitempty"`
	KeyProperties []string        `json:"key_properties,omitempty"`
	Value         json.RawMessage `json:"value,omitempty"`
}

// Geo holds the coordinates nested under a user's address
type Geo struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

// Address is the nested address object on a user record
type Address struct {
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
	Geo     Geo    `json:"geo"`
}

// Company is the nested company object on a user record
type Company struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
	BS          string `json:"bs"`
}

// User represents a user record from the users stream
type User struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Address  Address `json:"address,omitempty"`
	Phone    string  `json:"phone,omitempty"`
	Website  string  `json:"website,omitempty"`
	Company  Company `json:"company,omitempty"`
}

// Post represents a post record from the posts stream
type Post struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Comment represents a comment record from the comments stream
type Comment struct {
	PostID int    `json:"postId"`
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

// Snapshot is one ingested analysis session: users keyed by id,
// posts and comments in stream order with duplicates retained.
type Snapshot struct {
	Users    map[int]User
	Posts    []Post
	Comments []Comment
}

// UserMetrics holds per-user activity metrics. One entry exists for every
// user id that owns at least one post, whether or not the id resolves to
// an ingested user.
type UserMetrics struct {
	UserID                int     `json:"user_id"`
	Username              string  `json:"username"`
	PostCount             int     `json:"post_count"`
	TotalCommentsReceived int     `json:"total_comments_received"`
	AvgCommentsPerPost    float64 `json:"avg_comments_per_post"`
	TotalWordsInPosts     int     `json:"total_words_in_posts"`
	AvgPostLength         float64 `json:"avg_post_length"`
}

// DomainCount is an email domain with its occurrence count.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// WordCount is a lowercased token with its occurrence count.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// SentimentIndicators are the lexicon-based signals over the comment corpus.
type SentimentIndicators struct {
	PositiveWords    int `json:"positive_words"`
	NegativeWords    int `json:"negative_words"`
	QuestionComments int `json:"question_comments"`
}

// CommentMetrics is the single aggregate over the whole comment collection.
type CommentMetrics struct {
	TotalComments      int                 `json:"total_comments"`
	AvgCommentLength   float64             `json:"avg_comment_length"`
	CommonEmailDomains []DomainCount       `json:"common_email_domains"`
	MostCommonWords    []WordCount         `json:"most_common_words"`
	Sentiment          SentimentIndicators `json:"sentiment_indicators"`
}

// PostMetrics is the per-post engagement entry used in rankings.
type PostMetrics struct {
	PostID          int    `json:"post_id"`
	Title           string `json:"title"`
	UserID          int    `json:"user_id"`
	BodyLengthWords int    `json:"body_length_words"`
	CommentCount    int    `json:"comment_count"`
}

// LengthDistribution buckets posts by body word count.
type LengthDistribution struct {
	Short  int `json:"short"`  // under 100 words
	Medium int `json:"medium"` // 100-199 words
	Long   int `json:"long"`   // 200 words and up
}

// TitleLengthStats are character-length statistics over all post titles.
type TitleLengthStats struct {
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Avg    float64 `json:"avg"`
	Median float64 `json:"median"`
}

// PostEngagement is the aggregate over the whole post collection.
type PostEngagement struct {
	TotalPosts        int                `json:"total_posts"`
	PostsByLength     LengthDistribution `json:"posts_by_length"`
	TitleLengthStats  TitleLengthStats   `json:"title_length_stats"`
	MostEngagingPosts []PostMetrics      `json:"most_engaging_posts"`
	EngagementByUser  map[int]int        `json:"engagement_by_user"`
}

// PostCommentStats are per-post comment statistics served on demand.
type PostCommentStats struct {
	CommentCount         int      `json:"comment_count"`
	UniqueCommenters     int      `json:"unique_commenters"`
	TotalCommentLength   int      `json:"total_comment_length"`
	AverageCommentLength float64  `json:"average_comment_length"`
	MaxCommentLength     int      `json:"max_comment_length,omitempty"`
	MinCommentLength     int      `json:"min_comment_length,omitempty"`
	MedianCommentLength  *float64 `json:"median_comment_length,omitempty"`
}

// AnalysisFailure describes one analysis that could not complete.
type AnalysisFailure struct {
	Analysis string `json:"analysis"`
	Message  string `json:"message"`
}

// Report bundles the three analyses. A failed analysis leaves its slot
// nil/empty and adds an entry to Failures; the others are unaffected.
type Report struct {
	UserActivity    []UserMetrics     `json:"user_activity"`
	CommentPatterns *CommentMetrics   `json:"comment_patterns,omitempty"`
	PostEngagement  *PostEngagement   `json:"post_engagement,omitempty"`
	Failures        []AnalysisFailure `json:"failures,omitempty"`
}
