package api

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/invopop/jsonschema"
	"github.com/sirupsen/logrus"

	"github.com/placeholderlabs/placeholder-insights/models"
)

// Fetcher is the source of the three entity collections.
type Fetcher interface {
	FetchUsers() ([]models.User, error)
	FetchPosts() ([]models.Post, error)
	FetchComments() ([]models.Comment, error)
}

// TapWriter writes tap messages as newline-delimited JSON.
type TapWriter struct {
	enc *json.Encoder
}

// NewTapWriter creates a writer emitting one message per line.
func NewTapWriter(w io.Writer) *TapWriter {
	return &TapWriter{enc: json.NewEncoder(w)}
}

// WriteSchema emits a SCHEMA message for a stream. The schema is reflected
// from the record struct.
func (t *TapWriter) WriteSchema(stream string, model any, keyProperties []string) error {
	schema, err := reflectSchema(model)
	if err != nil {
		return fmt.Errorf("failed to build schema for stream %s: %w", stream, err)
	}

	return t.enc.Encode(models.TapMessage{
		Type:          models.MessageTypeSchema,
		Stream:        stream,
		Schema:        schema,
		KeyProperties: keyProperties,
	})
}

// WriteRecord emits a RECORD message for a stream.
func (t *TapWriter) WriteRecord(stream string, record any) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record for stream %s: %w", stream, err)
	}

	return t.enc.Encode(models.TapMessage{
		Type:   models.MessageTypeRecord,
		Stream: stream,
		Record: raw,
	})
}

// WriteState emits the trailing STATE message.
func (t *TapWriter) WriteState(value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	return t.enc.Encode(models.TapMessage{
		Type:  models.MessageTypeState,
		Value: raw,
	})
}

func reflectSchema(model any) (json.RawMessage, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}

	return json.Marshal(reflector.Reflect(model))
}

// Tap fetches the three collections, validates each record, and writes the
// tap output stream: one SCHEMA message per stream, the RECORD messages,
// and a final STATE message with record counts. Invalid records are logged
// and kept; validation never drops data.
type Tap struct {
	fetcher      Fetcher
	writer       *TapWriter
	evenIDFilter bool
	log          *logrus.Logger
}

// NewTap creates a tap writing to w. evenIDFilter restricts the posts and
// comments streams to even post ids, mirroring the historical source feed.
func NewTap(fetcher Fetcher, w io.Writer, evenIDFilter bool, log *logrus.Logger) *Tap {
	return &Tap{
		fetcher:      fetcher,
		writer:       NewTapWriter(w),
		evenIDFilter: evenIDFilter,
		log:          log,
	}
}

// Run produces the full tap output stream.
func (t *Tap) Run() error {
	counts := make(map[string]int, 3)

	if err := t.runUsers(counts); err != nil {
		return err
	}

	if err := t.runPosts(counts); err != nil {
		return err
	}

	if err := t.runComments(counts); err != nil {
		return err
	}

	if err := t.writer.WriteState(counts); err != nil {
		return err
	}

	t.log.WithFields(logrus.Fields{
		"users":    counts[models.StreamUsers],
		"posts":    counts[models.StreamPosts],
		"comments": counts[models.StreamComments],
	}).Info("Tap run complete")

	return nil
}

func (t *Tap) runUsers(counts map[string]int) error {
	users, err := t.fetcher.FetchUsers()
	if err != nil {
		return fmt.Errorf("failed to fetch users: %w", err)
	}

	if err := t.writer.WriteSchema(models.StreamUsers, &models.User{}, []string{"id"}); err != nil {
		return err
	}

	validator := &UserValidator{}
	stats := NewValidationStats()

	for _, user := range users {
		valid := validator.Validate(user)
		stats.Update(valid, validator.Errors())

		if !valid {
			t.log.WithFields(logrus.Fields{
				"stream": models.StreamUsers,
				"id":     user.ID,
				"errors": validator.Errors(),
			}).Warn("Validation errors for record")
		}

		if err := t.writer.WriteRecord(models.StreamUsers, user); err != nil {
			return err
		}

		counts[models.StreamUsers]++
	}

	t.logStreamStats(models.StreamUsers, stats)

	return nil
}

func (t *Tap) runPosts(counts map[string]int) error {
	posts, err := t.fetcher.FetchPosts()
	if err != nil {
		return fmt.Errorf("failed to fetch posts: %w", err)
	}

	if err := t.writer.WriteSchema(models.StreamPosts, &models.Post{}, []string{"id"}); err != nil {
		return err
	}

	validator := &PostValidator{}
	stats := NewValidationStats()

	for _, post := range posts {
		if t.evenIDFilter && post.ID%2 != 0 {
			continue
		}

		valid := validator.Validate(post)
		stats.Update(valid, validator.Errors())

		if !valid {
			t.log.WithFields(logrus.Fields{
				"stream": models.StreamPosts,
				"id":     post.ID,
				"errors": validator.Errors(),
			}).Warn("Validation errors for record")
		}

		if err := t.writer.WriteRecord(models.StreamPosts, post); err != nil {
			return err
		}

		counts[models.StreamPosts]++
	}

	t.logStreamStats(models.StreamPosts, stats)

	return nil
}

func (t *Tap) runComments(counts map[string]int) error {
	comments, err := t.fetcher.FetchComments()
	if err != nil {
		return fmt.Errorf("failed to fetch comments: %w", err)
	}

	if err := t.writer.WriteSchema(models.StreamComments, &models.Comment{}, []string{"id"}); err != nil {
		return err
	}

	validator := &CommentValidator{}
	stats := NewValidationStats()

	for _, comment := range comments {
		if t.evenIDFilter && comment.PostID%2 != 0 {
			continue
		}

		valid := validator.Validate(comment)
		stats.Update(valid, validator.Errors())

		if !valid {
			t.log.WithFields(logrus.Fields{
				"stream": models.StreamComments,
				"id":     comment.ID,
				"errors": validator.Errors(),
			}).Warn("Validation errors for record")
		}

		if err := t.writer.WriteRecord(models.StreamComments, comment); err != nil {
			return err
		}

		counts[models.StreamComments]++
	}

	t.logStreamStats(models.StreamComments, stats)

	return nil
}

func (t *Tap) logStreamStats(stream string, stats *ValidationStats) {
	t.log.WithFields(logrus.Fields{
		"stream":        stream,
		"total":         stats.TotalRecords,
		"valid":         stats.ValidRecords,
		"invalid":       stats.InvalidRecords,
		"validity_rate": stats.ValidityRate(),
	}).Info("Stream validation complete")
}
