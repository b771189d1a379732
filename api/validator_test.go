package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placeholderlabs/placeholder-insights/models"
)

func validUser() models.User {
	return models.User{ID: 1, Name: "Alice", Username: "alice", Email: "alice@example.com"}
}

func validPost() models.Post {
	return models.Post{ID: 1, UserID: 1, Title: "title", Body: "body"}
}

func validComment() models.Comment {
	return models.Comment{ID: 1, PostID: 1, Name: "c", Email: "bob@example.com", Body: "body"}
}

func TestUserValidator(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*models.User)
		wantErrs []string
	}{
		{
			name:   "valid",
			mutate: func(u *models.User) {},
		},
		{
			name:     "missing id",
			mutate:   func(u *models.User) { u.ID = 0 },
			wantErrs: []string{"Missing required field: id"},
		},
		{
			name:     "negative id",
			mutate:   func(u *models.User) { u.ID = -1 },
			wantErrs: []string{"Field id must be a positive integer"},
		},
		{
			name:     "missing name",
			mutate:   func(u *models.User) { u.Name = "" },
			wantErrs: []string{"Missing required field: name"},
		},
		{
			name:     "whitespace username",
			mutate:   func(u *models.User) { u.Username = "   " },
			wantErrs: []string{"Field username cannot be empty"},
		},
		{
			name:     "bad email",
			mutate:   func(u *models.User) { u.Email = "not-an-email" },
			wantErrs: []string{"Invalid email format"},
		},
		{
			name:   "multiple errors",
			mutate: func(u *models.User) { u.ID = 0; u.Email = "nope" },
			wantErrs: []string{
				"Missing required field: id",
				"Invalid email format",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := validUser()
			tt.mutate(&user)

			v := &UserValidator{}
			valid := v.Validate(user)

			assert.Equal(t, len(tt.wantErrs) == 0, valid)
			assert.Equal(t, tt.wantErrs, append([]string(nil), v.Errors()...))
		})
	}
}

func TestPostValidator(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*models.Post)
		wantErrs []string
	}{
		{
			name:   "valid",
			mutate: func(p *models.Post) {},
		},
		{
			name:     "missing userId",
			mutate:   func(p *models.Post) { p.UserID = 0 },
			wantErrs: []string{"Missing required field: userId"},
		},
		{
			name:     "negative userId",
			mutate:   func(p *models.Post) { p.UserID = -3 },
			wantErrs: []string{"Field userId must be a positive integer"},
		},
		{
			name:     "missing title",
			mutate:   func(p *models.Post) { p.Title = "" },
			wantErrs: []string{"Missing required field: title"},
		},
		{
			name:     "whitespace body",
			mutate:   func(p *models.Post) { p.Body = "\t " },
			wantErrs: []string{"Field body cannot be empty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := validPost()
			tt.mutate(&post)

			v := &PostValidator{}
			valid := v.Validate(post)

			assert.Equal(t, len(tt.wantErrs) == 0, valid)
			assert.Equal(t, tt.wantErrs, append([]string(nil), v.Errors()...))
		})
	}
}

func TestCommentValidator(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*models.Comment)
		wantErrs []string
	}{
		{
			name:   "valid",
			mutate: func(c *models.Comment) {},
		},
		{
			name:     "missing postId",
			mutate:   func(c *models.Comment) { c.PostID = 0 },
			wantErrs: []string{"Missing required field: postId"},
		},
		{
			name:     "missing body",
			mutate:   func(c *models.Comment) { c.Body = "" },
			wantErrs: []string{"Missing required field: body"},
		},
		{
			name:     "bad email",
			mutate:   func(c *models.Comment) { c.Email = "bob@" },
			wantErrs: []string{"Invalid email format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comment := validComment()
			tt.mutate(&comment)

			v := &CommentValidator{}
			valid := v.Validate(comment)

			assert.Equal(t, len(tt.wantErrs) == 0, valid)
			assert.Equal(t, tt.wantErrs, append([]string(nil), v.Errors()...))
		})
	}
}

func TestValidatorResetsBetweenRecords(t *testing.T) {
	v := &UserValidator{}

	require.False(t, v.Validate(models.User{}))
	require.NotEmpty(t, v.Errors())

	assert.True(t, v.Validate(validUser()))
	assert.Empty(t, v.Errors())
}

func TestValidationStats(t *testing.T) {
	stats := NewValidationStats()

	stats.Update(true, nil)
	stats.Update(true, nil)
	stats.Update(false, []string{"Invalid email format"})
	stats.Update(false, []string{"Invalid email format", "Missing required field: id"})

	assert.Equal(t, 4, stats.TotalRecords)
	assert.Equal(t, 2, stats.ValidRecords)
	assert.Equal(t, 2, stats.InvalidRecords)
	assert.Equal(t, 2, stats.ErrorTypes["Invalid email format"])
	assert.Equal(t, 1, stats.ErrorTypes["Missing required field: id"])
	assert.InDelta(t, 50.0, stats.ValidityRate(), 0.001)
}

func TestValidityRateEmpty(t *testing.T) {
	assert.Zero(t, NewValidationStats().ValidityRate())
}
