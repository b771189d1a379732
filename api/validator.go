package api

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/placeholderlabs/placeholder-insights/models"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// baseValidator collects human-readable errors for the record last
// validated. Typed decoding collapses absent and zero-valued fields, so a
// zero required field is reported as missing.
type baseValidator struct {
	errs []string
}

// Errors returns the errors from the last Validate call.
func (v *baseValidator) Errors() []string {
	return v.errs
}

func (v *baseValidator) reset() {
	v.errs = v.errs[:0]
}

func (v *baseValidator) checkRequiredInt(value int, field string) {
	switch {
	case value == 0:
		v.errs = append(v.errs, fmt.Sprintf("Missing required field: %s", field))
	case value < 0:
		v.errs = append(v.errs, fmt.Sprintf("Field %s must be a positive integer", field))
	}
}

func (v *baseValidator) checkRequiredString(value, field string) {
	switch {
	case value == "":
		v.errs = append(v.errs, fmt.Sprintf("Missing required field: %s", field))
	case strings.TrimSpace(value) == "":
		v.errs = append(v.errs, fmt.Sprintf("Field %s cannot be empty", field))
	}
}

func (v *baseValidator) checkEmailFormat(email string) {
	if !emailPattern.MatchString(email) {
		v.errs = append(v.errs, "Invalid email format")
	}
}

// UserValidator validates user records.
type UserValidator struct {
	baseValidator
}

// Validate reports whether the user record is well formed.
func (v *UserValidator) Validate(user models.User) bool {
	v.reset()

	v.checkRequiredInt(user.ID, "id")
	v.checkRequiredString(user.Name, "name")
	v.checkRequiredString(user.Username, "username")
	v.checkEmailFormat(user.Email)

	return len(v.errs) == 0
}

// PostValidator validates post records.
type PostValidator struct {
	baseValidator
}

// Validate reports whether the post record is well formed.
func (v *PostValidator) Validate(post models.Post) bool {
	v.reset()

	v.checkRequiredInt(post.ID, "id")
	v.checkRequiredInt(post.UserID, "userId")
	v.checkRequiredString(post.Title, "title")
	v.checkRequiredString(post.Body, "body")

	return len(v.errs) == 0
}

// CommentValidator validates comment records.
type CommentValidator struct {
	baseValidator
}

// Validate reports whether the comment record is well formed.
func (v *CommentValidator) Validate(comment models.Comment) bool {
	v.reset()

	v.checkRequiredInt(comment.ID, "id")
	v.checkRequiredInt(comment.PostID, "postId")
	v.checkRequiredString(comment.Name, "name")
	v.checkRequiredString(comment.Body, "body")
	v.checkEmailFormat(comment.Email)

	return len(v.errs) == 0
}

// ValidationStats tracks validation outcomes for one stream.
type ValidationStats struct {
	TotalRecords   int            `json:"total_records"`
	ValidRecords   int            `json:"valid_records"`
	InvalidRecords int            `json:"invalid_records"`
	ErrorTypes     map[string]int `json:"error_types"`
}

// NewValidationStats creates an empty stats tracker.
func NewValidationStats() *ValidationStats {
	return &ValidationStats{ErrorTypes: make(map[string]int)}
}

// Update records one validation outcome.
func (s *ValidationStats) Update(valid bool, errs []string) {
	s.TotalRecords++
	if valid {
		s.ValidRecords++
		return
	}

	s.InvalidRecords++
	for _, e := range errs {
		s.ErrorTypes[e]++
	}
}

// ValidityRate returns the percentage of valid records, 0 when empty.
func (s *ValidationStats) ValidityRate() float64 {
	if s.TotalRecords == 0 {
		return 0
	}

	return float64(s.ValidRecords) / float64(s.TotalRecords) * 100
}
