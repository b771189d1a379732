package stats

import (
	"errors"
	"fmt"
)

// Analysis names used in failure reporting.
const (
	AnalysisUserActivity    = "user activity"
	AnalysisCommentPatterns = "comment patterns"
	AnalysisPostEngagement  = "post engagement"
)

// DataQualityError reports a record that lacks a field its analysis strictly
// needs. It fails that one analysis only; the others keep running.
type DataQualityError struct {
	Analysis string
	Field    string
	RecordID int
}

func (e *DataQualityError) Error() string {
	return fmt.Sprintf("%s analysis: record %d is missing required field %q", e.Analysis, e.RecordID, e.Field)
}

// IsDataQuality reports whether err is a DataQualityError.
func IsDataQuality(err error) bool {
	var dqe *DataQualityError
	return errors.As(err, &dqe)
}
