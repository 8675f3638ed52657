package feedback

import (
	"errors"
	"time"

	"github.com/frahmantamala/feedback-collector/internal/category"
	feedbackDatamodel "github.com/frahmantamala/feedback-collector/internal/core/datamodel/feedback"
)

var ErrFeedbackNotFound = errors.New("feedback not found")

// Feedback is a stored submission. It is never updated once created.
type Feedback struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	Department string            `json:"department"`
	Rating     int               `json:"rating"`
	Comment    *string           `json:"comment,omitempty"`
	Category   category.Category `json:"category"`
	Timestamp  time.Time         `json:"timestamp"`
}

func NewFeedback(dto SubmitFeedbackDTO, rating int, cat category.Category, now time.Time) *Feedback {
	return &Feedback{
		Name:       dto.trimmedName(),
		Department: dto.trimmedDepartment(),
		Rating:     rating,
		Comment:    dto.normalizedComment(),
		Category:   cat,
		Timestamp:  now.UTC(),
	}
}

// CommentText is the comment or "" when absent.
func (f *Feedback) CommentText() string {
	if f.Comment == nil {
		return ""
	}
	return *f.Comment
}

func ToDataModel(f *Feedback) *feedbackDatamodel.Feedback {
	return &feedbackDatamodel.Feedback{
		ID:         f.ID,
		Name:       f.Name,
		Department: f.Department,
		Rating:     f.Rating,
		Comment:    f.Comment,
		Category:   f.Category.String(),
		Timestamp:  f.Timestamp,
	}
}

func FromDataModel(f *feedbackDatamodel.Feedback) *Feedback {
	return &Feedback{
		ID:         f.ID,
		Name:       f.Name,
		Department: f.Department,
		Rating:     f.Rating,
		Comment:    f.Comment,
		Category:   category.Category(f.Category),
		Timestamp:  f.Timestamp,
	}
}
