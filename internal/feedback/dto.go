package feedback

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/frahmantamala/feedback-collector/internal"
	"github.com/frahmantamala/feedback-collector/internal/core/common/validation"
)

const (
	MaxNameLength       = 100
	MaxDepartmentLength = 50
)

// SubmitFeedbackDTO carries raw form input; Rating is parsed during validation.
type SubmitFeedbackDTO struct {
	Name       string  `json:"name"`
	Department string  `json:"department"`
	Rating     string  `json:"rating"`
	Comment    *string `json:"comment,omitempty"`
}

// Validate returns the parsed rating. Any whole number is accepted.
func (dto SubmitFeedbackDTO) Validate() (int, error) {
	v := validation.NewValidator()
	v.Field("name", dto.trimmedName()).Required().MaxLength(MaxNameLength)
	v.Field("department", dto.trimmedDepartment()).Required().MaxLength(MaxDepartmentLength)
	v.Field("rating", dto.Rating).Required().Integer(MsgInvalidRating)

	if appErr := v.Validate(); appErr != nil {
		// a lone rating failure keeps its own code so clients can match on it
		if details, ok := appErr.Details.(internal.ValidationErrors); ok && len(details.Errors) == 1 && appErr.HasCode(internal.ErrCodeInvalidRating) {
			return 0, internal.NewValidationError(MsgInvalidRating, internal.ErrCodeInvalidRating).WithDetails(details)
		}
		return 0, appErr
	}

	rating, err := strconv.Atoi(strings.TrimSpace(dto.Rating))
	if err != nil {
		return 0, internal.NewValidationError(MsgInvalidRating, internal.ErrCodeInvalidRating).WithCause(err)
	}
	return rating, nil
}

func (dto SubmitFeedbackDTO) trimmedName() string {
	return strings.TrimSpace(dto.Name)
}

func (dto SubmitFeedbackDTO) trimmedDepartment() string {
	return strings.TrimSpace(dto.Department)
}

// normalizedComment keeps the comment verbatim; blank comments are stored as NULL.
func (dto SubmitFeedbackDTO) normalizedComment() *string {
	if dto.Comment == nil || strings.TrimSpace(*dto.Comment) == "" {
		return nil
	}
	c := *dto.Comment
	return &c
}

// SubmitFeedbackRequest is the JSON body of POST /api/v1/feedback.
type SubmitFeedbackRequest struct {
	Name       string      `json:"name"`
	Department string      `json:"department"`
	Rating     RatingInput `json:"rating"`
	Comment    *string     `json:"comment"`
}

func (req SubmitFeedbackRequest) ToDTO() SubmitFeedbackDTO {
	return SubmitFeedbackDTO{
		Name:       req.Name,
		Department: req.Department,
		Rating:     string(req.Rating),
		Comment:    req.Comment,
	}
}

// RatingInput accepts a JSON number or string and keeps its text for validation.
type RatingInput string

func (r *RatingInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RatingInput(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	*r = RatingInput(data)
	return nil
}

type SubmitFeedbackResponse struct {
	ID          int64  `json:"id"`
	Category    string `json:"category"`
	CategoryKey string `json:"category_key"`
	Notified    bool   `json:"notified"`
	Message     string `json:"message"`
	MessageKind string `json:"message_kind"`
}

func NewSubmitFeedbackResponse(o *Outcome) SubmitFeedbackResponse {
	return SubmitFeedbackResponse{
		ID:          o.Feedback.ID,
		Category:    o.Feedback.Category.String(),
		CategoryKey: o.Feedback.Category.Key(),
		Notified:    o.Notified(),
		Message:     o.Message.Text,
		MessageKind: o.Message.Kind,
	}
}
