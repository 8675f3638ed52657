package repository

import (
	"context"
	"errors"

	feedbackDatamodel "github.com/frahmantamala/feedback-collector/internal/core/datamodel/feedback"
	"github.com/frahmantamala/feedback-collector/internal/feedback"
	"gorm.io/gorm"
)

// FeedbackRepository implements feedback.RepositoryAPI using GORM. It has no update or delete path.
type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) feedback.RepositoryAPI {
	return &FeedbackRepository{db: db}
}

// Create inserts one row and sets f.ID.
func (r *FeedbackRepository) Create(ctx context.Context, f *feedbackDatamodel.Feedback) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FeedbackRepository) GetByID(ctx context.Context, id int64) (*feedbackDatamodel.Feedback, error) {
	var f feedbackDatamodel.Feedback
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, feedback.ErrFeedbackNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *FeedbackRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&feedbackDatamodel.Feedback{}).Count(&count).Error
	return count, err
}
