package feedback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/feedback-collector/internal"
	"github.com/frahmantamala/feedback-collector/internal/category"
	feedbackDatamodel "github.com/frahmantamala/feedback-collector/internal/core/datamodel/feedback"
	"github.com/frahmantamala/feedback-collector/internal/metrics"
	"github.com/frahmantamala/feedback-collector/internal/notification"
)

// RepositoryAPI is append-only: submissions are created and read, never changed.
type RepositoryAPI interface {
	Create(ctx context.Context, f *feedbackDatamodel.Feedback) error
	GetByID(ctx context.Context, id int64) (*feedbackDatamodel.Feedback, error)
	Count(ctx context.Context) (int64, error)
}

type Classifier interface {
	Classify(comment *string) category.Category
}

type Notifier interface {
	Notify(ctx context.Context, f notification.Fields, recipients ...string) notification.Result
}

type Directory interface {
	Lookup(code string) ([]string, bool)
	Codes() []string
}

// Service runs the intake pipeline: validate, classify, persist, notify.
type Service struct {
	repo       RepositoryAPI
	classifier Classifier
	notifier   Notifier
	directory  Directory
	metrics    metrics.Recorder
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo RepositoryAPI, classifier Classifier, notifier Notifier, directory Directory, recorder metrics.Recorder, logger *slog.Logger) *Service {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       repo,
		classifier: classifier,
		notifier:   notifier,
		directory:  directory,
		metrics:    recorder,
		logger:     logger,
		now:        time.Now,
	}
}

// Submit stores the submission before notifying; a failed notification never undoes the save.
func (s *Service) Submit(ctx context.Context, dto SubmitFeedbackDTO) (*Outcome, error) {
	rating, err := dto.Validate()
	if err != nil {
		s.logger.Warn("feedback validation failed", "error", err, "department", dto.Department)
		if appErr, ok := internal.IsAppError(err); ok {
			s.metrics.SubmissionRejected(string(appErr.Code))
		}
		return nil, err
	}

	cat := s.classifier.Classify(dto.Comment)
	fb := NewFeedback(dto, rating, cat, s.now())

	record := ToDataModel(fb)
	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("failed to store feedback", "error", err, "department", fb.Department)
		appErr := internal.NewInternalError(MsgSubmissionFailed, err)
		appErr.Code = internal.ErrCodeSubmissionFailed
		return nil, appErr
	}
	fb.ID = record.ID
	s.metrics.SubmissionStored(cat.Key())

	s.logger.Info("feedback stored",
		"feedback_id", fb.ID,
		"department", fb.Department,
		"rating", fb.Rating,
		"category", cat.Key())

	outcome := &Outcome{Feedback: fb}

	recipients, ok := s.directory.Lookup(fb.Department)
	if !ok {
		s.logger.Info("no recipients configured for department", "department", fb.Department)
		s.metrics.Notification(metrics.OutcomeSkipped)
		outcome.Message = messageFor(fb.Department, nil)
		return outcome, nil
	}

	result := s.notifier.Notify(ctx, notification.Fields{
		Department: fb.Department,
		Name:       fb.Name,
		Rating:     fb.Rating,
		Category:   cat.String(),
		Comment:    fb.CommentText(),
	}, recipients...)
	outcome.Notification = &result

	if result.OK() {
		s.metrics.Notification(metrics.OutcomeSent)
	} else {
		s.metrics.Notification(metrics.OutcomeFailed)
		s.logger.Warn("feedback stored but notification failed",
			"feedback_id", fb.ID,
			"department", fb.Department,
			"reason", result.Reason())
	}

	outcome.Message = messageFor(fb.Department, &result)
	return outcome, nil
}

// Departments lists the codes offered on the form.
func (s *Service) Departments() []string {
	return s.directory.Codes()
}

// GetByID reads back one stored submission.
func (s *Service) GetByID(ctx context.Context, id int64) (*Feedback, error) {
	record, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrFeedbackNotFound) {
		return nil, internal.NewNotFoundError("feedback not found", internal.ErrCodeFeedbackNotFound).WithCause(err)
	}
	if err != nil {
		return nil, fmt.Errorf("get feedback %d: %w", id, err)
	}
	return FromDataModel(record), nil
}
