package category

import (
	"log/slog"
)

type Service struct {
	classifier *Classifier
	logger     *slog.Logger
}

func NewService(classifier *Classifier, logger *slog.Logger) *Service {
	if classifier == nil {
		classifier = NewDefaultClassifier()
	}
	return &Service{
		classifier: classifier,
		logger:     logger,
	}
}

// List returns every label in rule priority order.
func (s *Service) List() []CategoryResponse {
	responses := make([]CategoryResponse, 0, len(All))
	for _, c := range All {
		responses = append(responses, c.ToResponse())
	}
	return responses
}

func (s *Service) Classify(comment *string) Category {
	c := s.classifier.Classify(comment)
	s.logger.Debug("comment classified", "category", c.Key())
	return c
}
