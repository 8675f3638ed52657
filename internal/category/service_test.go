package category_test

import (
	"log/slog"
	"os"

	"github.com/frahmantamala/feedback-collector/internal/category"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Category Service", func() {
	var (
		service *category.Service
		logger  *slog.Logger
	)

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = category.NewService(nil, logger)
	})

	Describe("List", func() {
		It("should return every label in priority order", func() {
			categories := service.List()
			Expect(categories).To(HaveLen(4))

			keys := make([]string, len(categories))
			for i, c := range categories {
				keys[i] = c.Key
			}
			Expect(keys).To(Equal([]string{"urgent", "positive", "suggestion", "general"}))
			Expect(categories[0].Label).To(Equal(category.Urgent.String()))
		})
	})

	Describe("Classify", func() {
		It("should delegate to the default classifier when none is given", func() {
			Expect(service.Classify(ptr("很讚"))).To(Equal(category.Positive))
		})

		It("should use the injected classifier", func() {
			service = category.NewService(category.NewClassifier(category.Keywords{Positive: []string{"nice"}}), logger)
			Expect(service.Classify(ptr("nice work"))).To(Equal(category.Positive))
		})
	})
})
