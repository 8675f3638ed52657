package analytics_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/feedback-collector/internal"
	"github.com/frahmantamala/feedback-collector/internal/analytics"
	"github.com/frahmantamala/feedback-collector/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubAggregator struct {
	stats analytics.Stats
	err   error
}

func (s *stubAggregator) Aggregate(context.Context) (analytics.Stats, error) {
	return s.stats, s.err
}

var _ = Describe("Analytics Handler", func() {
	var (
		stub    *stubAggregator
		handler *analytics.Handler
	)

	BeforeEach(func() {
		views, err := transport.NewViews()
		Expect(err).NotTo(HaveOccurred())
		stub = &stubAggregator{stats: analytics.Stats{
			AverageRating:  4.5,
			Count:          2,
			CategoryCounts: map[string]int{"正面好評 (Positive)": 2},
		}}
		handler = analytics.NewHandler(transport.NewBaseHandler(quietLogger(), views), stub)
	})

	It("should render the dashboard for the signed-in user", func() {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req = req.WithContext(internal.ContextWithUsername(req.Context(), "admin"))
		w := httptest.NewRecorder()

		handler.Dashboard(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("admin"))
		Expect(w.Body.String()).To(ContainSubstring("4.5"))
		Expect(w.Body.String()).To(ContainSubstring("正面好評 (Positive)"))
	})

	It("should show zeros instead of an error when analytics fail", func() {
		stub.stats = analytics.EmptyStats()
		stub.err = errors.New("database is locked")

		w := httptest.NewRecorder()
		handler.Dashboard(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("0.0"))
		Expect(w.Body.String()).NotTo(ContainSubstring("locked"))
	})

	It("should serve stats as JSON", func() {
		w := httptest.NewRecorder()
		handler.GetStats(w, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		var body map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body["average_rating"]).To(Equal(4.5))
		Expect(body["count"]).To(Equal(2.0))
	})
})
