package feedback_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/frahmantamala/feedback-collector/internal"
	"github.com/frahmantamala/feedback-collector/internal/category"
	"github.com/frahmantamala/feedback-collector/internal/feedback"
	"github.com/frahmantamala/feedback-collector/internal/notification"
	"github.com/frahmantamala/feedback-collector/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// stubService records the last submission and replays a canned result.
type stubService struct {
	last    *feedback.SubmitFeedbackDTO
	outcome *feedback.Outcome
	err     error
}

func (s *stubService) Submit(_ context.Context, dto feedback.SubmitFeedbackDTO) (*feedback.Outcome, error) {
	s.last = &dto
	return s.outcome, s.err
}

func (s *stubService) Departments() []string {
	return []string{"5542", "HR"}
}

func (s *stubService) GetByID(_ context.Context, id int64) (*feedback.Feedback, error) {
	if s.outcome == nil || s.outcome.Feedback.ID != id {
		return nil, internal.NewNotFoundError("feedback not found", internal.ErrCodeFeedbackNotFound)
	}
	return s.outcome.Feedback, nil
}

func flashCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "feedback_flash" {
			return c
		}
	}
	return nil
}

var _ = Describe("Feedback Handler", func() {
	var (
		service *stubService
		handler *feedback.Handler
	)

	BeforeEach(func() {
		views, err := transport.NewViews()
		Expect(err).NotTo(HaveOccurred())

		service = &stubService{
			outcome: &feedback.Outcome{
				Feedback:     &feedback.Feedback{ID: 7, Department: "5542", Rating: 5, Category: category.Positive},
				Notification: &notification.Result{Sent: true, Recipients: []string{"S21610@chipmos.com"}},
				Message:      feedback.Message{Kind: feedback.MessageSuccess, Text: "感謝！通知已發送至 5542 部門主管信箱。"},
			},
		}
		handler = feedback.NewHandler(transport.NewBaseHandler(quietLogger(), views), service)
	})

	Describe("Index", func() {
		It("should render the form with every department", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			handler.Index(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(ContainSubstring("text/html"))
			body := rec.Body.String()
			Expect(body).To(ContainSubstring(`<option value="5542">`))
			Expect(body).To(ContainSubstring(`<option value="HR">`))
			Expect(body).NotTo(ContainSubstring(`class="flash`))
		})
	})

	Describe("Submit", func() {
		post := func(form url.Values) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			handler.Submit(rec, req)
			return rec
		}

		It("should redirect to the form and show the outcome once", func() {
			rec := post(url.Values{"name": {"Alice"}, "department": {"5542"}, "rating": {"5"}, "comment": {"讚"}})

			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/"))
			Expect(service.last.Name).To(Equal("Alice"))
			Expect(*service.last.Comment).To(Equal("讚"))

			cookie := flashCookie(rec)
			Expect(cookie).NotTo(BeNil())

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(cookie)
			page := httptest.NewRecorder()
			handler.Index(page, req)

			Expect(page.Body.String()).To(ContainSubstring("flash-success"))
			Expect(page.Body.String()).To(ContainSubstring("department manager"))
			Expect(flashCookie(page).MaxAge).To(BeNumerically("<", 0))
		})

		It("should leave the comment absent when the field is not posted", func() {
			post(url.Values{"name": {"Bob"}, "department": {"HR"}, "rating": {"3"}})
			Expect(service.last.Comment).To(BeNil())
		})

		It("should flash the rating message for a non-numeric rating", func() {
			service.outcome = nil
			service.err = internal.NewValidationError(feedback.MsgInvalidRating, internal.ErrCodeInvalidRating)

			rec := post(url.Values{"name": {"Eve"}, "department": {"5542"}, "rating": {"abc"}})
			Expect(rec.Code).To(Equal(http.StatusSeeOther))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(flashCookie(rec))
			page := httptest.NewRecorder()
			handler.Index(page, req)
			Expect(page.Body.String()).To(ContainSubstring("flash-error"))
			Expect(page.Body.String()).To(ContainSubstring(feedback.MsgInvalidRating))
		})

		It("should flash a generic apology when saving fails", func() {
			service.outcome = nil
			service.err = errors.New("disk full")

			rec := post(url.Values{"name": {"Hank"}, "department": {"5542"}, "rating": {"5"}})
			Expect(rec.Code).To(Equal(http.StatusSeeOther))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(flashCookie(rec))
			page := httptest.NewRecorder()
			handler.Index(page, req)
			Expect(page.Body.String()).To(ContainSubstring(feedback.MsgSubmissionFailed))
		})
	})

	Describe("CreateFeedback", func() {
		send := func(body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/feedback", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			handler.CreateFeedback(rec, req)
			return rec
		}

		It("should return 201 with the outcome", func() {
			rec := send(`{"name":"Alice","department":"5542","rating":5,"comment":"讚"}`)

			Expect(rec.Code).To(Equal(http.StatusCreated))
			Expect(service.last.Rating).To(Equal("5"))

			var resp feedback.SubmitFeedbackResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.ID).To(Equal(int64(7)))
			Expect(resp.CategoryKey).To(Equal("positive"))
			Expect(resp.Notified).To(BeTrue())
			Expect(resp.MessageKind).To(Equal(feedback.MessageSuccess))
		})

		It("should accept the rating as a string", func() {
			rec := send(`{"name":"Alice","department":"5542","rating":"4"}`)
			Expect(rec.Code).To(Equal(http.StatusCreated))
			Expect(service.last.Rating).To(Equal("4"))
			Expect(service.last.Comment).To(BeNil())
		})

		It("should return 400 for malformed JSON", func() {
			rec := send(`{"name":`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(service.last).To(BeNil())
		})

		It("should return the typed validation error", func() {
			service.outcome = nil
			service.err = internal.NewValidationError(feedback.MsgInvalidRating, internal.ErrCodeInvalidRating)

			rec := send(`{"name":"Eve","department":"5542","rating":"abc"}`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))

			var resp map[string]map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["error"]["code"]).To(Equal("INVALID_RATING"))
			Expect(resp["error"]["message"]).To(Equal(feedback.MsgInvalidRating))
		})
	})

	Describe("GetFeedback", func() {
		get := func(path string) *httptest.ResponseRecorder {
			router := chi.NewRouter()
			router.Get("/feedback/{id}", handler.GetFeedback)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			return rec
		}

		It("should return the stored submission", func() {
			rec := get("/feedback/7")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var fb feedback.Feedback
			Expect(json.Unmarshal(rec.Body.Bytes(), &fb)).To(Succeed())
			Expect(fb.ID).To(Equal(int64(7)))
			Expect(fb.Category).To(Equal(category.Positive))
		})

		It("should return 404 for unknown ids", func() {
			rec := get("/feedback/8")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(rec.Body.String()).To(ContainSubstring("FEEDBACK_NOT_FOUND"))
		})

		It("should return 400 for non-numeric ids", func() {
			rec := get("/feedback/abc")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
