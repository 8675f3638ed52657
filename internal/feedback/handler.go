package feedback

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/frahmantamala/feedback-collector/internal"
	"github.com/frahmantamala/feedback-collector/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Submit(ctx context.Context, dto SubmitFeedbackDTO) (*Outcome, error)
	Departments() []string
	GetByID(ctx context.Context, id int64) (*Feedback, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// Index renders the submission form with any pending flash message.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.Render(w, http.StatusOK, "index", transport.PageData{
		Flash:       transport.PopFlash(w, r),
		Departments: h.Service.Departments(),
	})
}

// Submit handles the HTML form post and always redirects back to the form.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Logger.Warn("Submit: invalid form body", "error", err)
		transport.SetFlash(w, transport.Flash{Kind: transport.FlashError, Text: MsgSubmissionFailed})
		h.Redirect(w, r, "/")
		return
	}

	dto := SubmitFeedbackDTO{
		Name:       r.PostForm.Get("name"),
		Department: r.PostForm.Get("department"),
		Rating:     r.PostForm.Get("rating"),
	}
	if r.PostForm.Has("comment") {
		comment := r.PostForm.Get("comment")
		dto.Comment = &comment
	}

	outcome, err := h.Service.Submit(r.Context(), dto)
	if err != nil {
		transport.SetFlash(w, transport.Flash{Kind: transport.FlashError, Text: flashTextFor(err)})
		h.Redirect(w, r, "/")
		return
	}

	transport.SetFlash(w, transport.Flash{Kind: outcome.Message.Kind, Text: outcome.Message.Text})
	h.Redirect(w, r, "/")
}

// CreateFeedback is the JSON equivalent of Submit.
func (h *Handler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	var req SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("CreateFeedback: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outcome, err := h.Service.Submit(r.Context(), req.ToDTO())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, NewSubmitFeedbackResponse(outcome))
}

// GetFeedback returns one stored submission to a logged-in viewer.
func (h *Handler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("GetFeedback: invalid feedback ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid feedback ID")
		return
	}

	fb, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, fb)
}

func flashTextFor(err error) string {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		return MsgSubmissionFailed
	}
	if appErr.HasCode(internal.ErrCodeInvalidRating) {
		return MsgInvalidRating
	}
	if appErr.Type == internal.ErrorTypeValidation {
		return appErr.GetDetailedMessage()
	}
	return MsgSubmissionFailed
}
