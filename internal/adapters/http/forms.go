package web

import (
	"errors"
	"net/http"
	"strconv"

	"churchdesk/internal/application/orchestrators"
	"churchdesk/internal/domain/feedback"
	"churchdesk/internal/domain/prayer"
	"churchdesk/internal/domain/visitor"
)

// Form handlers follow post/redirect/get: success redirects with ?saved=, validation failures
// re-render the page with a 400.

func checked(r *http.Request, name string) bool {
	v := r.PostFormValue(name)
	return v == "on" || v == "true" || v == "1"
}

func (s *Server) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	spec := s.pageSpecs()["feedback"]
	rating, err := strconv.Atoi(r.PostFormValue("rating"))
	if err != nil {
		s.formError(w, r, spec, feedback.ErrInvalidRating)
		return
	}
	_, err = orchestrators.ExecuteSubmitFeedback(r.Context(), orchestrators.SubmitFeedbackInput{
		Category:  r.PostFormValue("category"),
		Message:   r.PostFormValue("message"),
		Rating:    rating,
		Anonymous: checked(r, "anonymous"),
		Name:      r.PostFormValue("name"),
	}, s.app.FeedbackDeps())
	if errors.Is(err, feedback.ErrEmptyMessage) || errors.Is(err, feedback.ErrInvalidRating) {
		s.formError(w, r, spec, err)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/feedback?saved=feedback", http.StatusSeeOther)
}

func (s *Server) handleRegisterVisitor(w http.ResponseWriter, r *http.Request) {
	_, err := orchestrators.ExecuteRegisterVisitor(r.Context(), orchestrators.RegisterVisitorInput{
		Name:      r.PostFormValue("name"),
		Phone:     r.PostFormValue("phone"),
		Email:     r.PostFormValue("email"),
		VisitDate: r.PostFormValue("visit_date"),
		InvitedBy: r.PostFormValue("invited_by"),
	}, s.app.Visitor())
	if errors.Is(err, visitor.ErrEmptyName) || errors.Is(err, visitor.ErrInvalidDate) {
		s.formError(w, r, s.pageSpecs()["visitors"], err)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/visitors?saved=visitor", http.StatusSeeOther)
}

func (s *Server) handleSubmitPrayer(w http.ResponseWriter, r *http.Request) {
	_, err := orchestrators.ExecuteSubmitPrayer(r.Context(), orchestrators.SubmitPrayerInput{
		Requester: r.PostFormValue("requester"),
		Request:   r.PostFormValue("request"),
		Private:   checked(r, "private"),
	}, s.app.Prayer())
	if errors.Is(err, prayer.ErrEmptyRequest) {
		s.formError(w, r, s.pageSpecs()["prayer"], err)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/prayer?saved=prayer", http.StatusSeeOther)
}
