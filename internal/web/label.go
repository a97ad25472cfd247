package web

import (
	"errors"
	"net/http"

	"github.com/calkins/recipelister/internal/domain"
	"github.com/calkins/recipelister/internal/form"
	"github.com/calkins/recipelister/internal/middleware"
)

type labelsData struct {
	pageData
	Form   *form.Form
	Labels []domain.Label
}

// handleLabels handles GET and POST /labels — the label catalog page.
// GET lists every label with its creation form; POST creates one and
// reloads the page. Creating a label whose name already exists quietly
// returns the existing label (names are unique).
func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	f := labelForm()

	sess, _ := middleware.SessionFrom(r.Context())
	if f.ValidateOnSubmit(r, form.PostSubmission{CSRFToken: sess.CSRFToken}) {
		if _, err := s.labels.CreateByName(r.Context(), f.String("name")); err != nil {
			if !errors.Is(err, domain.ErrValidation) {
				s.serverError(w, r, err)
				return
			}
			f.AddError("name", "This field is required.")
		} else {
			http.Redirect(w, r, "/labels", http.StatusSeeOther)
			return
		}
	}

	labels, err := s.labels.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.renderPage(w, r, http.StatusOK, "labels", labelsData{pageData: s.page(r), Form: f, Labels: labels})
}
