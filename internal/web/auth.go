package web

import (
	"net/http"

	"github.com/calkins/recipelister/internal/form"
	"github.com/calkins/recipelister/internal/middleware"
)

type loginData struct {
	pageData
	Form *form.Form
}

// handleLogin handles GET and POST /login.
//
// Credential checks are field-scoped on purpose: a wrong username flags the
// username field, a wrong password (with a correct username) flags the
// password field. On success the session is marked logged in and the client
// is forwarded to the revalidated forward_to target, defaulting to the list
// page.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	f := loginForm()
	sess, _ := middleware.SessionFrom(r.Context())

	if !f.ValidateOnSubmit(r, form.PostSubmission{CSRFToken: sess.CSRFToken}) {
		if r.Method == http.MethodGet {
			f.SetValue("forward_to", forwardTarget(r))
		}
		s.renderPage(w, r, http.StatusOK, "login", loginData{pageData: s.page(r), Form: f})
		return
	}

	switch {
	case f.String("username") != s.creds.Username:
		f.AddError("username", "Invalid username")
	case f.String("password") != s.creds.Password:
		f.AddError("password", "Invalid password")
	default:
		s.sessions.SetLoggedIn(r.Context(), sess.Token, true)
		s.redirectSafely(w, r, f.String("forward_to"), "/")
		return
	}
	s.renderPage(w, r, http.StatusOK, "login", loginData{pageData: s.page(r), Form: f})
}

// handleLogout handles GET /logout.
// It clears the logged-in flag — the session itself survives, matching the
// lifecycle in which login only flips a boolean — and sends the client home.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.SessionFrom(r.Context()); ok {
		s.sessions.SetLoggedIn(r.Context(), sess.Token, false)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
