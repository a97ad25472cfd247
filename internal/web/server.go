// Package web implements the HTML-serving HTTP handlers for recipelister.
// All handlers are methods on Server. Methods are split into domain-specific
// files (recipe.go, search.go, auth.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/calkins/recipelister/internal/domain"
	"github.com/calkins/recipelister/internal/middleware"
	"github.com/calkins/recipelister/internal/session"
)

// RecipeServicer defines the business operations the recipe handlers depend
// on. Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type RecipeServicer interface {
	Create(ctx context.Context, recipe domain.Recipe, labelIDs []uuid.UUID) (domain.Recipe, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Recipe, error)
	List(ctx context.Context) ([]domain.Recipe, error)
	Update(ctx context.Context, id uuid.UUID, recipe domain.Recipe, addLabelIDs []uuid.UUID) (domain.Recipe, error)
	RemoveLabel(ctx context.Context, recipeID, labelID uuid.UUID) error
	Search(ctx context.Context, f domain.RecipeFilter) ([]domain.Recipe, error)
}

// LabelServicer defines the business operations the label handlers depend on.
type LabelServicer interface {
	CreateByName(ctx context.Context, name string) (domain.Label, error)
	List(ctx context.Context) ([]domain.Label, error)
}

// Credentials is the single configured username/password pair. There is no
// multi-user model: whoever holds this pair is "the" user.
type Credentials struct {
	Username string
	Password string
}

// Server holds the dependencies shared by every handler.
type Server struct {
	recipes  RecipeServicer
	labels   LabelServicer
	sessions session.Store
	render   Renderer
	creds    Credentials
	log      *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(recipes RecipeServicer, labels LabelServicer, sessions session.Store, render Renderer, creds Credentials, log *slog.Logger) *Server {
	return &Server{
		recipes:  recipes,
		labels:   labels,
		sessions: sessions,
		render:   render,
		creds:    creds,
		log:      log,
	}
}

// Routes builds the router for the whole application. The session loader
// runs on every request; the login requirement wraps only the mutating
// recipe and label routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NewSessionLoader(s.sessions))
	r.NotFound(s.handleNotFound)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/recipe/{recipeID}", s.handleViewRecipe)
	r.Get("/search", s.handleSearch)
	r.Get("/login", s.handleLogin)
	r.Post("/login", s.handleLogin)
	r.Get("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewRequireLogin())
		r.Get("/recipe/add", s.handleAddRecipe)
		r.Post("/recipe/add", s.handleAddRecipe)
		r.Get("/recipe/edit/{recipeID}", s.handleEditRecipe)
		r.Post("/recipe/edit/{recipeID}", s.handleEditRecipe)
		r.Get("/remove_label/recipe/{recipeID}/label/{labelID}", s.handleRemoveLabel)
		r.Get("/labels", s.handleLabels)
		r.Post("/labels", s.handleLabels)
	})

	return r
}

// handleNotFound renders the dedicated 404 page for unmatched routes and
// missing entities alike.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusNotFound, "page_not_found", s.page(r))
}

// handleHealth handles GET /healthz.
// It returns HTTP 200 with "ok" when the server is running.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// renderPage renders a page and logs (rather than surfaces) template
// failures — by the time rendering fails, part of the response may already
// be decided, so there is nothing better to tell the client.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	if err := s.render.Render(w, status, page, data); err != nil {
		s.log.Error("render page", "page", page, "path", r.URL.Path, "error", err)
	}
}

// serverError logs an unexpected failure and returns a bare 500. Validation
// and not-found outcomes never come through here.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("handler error", "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// page builds the fields every template needs: the logged-in flag for the
// navigation bar and the CSRF token for form rendering.
func (s *Server) page(r *http.Request) pageData {
	sess, _ := middleware.SessionFrom(r.Context())
	return pageData{LoggedIn: sess.LoggedIn, CSRFToken: sess.CSRFToken}
}

// pageData is embedded in every page's data struct.
type pageData struct {
	LoggedIn  bool
	CSRFToken string
}
