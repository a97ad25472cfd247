package web_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/calkins/recipelister/internal/domain"
	"github.com/calkins/recipelister/internal/form"
	"github.com/calkins/recipelister/internal/middleware"
	"github.com/calkins/recipelister/internal/session"
	"github.com/calkins/recipelister/internal/web"
)

// ---- mock services ----------------------------------------------------------

// mockRecipeServicer is a hand-written test double for web.RecipeServicer.
// Each method is a function field — set only the ones your test needs.
type mockRecipeServicer struct {
	create      func(ctx context.Context, recipe domain.Recipe, labelIDs []uuid.UUID) (domain.Recipe, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.Recipe, error)
	list        func(ctx context.Context) ([]domain.Recipe, error)
	update      func(ctx context.Context, id uuid.UUID, recipe domain.Recipe, addLabelIDs []uuid.UUID) (domain.Recipe, error)
	removeLabel func(ctx context.Context, recipeID, labelID uuid.UUID) error
	search      func(ctx context.Context, f domain.RecipeFilter) ([]domain.Recipe, error)
}

func (m *mockRecipeServicer) Create(ctx context.Context, recipe domain.Recipe, labelIDs []uuid.UUID) (domain.Recipe, error) {
	return m.create(ctx, recipe, labelIDs)
}
func (m *mockRecipeServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Recipe, error) {
	return m.getByID(ctx, id)
}
func (m *mockRecipeServicer) List(ctx context.Context) ([]domain.Recipe, error) {
	return m.list(ctx)
}
func (m *mockRecipeServicer) Update(ctx context.Context, id uuid.UUID, recipe domain.Recipe, addLabelIDs []uuid.UUID) (domain.Recipe, error) {
	return m.update(ctx, id, recipe, addLabelIDs)
}
func (m *mockRecipeServicer) RemoveLabel(ctx context.Context, recipeID, labelID uuid.UUID) error {
	return m.removeLabel(ctx, recipeID, labelID)
}
func (m *mockRecipeServicer) Search(ctx context.Context, f domain.RecipeFilter) ([]domain.Recipe, error) {
	return m.search(ctx, f)
}

var _ web.RecipeServicer = (*mockRecipeServicer)(nil)

type mockLabelServicer struct {
	createByName func(ctx context.Context, name string) (domain.Label, error)
	list         func(ctx context.Context) ([]domain.Label, error)
}

func (m *mockLabelServicer) CreateByName(ctx context.Context, name string) (domain.Label, error) {
	return m.createByName(ctx, name)
}
func (m *mockLabelServicer) List(ctx context.Context) ([]domain.Label, error) {
	return m.list(ctx)
}

var _ web.LabelServicer = (*mockLabelServicer)(nil)

// ---- recording renderer ------------------------------------------------------

// recordingRenderer captures what the handler asked to render instead of
// producing HTML, so tests assert on page names and data, not markup.
type recordingRenderer struct {
	status int
	page   string
	data   any
}

func (r *recordingRenderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	r.status = status
	r.page = page
	r.data = data
	w.WriteHeader(status)
	return nil
}

// ---- fixture wiring ----------------------------------------------------------

type fixture struct {
	server   http.Handler
	renderer *recordingRenderer
	sessions *session.MemoryStore
	recipes  *mockRecipeServicer
	labels   *mockLabelServicer
}

const (
	testUser = "admin"
	testPass = "hunter2"
)

// discardLogger returns a logger whose output goes nowhere.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// noLabels is a LabelServicer whose List returns nothing — the common case
// for tests that only exercise recipe behavior.
func noLabels() *mockLabelServicer {
	return &mockLabelServicer{
		list: func(context.Context) ([]domain.Label, error) { return []domain.Label{}, nil },
	}
}

func newFixture(t *testing.T, recipes *mockRecipeServicer, labels *mockLabelServicer) *fixture {
	t.Helper()
	renderer := &recordingRenderer{}
	sessions := session.NewMemoryStore(time.Hour)
	srv := web.NewServer(
		recipes,
		labels,
		sessions,
		renderer,
		web.Credentials{Username: testUser, Password: testPass},
		discardLogger(),
	)
	return &fixture{
		server:   srv.Routes(),
		renderer: renderer,
		sessions: sessions,
		recipes:  recipes,
		labels:   labels,
	}
}

// newHTMLFixture wires the production template renderer instead of the
// recorder, for tests that assert on the rendered markup itself (e.g. which
// form field carries an error message). fixture.renderer is nil here.
func newHTMLFixture(t *testing.T, recipes *mockRecipeServicer, labels *mockLabelServicer) *fixture {
	t.Helper()
	renderer, err := web.NewTemplateRenderer()
	require.NoError(t, err)
	sessions := session.NewMemoryStore(time.Hour)
	srv := web.NewServer(
		recipes,
		labels,
		sessions,
		renderer,
		web.Credentials{Username: testUser, Password: testPass},
		discardLogger(),
	)
	return &fixture{
		server:   srv.Routes(),
		sessions: sessions,
		recipes:  recipes,
		labels:   labels,
	}
}

// loggedInSession issues a session, marks it logged in, and returns it.
func (f *fixture) loggedInSession(t *testing.T) session.Session {
	t.Helper()
	sess, err := f.sessions.Issue(context.Background())
	require.NoError(t, err)
	f.sessions.SetLoggedIn(context.Background(), sess.Token, true)
	sess.LoggedIn = true
	return sess
}

// anonymousSession issues a logged-out session.
func (f *fixture) anonymousSession(t *testing.T) session.Session {
	t.Helper()
	sess, err := f.sessions.Issue(context.Background())
	require.NoError(t, err)
	return sess
}

// get performs a GET carrying the given session's cookie.
func (f *fixture) get(target string, sess session.Session) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sess.Token})
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

// post performs a form POST carrying the session cookie and its CSRF token.
func (f *fixture) post(target string, sess session.Session, values url.Values) *httptest.ResponseRecorder {
	values.Set(form.CSRFFieldName, sess.CSRFToken)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sess.Token})
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func recipeFixture() domain.Recipe {
	total, active := 60, 20
	return domain.Recipe{
		ID:         uuid.New(),
		Title:      "Lentil Soup",
		Body:       "Simmer 40 minutes.",
		TotalTime:  &total,
		ActiveTime: &active,
		Labels:     []domain.Label{{ID: uuid.New(), Name: "soup"}},
	}
}
