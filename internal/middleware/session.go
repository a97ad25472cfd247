package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/calkins/recipelister/internal/session"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "recipelister_session"

// ctxKey is unexported so no other package can forge session context values.
type ctxKey struct{}

// NewSessionLoader returns a middleware that resolves the session cookie
// against the store and puts the session into the request context. Requests
// without a live session get a fresh logged-out one and a new cookie, so
// every downstream handler can rely on a session (and its CSRF token) being
// present.
func NewSessionLoader(store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := sessionFromCookie(r, store)
			if !ok {
				var err error
				sess, err = store.Issue(r.Context())
				if err != nil {
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    sess.Token,
					Path:     "/",
					Expires:  sess.ExpiresAt,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := context.WithValue(r.Context(), ctxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFrom returns the session placed in the context by NewSessionLoader.
func SessionFrom(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(session.Session)
	return sess, ok
}

// NewRequireLogin returns a middleware that rejects unauthenticated requests
// with a redirect to the login page, preserving the originally requested URL
// as the forward_to target so a successful login can resume where the user
// left off.
func NewRequireLogin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFrom(r.Context())
			if !ok || !sess.LoggedIn {
				target := "/login?forward_to=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sessionFromCookie resolves the request's session cookie, if any, against
// the store.
func sessionFromCookie(r *http.Request, store session.Store) (session.Session, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return session.Session{}, false
	}
	return store.Get(r.Context(), cookie.Value)
}
