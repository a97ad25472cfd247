package form

import (
	"crypto/subtle"
	"net/http"
	"net/url"
)

// CSRFFieldName is the form field carrying the anti-forgery token.
const CSRFFieldName = "csrf_token"

// Submission decides whether a request constitutes a submission of a form,
// and where the submitted values live. Two strategies exist: state-changing
// forms submit via POST with an anti-forgery token, while the read-only
// search form is driven purely by query-string presence.
type Submission interface {
	Submitted(r *http.Request) bool
	Values(r *http.Request) url.Values
}

// PostSubmission treats a request as a submission only when it is a POST
// whose csrf_token field matches the expected per-session token.
type PostSubmission struct {
	// CSRFToken is the per-session token the submission must echo back.
	CSRFToken string
}

// Submitted reports whether the request is a POST with a matching token.
// The comparison is constant-time.
func (p PostSubmission) Submitted(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	if err := r.ParseForm(); err != nil {
		return false
	}
	got := r.PostForm.Get(CSRFFieldName)
	if got == "" || p.CSRFToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(p.CSRFToken)) == 1
}

// Values returns the POST body values.
func (p PostSubmission) Values(r *http.Request) url.Values {
	_ = r.ParseForm()
	return r.PostForm
}

// QuerySubmission treats a request as a submission whenever it carries any
// query parameters. No anti-forgery token is required: the operation is
// read-only by contract.
type QuerySubmission struct{}

// Submitted reports whether the request has a non-empty query string.
func (QuerySubmission) Submitted(r *http.Request) bool {
	return len(r.URL.Query()) > 0
}

// Values returns the query-string values.
func (QuerySubmission) Values(r *http.Request) url.Values {
	return r.URL.Query()
}
