package form_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calkins/recipelister/internal/form"
)

const testCSRF = "per-session-token"

// postRequest builds a POST with urlencoded form values plus the CSRF token.
func postRequest(t *testing.T, values url.Values) *http.Request {
	t.Helper()
	values.Set(form.CSRFFieldName, testCSRF)
	req := httptest.NewRequest(http.MethodPost, "/recipe/add", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func recipeTestForm(options ...form.Option) *form.Form {
	return form.New(
		form.NewText("title", "Title", true),
		form.NewLongText("recipe_body", "Recipe", true),
		form.NewInteger("total_time", "Total Time"),
		form.NewMultiSelect("labels", "Labels", options),
	)
}

// ---- submission detection --------------------------------------------------

func TestValidateOnSubmit_GetIsNotASubmission(t *testing.T) {
	f := recipeTestForm()
	req := httptest.NewRequest(http.MethodGet, "/recipe/add", nil)

	ok := f.ValidateOnSubmit(req, form.PostSubmission{CSRFToken: testCSRF})

	assert.False(t, ok)
	assert.False(t, f.HasErrors(), "an unsubmitted form carries no errors")
}

func TestValidateOnSubmit_WrongCSRFTokenIsNotASubmission(t *testing.T) {
	f := recipeTestForm()
	values := url.Values{"title": {"Soup"}, "recipe_body": {"Simmer."}}
	values.Set(form.CSRFFieldName, "forged")
	req := httptest.NewRequest(http.MethodPost, "/recipe/add", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	ok := f.ValidateOnSubmit(req, form.PostSubmission{CSRFToken: testCSRF})

	assert.False(t, ok)
}

func TestValidateOnSubmit_MissingCSRFTokenIsNotASubmission(t *testing.T) {
	f := recipeTestForm()
	values := url.Values{"title": {"Soup"}, "recipe_body": {"Simmer."}}
	req := httptest.NewRequest(http.MethodPost, "/recipe/add", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	ok := f.ValidateOnSubmit(req, form.PostSubmission{CSRFToken: testCSRF})

	assert.False(t, ok)
}

func TestQuerySubmission_EmptyQueryIsNotASubmission(t *testing.T) {
	f := form.New(form.NewText("title_fragments", "Title Contains", false))

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	assert.False(t, f.ValidateOnSubmit(req, form.QuerySubmission{}))

	req = httptest.NewRequest(http.MethodGet, "/search?title_fragments=soup", nil)
	assert.True(t, f.ValidateOnSubmit(req, form.QuerySubmission{}))
	assert.Equal(t, "soup", f.String("title_fragments"))
}

// ---- field rules -----------------------------------------------------------

func TestValidate_RequiredTextMissing(t *testing.T) {
	f := recipeTestForm()
	req := postRequest(t, url.Values{"recipe_body": {"Simmer."}})

	ok := f.ValidateOnSubmit(req, form.PostSubmission{CSRFToken: testCSRF})

	assert.False(t, ok)
	require.NotEmpty(t, f.Field("title").Errors)
	assert.Equal(t, "This field is required.", f.Field("title").Errors[0])
	assert.Empty(t, f.Field("recipe_body").Errors)
}

func TestValidate_RequiredTextWhitespaceOnly(t *testing.T) {
	f := recipeTestForm()
	req := postRequest(t, url.Values{"title": {"   "}, "recipe_body": {"Simmer."}})

	ok := f.ValidateOnSubmit(req, form.PostSubmission{CSRFToken: testCSRF})

	assert.False(t, ok)
	assert.NotEmpty(t, f.Field("title").Errors)
}

func TestValidate_IntegerCoercion(t *testing.T) {
	f := recipeTestForm()
	req := postRequest(t, url.Values{
		"title":       {"Soup"},
		"recipe_body": {"Simmer."},
		"total_time":  {"45"},
	})

	ok := f.ValidateOnSubmit(req, form.PostSubmission{CSRFToken: testCSRF})

	require.True(t, ok)
	require.NotNil(t, f.Int("total_time"))
	assert.Equal(t, 45, *f.Int("total_time"))
}

func TestValidate_IntegerBlankIsNil(t *testing.T) {
	f := recipeTestForm()
	req := postRequest(t, url.Values{
		"title":       {"Soup"},
		"recipe_body": {"Simmer."},
		"total_time":  {""},
	})

	ok := f.ValidateOnSubmit(req, form.PostSubmission{CSRFToken: testCSRF})

	require.True(t, ok)
	assert.Nil(t, f.Int("total_time"))
}

func TestValidate_IntegerGarbage(t *testing.T) {
	f := recipeTestForm()
	req := postRequest(t, url.Values{
		"title":       {"Soup"},
		"recipe_body": {"Simmer."},
		"total_time":  {"forty-five"},
	})

	ok := f.ValidateOnSubmit(req, form.PostSubmission{CSRFToken: testCSRF})

	assert.False(t, ok)
	assert.Equal(t, []string{"Not a valid integer value."}, f.Field("total_time").Errors)
}

func TestValidate_IntegerNegative(t *testing.T) {
	f := recipeTestForm()
	req := postRequest(t, url.Values{
		"title":       {"Soup"},
		"recipe_body": {"Simmer."},
		"total_time":  {"-10"},
	})

	ok := f.ValidateOnSubmit(req, form.PostSubmission{CSRFToken: testCSRF})

	assert.False(t, ok)
	assert.Equal(t, []string{"Must not be negative."}, f.Field("total_time").Errors)
}

func TestValidate_MultiSelectAcceptsOptions(t *testing.T) {
	soup, quick := uuid.New(), uuid.New()
	f := recipeTestForm(
		form.Option{Value: soup.String(), Label: "soup"},
		form.Option{Value: quick.String(), Label: "quick"},
	)
	req := postRequest(t, url.Values{
		"title":       {"Soup"},
		"recipe_body": {"Simmer."},
		"labels":      {soup.String(), quick.String()},
	})

	ok := f.ValidateOnSubmit(req, form.PostSubmission{CSRFToken: testCSRF})

	require.True(t, ok)
	assert.ElementsMatch(t, []uuid.UUID{soup, quick}, f.UUIDs("labels"))
}

func TestValidate_MultiSelectRejectsUnknownValue(t *testing.T) {
	soup := uuid.New()
	f := recipeTestForm(form.Option{Value: soup.String(), Label: "soup"})
	req := postRequest(t, url.Values{
		"title":       {"Soup"},
		"recipe_body": {"Simmer."},
		"labels":      {uuid.New().String()}, // valid UUID, not an option
	})

	ok := f.ValidateOnSubmit(req, form.PostSubmission{CSRFToken: testCSRF})

	assert.False(t, ok)
	assert.Equal(t, []string{"Not a valid choice."}, f.Field("labels").Errors)
}

func TestValidate_MultiSelectRejectsMalformedValue(t *testing.T) {
	f := recipeTestForm(form.Option{Value: uuid.New().String(), Label: "soup"})
	req := postRequest(t, url.Values{
		"title":       {"Soup"},
		"recipe_body": {"Simmer."},
		"labels":      {"not-a-uuid"},
	})

	ok := f.ValidateOnSubmit(req, form.PostSubmission{CSRFToken: testCSRF})

	assert.False(t, ok)
	assert.NotEmpty(t, f.Field("labels").Errors)
}

func TestValidate_MultiSelectEmptyIsValid(t *testing.T) {
	f := recipeTestForm(form.Option{Value: uuid.New().String(), Label: "soup"})
	req := postRequest(t, url.Values{"title": {"Soup"}, "recipe_body": {"Simmer."}})

	ok := f.ValidateOnSubmit(req, form.PostSubmission{CSRFToken: testCSRF})

	require.True(t, ok)
	assert.Empty(t, f.UUIDs("labels"))
}

// ---- hidden + helpers ------------------------------------------------------

func TestHiddenFieldPassesThrough(t *testing.T) {
	f := form.New(
		form.NewText("username", "Name", true),
		form.NewHidden("forward_to"),
	)
	req := postRequest(t, url.Values{
		"username":   {"admin"},
		"forward_to": {"/recipe/add"},
	})

	ok := f.ValidateOnSubmit(req, form.PostSubmission{CSRFToken: testCSRF})

	require.True(t, ok)
	assert.Equal(t, "/recipe/add", f.String("forward_to"))
}

func TestAddErrorAndHasErrors(t *testing.T) {
	f := form.New(form.NewText("username", "Name", true))

	assert.False(t, f.HasErrors())
	f.AddError("username", "Invalid username")
	assert.True(t, f.HasErrors())
	assert.Equal(t, []string{"Invalid username"}, f.Field("username").Errors)
}
