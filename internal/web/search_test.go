package web_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calkins/recipelister/internal/domain"
)

func TestSearch_NoQueryRendersForm(t *testing.T) {
	svc := &mockRecipeServicer{
		search: func(context.Context, domain.RecipeFilter) ([]domain.Recipe, error) {
			t.Fatal("search must not run before the form is submitted")
			return nil, nil
		},
	}
	f := newFixture(t, svc, noLabels())

	rec := f.get("/search", f.anonymousSession(t))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "search", f.renderer.page)
}

func TestSearch_QueryBuildsFilterAndRendersResults(t *testing.T) {
	results := []domain.Recipe{recipeFixture()}

	var gotFilter domain.RecipeFilter
	svc := &mockRecipeServicer{
		search: func(_ context.Context, filter domain.RecipeFilter) ([]domain.Recipe, error) {
			gotFilter = filter
			return results, nil
		},
	}
	f := newFixture(t, svc, noLabels())

	rec := f.get("/search?title_fragments=lentil+soup&max_active_time=30&max_total_time=", f.anonymousSession(t))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "index", f.renderer.page, "results reuse the list page")

	assert.Equal(t, []string{"lentil", "soup"}, gotFilter.TitleFragments)
	require.NotNil(t, gotFilter.MaxActiveTime)
	assert.Equal(t, 30, *gotFilter.MaxActiveTime)
	assert.Nil(t, gotFilter.MaxTotalTime, "a blank bound means unbounded")
}

func TestSearch_BlankQueryStillSearches(t *testing.T) {
	called := false
	svc := &mockRecipeServicer{
		search: func(_ context.Context, filter domain.RecipeFilter) ([]domain.Recipe, error) {
			called = true
			assert.True(t, filter.Empty())
			return []domain.Recipe{}, nil
		},
	}
	f := newFixture(t, svc, noLabels())

	// Submitting the form with everything blank still counts as a search.
	rec := f.get("/search?title_fragments=&max_active_time=&max_total_time=", f.anonymousSession(t))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.Equal(t, "index", f.renderer.page)
}

func TestSearch_InvalidTimeRerendersForm(t *testing.T) {
	svc := &mockRecipeServicer{
		search: func(context.Context, domain.RecipeFilter) ([]domain.Recipe, error) {
			t.Fatal("search must not run for an invalid submission")
			return nil, nil
		},
	}
	f := newFixture(t, svc, noLabels())

	rec := f.get("/search?max_active_time=soon", f.anonymousSession(t))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "search", f.renderer.page)
}
