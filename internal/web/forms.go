package web

import (
	"github.com/calkins/recipelister/internal/domain"
	"github.com/calkins/recipelister/internal/form"
)

// recipeForm declares the add/edit recipe form. The label options are
// queried fresh by the caller for every request, so a label created a
// moment ago is immediately selectable.
func recipeForm(options []form.Option) *form.Form {
	return form.New(
		form.NewText("title", "Title", true),
		form.NewLongText("recipe_body", "Recipe", true),
		form.NewInteger("total_time", "Total Time (min)"),
		form.NewInteger("active_time", "Active Time (min)"),
		form.NewMultiSelect("labels", "Labels", options),
	)
}

// searchForm declares the search form. The label fields are offered but the
// search presently ignores them; see domain.RecipeFilter.
func searchForm(options []form.Option) *form.Form {
	return form.New(
		form.NewText("title_fragments", "Title Contains", false),
		form.NewInteger("max_active_time", "Maximum Active Time (min)"),
		form.NewInteger("max_total_time", "Maximum Total Time (min)"),
		form.NewMultiSelect("included_labels", "Tagged with all of", options),
		form.NewMultiSelect("excluded_labels", "Not tagged with any of", options),
	)
}

// loginForm declares the login form, including the hidden forward_to target
// the redirect guard revalidates after a successful login.
func loginForm() *form.Form {
	return form.New(
		form.NewText("username", "Name", true),
		form.NewPassword("password", "Password", true),
		form.NewHidden("forward_to"),
	)
}

// labelForm declares the label creation form on the labels page.
func labelForm() *form.Form {
	return form.New(
		form.NewText("name", "Name", true),
	)
}

// labelOptions converts labels to multi-select options keyed by UUID.
func labelOptions(labels []domain.Label) []form.Option {
	opts := make([]form.Option, len(labels))
	for i, l := range labels {
		opts[i] = form.Option{Value: l.ID.String(), Label: l.Name}
	}
	return opts
}
