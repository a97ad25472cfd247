package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// The web layer maps this to the 404 page.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field).
// The web layer surfaces this as an in-page field error, never a 5xx.
var ErrValidation = errors.New("validation error")
