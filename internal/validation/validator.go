package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns the validator shared by the route handlers. Tag-level rules
// cover payload shape; domain rules (quantities, shipping completeness,
// catalog resolution) live in the services so their error messages match the
// storefront's.
func New() *validatorv10.Validate {
	return validatorv10.New()
}
