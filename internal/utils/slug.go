package utils

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

const SlugMessage = "Slug must contain only lowercase letters, numbers, and hyphens. Cannot start or end with a hyphen."

func ValidateSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

// RegisterValidators adds the "slug" rule to gin's binding validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	return v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return ValidateSlug(fl.Field().String())
	})
}
