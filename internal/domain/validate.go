package domain

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator with the tags used across the domain
// types registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		_, err := time.ParseDuration(fl.Field().String())
		return err == nil
	})
	return v
}
