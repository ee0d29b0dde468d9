package models

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate checks the validate tags of v.
func Validate(v interface{}) error {
	return validate.Struct(v)
}
